package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/compass/internal/project"
)

var repairOutputPath string

var projectRepairCmd = &cobra.Command{
	Use:   "repair <file>",
	Short: "Repair a project file in place",
	Long: "Parse a project file, coerce and clamp every field into its valid " +
		"range, and write the repaired document back out. Only a file that is " +
		"not JSON at all is rejected.",
	Args: cobra.ExactArgs(1),
	RunE: runProjectRepair,
}

func init() {
	projectRepairCmd.Flags().StringVarP(&repairOutputPath, "output", "o", "",
		"Write repaired document to this path instead of overwriting the input")
}

func runProjectRepair(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read project file: %w", err)
	}

	st, err := project.Deserialize(data)
	if err != nil {
		return err
	}

	doc := project.Serialize(st.Assessment, st.UseCases, st.Placements)
	out, err := project.Marshal(doc)
	if err != nil {
		return err
	}

	target := repairOutputPath
	if target == "" {
		target = path
	}
	if err := os.WriteFile(target, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("write repaired file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Repaired project written to %q\n", target)
	return nil
}
