package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/compass/internal/project"
	"github.com/hyperengineering/compass/internal/types"
)

var newUseCaseCount int

var projectNewCmd = &cobra.Command{
	Use:   "new <file>",
	Short: "Write a fresh project file with defaulted state",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectNew,
}

func init() {
	projectNewCmd.Flags().IntVar(&newUseCaseCount, "use-cases", 8,
		"Number of defaulted use cases (2-10)")
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	path := args[0]

	if newUseCaseCount < 2 || newUseCaseCount > 10 {
		return fmt.Errorf("use-cases must be between 2 and 10")
	}

	useCases := make([]types.UseCase, 0, newUseCaseCount)
	for i := 0; i < newUseCaseCount; i++ {
		useCases = append(useCases, types.NewUseCase(i))
	}

	doc := project.Serialize(types.NewAssessment(), useCases, nil)
	data, err := project.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created project %q with %d use cases\n", path, newUseCaseCount)
	return nil
}
