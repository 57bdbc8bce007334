package main

import (
	"encoding/json"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var projectJSONOutput bool

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Work with Compass project files",
	Long:  "Inspect, repair, and create project files without running the server.",
}

func init() {
	projectCmd.PersistentFlags().BoolVar(&projectJSONOutput, "json", false,
		"Output in JSON format")

	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectReportCmd)
	projectCmd.AddCommand(projectRepairCmd)
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
