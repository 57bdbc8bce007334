package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/compass/internal/horizon"
	"github.com/hyperengineering/compass/internal/project"
	"github.com/hyperengineering/compass/internal/rank"
	"github.com/hyperengineering/compass/internal/score"
	"github.com/hyperengineering/compass/internal/types"
)

var projectReportCmd = &cobra.Command{
	Use:   "report <file>",
	Short: "Summarize a project file",
	Long:  "Print the readiness band, use-case rankings, and horizon buckets of a project file.",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectReport,
}

func runProjectReport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read project file: %w", err)
	}

	st, err := project.Deserialize(data)
	if err != nil {
		return err
	}

	avg := score.AssessmentAverage(st.Assessment)
	band := score.Band(avg)
	rankings := rank.Rank(st.UseCases)
	horizons := horizon.Bucketize(st.UseCases, st.Placements)

	out := cmd.OutOrStdout()

	if projectJSONOutput {
		return printJSON(out, map[string]any{
			"readiness": map[string]any{
				"average": avg,
				"band":    band,
				"percent": score.ReadinessPercent(avg),
			},
			"rankings": rankings,
			"horizons": horizons,
		})
	}

	fmt.Fprintf(out, "Readiness: %.2f (%s, %d%%)\n\n", avg, band, score.ReadinessPercent(avg))

	tw := newTabWriter(out)
	fmt.Fprintln(tw, "RANK\tNAME\tAVERAGE")
	for _, r := range rankings {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\n", r.Rank, r.Name, r.Average)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	printHorizon(out, "Horizon 1 (do now)", horizons.Horizon1)
	printHorizon(out, "Horizon 2 (plan)", horizons.Horizon2)
	printHorizon(out, "Horizon 3 (explore)", horizons.Horizon3)
	return nil
}

func printHorizon(out io.Writer, label string, useCases []types.UseCase) {
	fmt.Fprintf(out, "%s:", label)
	if len(useCases) == 0 {
		fmt.Fprintln(out, " (none)")
		return
	}
	fmt.Fprintln(out)
	for _, u := range useCases {
		fmt.Fprintf(out, "  - %s\n", u.DisplayName())
	}
}
