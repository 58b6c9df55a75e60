package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spacesedan/commentflow/internal/evaluation"
	"github.com/spacesedan/commentflow/internal/models"
)

func newEvaluateCommand(ctx *commandContext) *cobra.Command {
	var showOutcomes bool

	cmd := &cobra.Command{
		Use:   "evaluate <file>",
		Short: "Evaluate predictions for a labeled set of videos",
		Long:  "Reads videos from a JSON, YAML or TOML file, predicts a sentiment label for each and prints a confusion matrix against the expected labels.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			items, err := evaluation.LoadItems(args[0])
			if err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), cfg, ctx.flags.apiKey, true)
			if err != nil {
				return err
			}
			defer p.close()

			out := cmd.OutOrStdout()
			evaluator := evaluation.NewEvaluator(p.source, p.scorer, p.summarizer,
				evaluation.WithOutput(out),
				evaluation.WithSinks(p.sinks...))

			acc, outcomes := evaluator.Run(cmd.Context(), items)
			if showOutcomes {
				fmt.Fprintln(out, renderOutcomes(outcomes))
			}
			if err := writeSummary(out, acc); err != nil {
				return err
			}
			return cmd.Context().Err()
		},
	}

	cmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "Print a table of per-video outcomes")
	return cmd
}

// writeSummary prints the report, or a notice when nothing labeled was evaluated.
func writeSummary(w io.Writer, acc *evaluation.Accumulator) error {
	fmt.Fprintln(w)
	_, err := evaluation.WriteReport(w, acc)
	if errors.Is(err, evaluation.ErrEmptyAccumulator) {
		fmt.Fprintln(w, "No labeled videos were evaluated; nothing to report.")
		return nil
	}
	return err
}

func renderOutcomes(outcomes []models.ItemOutcome) string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		score := ""
		if o.PredictedLabel != nil {
			score = strconv.FormatFloat(o.OverallScore, 'f', 4, 64)
		}
		rows = append(rows, []string{
			o.ContentID,
			o.Title,
			string(o.Status),
			strconv.Itoa(o.CommentCount),
			score,
			formatLabel(o.ExpectedLabel),
			formatLabel(o.PredictedLabel),
		})
	}
	return renderTable(
		[]string{"video", "title", "status", "comments", "score", "expected", "predicted"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func formatLabel(label *int) string {
	if label == nil {
		return "-"
	}
	return strconv.Itoa(*label)
}
