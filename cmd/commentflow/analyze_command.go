package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/spacesedan/commentflow/internal/comments"
	"github.com/spacesedan/commentflow/internal/evaluation"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

const commentColumnWidth = 60

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <video-id>",
		Short: "Score the comments of a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			p, err := buildPipeline(cmd.Context(), cfg, ctx.flags.apiKey, false)
			if err != nil {
				return err
			}
			defer p.close()

			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), p.source, p.scorer, p.summarizer, args[0])
		},
	}
}

// runAnalyze prints one row per comment followed by the overall score.
func runAnalyze(ctx context.Context, w io.Writer, source comments.CommentSource, scorer evaluation.CommentScorer, summarizer evaluation.ResultSummarizer, videoID string) error {
	fetched := source.Fetch(ctx, strings.TrimSpace(videoID))
	if fetched.Failed() || len(fetched.Comments) == 0 {
		fmt.Fprintln(w, "No comments found or an error occurred.")
		return nil
	}

	results, err := scorer.Classify(ctx, fetched.Comments)
	if err != nil {
		return fmt.Errorf("score comments: %w", err)
	}
	overall, err := summarizer.Summarize(results)
	if err != nil {
		return fmt.Errorf("summarize comments: %w", err)
	}

	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			text.Snip(sentiment.ConvertMarkdownToText(fetched.Comments[i]), commentColumnWidth, "…"),
			r.Label,
			strconv.FormatFloat(r.Score, 'f', 4, 64),
		})
	}

	fmt.Fprintln(w, "--- Sentiment Analysis Results ---")
	fmt.Fprintln(w, renderTable([]string{"comment", "label", "score"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Overall Sentiment ---")
	fmt.Fprintf(w, "The overall sentiment score for the video is: %.4f\n", overall)
	return nil
}
