package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spacesedan/commentflow/internal/comments"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

type stubSource struct {
	result comments.FetchResult
}

func (s stubSource) Fetch(context.Context, string) comments.FetchResult {
	return s.result
}

type stubScorer struct {
	score float64
}

func (s stubScorer) Classify(_ context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, len(texts))
	for i := range texts {
		results[i] = models.SentimentResult{Label: models.LABEL_POSITIVE, Score: s.score}
	}
	return results, nil
}

func TestRunAnalyze_PrintsTableAndOverall(t *testing.T) {
	var buf bytes.Buffer
	source := stubSource{result: comments.FetchResult{Comments: []string{"great video", "loved it"}}}
	summarizer := sentiment.NewSummarizer(sentiment.POLICY_LEGACY_MEAN)

	if err := runAnalyze(context.Background(), &buf, source, stubScorer{score: 0.91234}, summarizer, "vid"); err != nil {
		t.Fatalf("err=%v", err)
	}

	out := buf.String()
	for _, want := range []string{"great video", "loved it", "POSITIVE", "0.9123", "The overall sentiment score for the video is: 0.9123"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in\n%s", want, out)
		}
	}
}

func TestRunAnalyze_NoComments(t *testing.T) {
	for name, result := range map[string]comments.FetchResult{
		"empty":  {},
		"failed": {Err: errors.New("quota"), Reason: comments.REASON_QUOTA_EXCEEDED},
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			err := runAnalyze(context.Background(), &buf, stubSource{result: result}, stubScorer{}, sentiment.NewSummarizer(sentiment.POLICY_SIGNED), "vid")
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if strings.TrimSpace(buf.String()) != "No comments found or an error occurred." {
				t.Fatalf("output=%q", buf.String())
			}
		})
	}
}
