package evaluation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/commentflow/internal/comments"
	"github.com/spacesedan/commentflow/internal/models"
)

const (
	DECISION_THRESHOLD = 0.5
	SINK_FLUSH_TIMEOUT = 30 * time.Second
)

// CommentScorer labels comment texts; results align with the input.
type CommentScorer interface {
	Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error)
}

// ResultSummarizer reduces per-comment results to one score in [0,1].
type ResultSummarizer interface {
	Summarize(results []models.SentimentResult) (float64, error)
}

// PredictLabel applies the fixed decision threshold. 0.5 counts as positive.
func PredictLabel(score float64) int {
	if score >= DECISION_THRESHOLD {
		return 1
	}
	return 0
}

type Evaluator struct {
	source     comments.CommentSource
	scorer     CommentScorer
	summarizer ResultSummarizer
	sinks      []OutcomeSink
	out        io.Writer
	now        func() time.Time
	newRunID   func() string
}

type EvaluatorOption func(*Evaluator)

// WithSinks adds outcome sinks.
func WithSinks(sinks ...OutcomeSink) EvaluatorOption {
	return func(e *Evaluator) {
		e.sinks = append(e.sinks, sinks...)
	}
}

// WithOutput sets where per-item progress lines are printed.
func WithOutput(w io.Writer) EvaluatorOption {
	return func(e *Evaluator) {
		e.out = w
	}
}

func NewEvaluator(source comments.CommentSource, scorer CommentScorer, summarizer ResultSummarizer, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		source:     source,
		scorer:     scorer,
		summarizer: summarizer,
		out:        io.Discard,
		now:        time.Now,
		newRunID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run evaluates items sequentially in input order. Only items carrying an
// expected label reach the accumulator. A cancelled context stops the run
// between items and the pairs gathered so far are returned.
func (e *Evaluator) Run(ctx context.Context, items []models.VideoEvaluationItem) (*Accumulator, []models.ItemOutcome) {
	runID := e.newRunID()
	acc := NewAccumulator()
	outcomes := make([]models.ItemOutcome, 0, len(items))

	slog.Info("[Evaluator] Starting evaluation run",
		slog.String("run_id", runID),
		slog.Int("items", len(items)))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			slog.Warn("[Evaluator] Run cancelled",
				slog.String("run_id", runID),
				slog.Int("processed", i),
				slog.String("error", err.Error()))
			break
		}

		outcome := e.evaluateItem(ctx, item, acc)
		outcome.RunID = runID
		outcome.EvaluatedAt = e.now().UTC()
		outcomes = append(outcomes, outcome)
		e.record(ctx, outcome)
	}

	// sinks are flushed even when the run was cancelled
	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SINK_FLUSH_TIMEOUT)
	defer cancel()
	for _, sink := range e.sinks {
		if err := sink.Flush(flushCtx); err != nil {
			slog.Error("[Evaluator] Failed to flush outcome sink",
				slog.String("run_id", runID),
				slog.String("error", err.Error()))
		}
	}

	slog.Info("[Evaluator] Evaluation run finished",
		slog.String("run_id", runID),
		slog.Int("outcomes", len(outcomes)),
		slog.Int("labeled", acc.Len()))

	return acc, outcomes
}

func (e *Evaluator) evaluateItem(ctx context.Context, item models.VideoEvaluationItem, acc *Accumulator) models.ItemOutcome {
	title := item.DisplayTitle()
	outcome := models.ItemOutcome{
		ContentID:     item.ContentID,
		Title:         title,
		ExpectedLabel: item.ExpectedLabel,
	}

	videoID := strings.TrimSpace(item.ContentID)
	if videoID == "" {
		slog.Warn("[Evaluator] Skipping item without content id", slog.String("title", title))
		fmt.Fprintf(e.out, "Skipping %q: no content id\n", title)
		outcome.Status = models.OUTCOME_SKIPPED_MISSING_ID
		return outcome
	}

	fmt.Fprintf(e.out, "Processing %s (%s)\n", title, videoID)

	fetched := e.source.Fetch(ctx, videoID)
	if fetched.Failed() {
		fmt.Fprintf(e.out, "  could not fetch comments: %s\n", fetched.Reason)
		outcome.Status = models.OUTCOME_FETCH_FAILED
		outcome.FailureReason = string(fetched.Reason)
		outcome.Error = fetched.Err.Error()
		return outcome
	}
	if len(fetched.Comments) == 0 {
		fmt.Fprintln(e.out, "  no comments found")
		outcome.Status = models.OUTCOME_NO_COMMENTS
		return outcome
	}
	outcome.CommentCount = len(fetched.Comments)

	score, err := e.score(ctx, fetched.Comments)
	if err != nil {
		slog.Error("[Evaluator] Failed to score comments",
			slog.String("video_id", videoID),
			slog.Int("comments", len(fetched.Comments)),
			slog.String("error", err.Error()))
		fmt.Fprintf(e.out, "  scoring failed: %v\n", err)
		outcome.Status = models.OUTCOME_SCORING_FAILED
		outcome.Error = err.Error()
		return outcome
	}

	predicted := PredictLabel(score)
	outcome.OverallScore = score
	outcome.PredictedLabel = &predicted

	if item.ExpectedLabel == nil {
		fmt.Fprintf(e.out, "  overall %.4f predicted %d: no expected sentiment provided\n", score, predicted)
		outcome.Status = models.OUTCOME_UNLABELED
		return outcome
	}

	expected := *item.ExpectedLabel
	acc.Add(expected, predicted)
	outcome.Status = models.OUTCOME_EVALUATED
	outcome.Match = expected == predicted

	verdict := "match"
	if !outcome.Match {
		verdict = "mismatch"
	}
	fmt.Fprintf(e.out, "  overall %.4f predicted %d expected %d: %s\n", score, predicted, expected, verdict)
	return outcome
}

func (e *Evaluator) score(ctx context.Context, texts []string) (float64, error) {
	results, err := e.scorer.Classify(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("classify: %w", err)
	}
	score, err := e.summarizer.Summarize(results)
	if err != nil {
		return 0, fmt.Errorf("summarize: %w", err)
	}
	return score, nil
}

func (e *Evaluator) record(ctx context.Context, outcome models.ItemOutcome) {
	for _, sink := range e.sinks {
		if err := sink.Record(ctx, outcome); err != nil {
			slog.Error("[Evaluator] Failed to record outcome",
				slog.String("content_id", outcome.ContentID),
				slog.String("status", string(outcome.Status)),
				slog.String("error", err.Error()))
		}
	}
}
