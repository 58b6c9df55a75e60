package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/spacesedan/commentflow/internal/models"
)

type stubClassifier struct {
	results []models.SentimentResult
	err     error
	inputs  [][]string
}

func (s *stubClassifier) Classify(_ context.Context, texts []string) ([]models.SentimentResult, error) {
	s.inputs = append(s.inputs, texts)
	return s.results, s.err
}

func TestScorer_PassesWholeSliceOnce(t *testing.T) {
	stub := &stubClassifier{results: []models.SentimentResult{{Score: 0.1}, {Score: 0.2}, {Score: 0.3}}}

	results, err := NewScorer(stub, "stub").Classify(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(stub.inputs) != 1 || len(stub.inputs[0]) != 3 {
		t.Fatalf("inputs=%v", stub.inputs)
	}
	if results[2].Score != 0.3 {
		t.Fatalf("results=%v", results)
	}
}

func TestScorer_RejectsMisalignedResults(t *testing.T) {
	stub := &stubClassifier{results: []models.SentimentResult{{Score: 0.1}}}

	_, err := NewScorer(stub, "stub").Classify(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrResultCountMismatch) {
		t.Fatalf("err=%v", err)
	}
}

func TestScorer_PropagatesClassifierError(t *testing.T) {
	boom := errors.New("model crashed")
	stub := &stubClassifier{err: boom}

	_, err := NewScorer(stub, "stub").Classify(context.Background(), []string{"a"})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}
