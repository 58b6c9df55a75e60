package sentiment

import (
	"context"
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/commentflow/internal/models"
)

type fakePipeline struct {
	calls [][]string
}

func (f *fakePipeline) RunPipeline(inputs []string) (*pipelines.TextClassificationOutput, error) {
	f.calls = append(f.calls, inputs)
	out := &pipelines.TextClassificationOutput{}
	for range inputs {
		out.ClassificationOutputs = append(out.ClassificationOutputs, []pipelines.ClassificationOutput{
			{Label: "positive", Score: 0.5},
		})
	}
	return out, nil
}

func TestHugotClassifier_BatchesAndNormalizesLabels(t *testing.T) {
	fake := &fakePipeline{}
	h := &HugotClassifier{pipeline: fake, batchSize: 2}

	results, err := h.Classify(context.Background(), []string{"**a**", "b", "c"})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("calls=%d", len(fake.calls))
	}
	if fake.calls[0][0] != "a" {
		t.Fatalf("first input=%q", fake.calls[0][0])
	}
	if len(results) != 3 || results[2].Label != models.LABEL_POSITIVE || results[2].Score != 0.5 {
		t.Fatalf("results=%+v", results)
	}
}
