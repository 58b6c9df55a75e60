package sentiment

import (
	"context"
	"testing"

	"github.com/spacesedan/commentflow/internal/models"
)

func TestVaderClassifier_LabelsPolarity(t *testing.T) {
	v := NewVaderClassifier()

	results, err := v.Classify(context.Background(), []string{
		"I love this video, it is amazing!",
		"This is terrible and I hate it.",
		"The video was uploaded on Tuesday.",
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(results) != 3 {
		t.Fatalf("len=%d", len(results))
	}

	if results[0].Label != models.LABEL_POSITIVE || results[0].Score < 0.6 {
		t.Fatalf("positive=%+v", results[0])
	}
	if results[1].Label != models.LABEL_NEGATIVE || results[1].Score < 0.6 {
		t.Fatalf("negative=%+v", results[1])
	}
	if results[2].Label != models.LABEL_NEUTRAL {
		t.Fatalf("neutral=%+v", results[2])
	}
}

func TestVaderConfidence(t *testing.T) {
	cases := []struct {
		compound float64
		label    string
		want     float64
	}{
		{1, models.LABEL_POSITIVE, 1},
		{0.2, models.LABEL_POSITIVE, 0.6},
		{-1, models.LABEL_NEGATIVE, 1},
		{0, models.LABEL_NEUTRAL, 1},
	}
	for _, tc := range cases {
		if got := VaderConfidence(tc.compound, tc.label); got != tc.want {
			t.Fatalf("VaderConfidence(%v, %s)=%v want %v", tc.compound, tc.label, got, tc.want)
		}
	}
}
