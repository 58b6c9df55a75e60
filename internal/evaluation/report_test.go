package evaluation

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestBuildReport_EmptyAccumulator(t *testing.T) {
	if _, err := BuildReport(NewAccumulator()); !errors.Is(err, ErrEmptyAccumulator) {
		t.Fatalf("err=%v", err)
	}
	var buf bytes.Buffer
	if _, err := WriteReport(&buf, nil); !errors.Is(err, ErrEmptyAccumulator) {
		t.Fatalf("err=%v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("wrote %q", buf.String())
	}
}

func TestBuildReport_CountsAndMetrics(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(1, 1)
	acc.Add(1, 1)
	acc.Add(1, 0)
	acc.Add(0, 1)
	acc.Add(0, 0)

	report, err := BuildReport(acc)
	if err != nil {
		t.Fatalf("err=%v", err)
	}

	want := ConfusionMatrix{{1, 1}, {1, 2}}
	if report.Matrix != want {
		t.Fatalf("Matrix=%v", report.Matrix)
	}
	if report.Matrix.Total() != acc.Len() {
		t.Fatalf("Total=%d", report.Matrix.Total())
	}
	if report.Support != [2]int{2, 3} {
		t.Fatalf("Support=%v", report.Support)
	}

	approx := func(name string, got, want float64) {
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("%s=%v want %v", name, got, want)
		}
	}
	approx("accuracy", report.Metrics.Accuracy, 0.6)
	approx("precision", report.Metrics.Precision, 2.0/3.0)
	approx("recall", report.Metrics.Recall, 2.0/3.0)
	approx("f1", report.Metrics.F1, 2.0/3.0)
}

func TestBuildReport_NoPositivePredictions(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(0, 0)

	report, err := BuildReport(acc)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if report.Metrics.Precision != 0 || report.Metrics.F1 != 0 || report.Metrics.Accuracy != 1 {
		t.Fatalf("Metrics=%+v", report.Metrics)
	}
}

func TestBuildReport_RejectsForeignLabels(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(2, 1)
	if _, err := BuildReport(acc); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteReport_RendersTables(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(1, 1)
	acc.Add(0, 1)

	var buf bytes.Buffer
	if _, err := WriteReport(&buf, acc); err != nil {
		t.Fatalf("err=%v", err)
	}
	for _, want := range []string{"Confusion Matrix", "accuracy", "0.5000", "f1"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("missing %q in\n%s", want, buf.String())
		}
	}
}
