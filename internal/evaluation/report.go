package evaluation

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

var ErrEmptyAccumulator = errors.New("no labeled items were evaluated")

// ConfusionMatrix counts pairs with rows indexed by the expected label and
// columns by the predicted label.
type ConfusionMatrix [2][2]int

func (m ConfusionMatrix) Total() int {
	return m[0][0] + m[0][1] + m[1][0] + m[1][1]
}

// Metrics are computed with label 1 as the positive class. Ratios with a zero
// denominator are reported as 0.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
}

type Report struct {
	Matrix  ConfusionMatrix
	Metrics Metrics
	Support [2]int
}

// BuildReport tallies the accumulated pairs. Labels outside {0,1} are an error.
func BuildReport(acc *Accumulator) (*Report, error) {
	if acc == nil || acc.Len() == 0 {
		return nil, ErrEmptyAccumulator
	}
	if len(acc.TrueLabels) != len(acc.PredictedLabels) {
		return nil, fmt.Errorf("accumulator out of step: %d expected, %d predicted",
			len(acc.TrueLabels), len(acc.PredictedLabels))
	}

	var report Report
	for i, expected := range acc.TrueLabels {
		predicted := acc.PredictedLabels[i]
		if !validLabel(expected) || !validLabel(predicted) {
			return nil, fmt.Errorf("pair %d has a label outside {0,1}: (%d,%d)", i, expected, predicted)
		}
		report.Matrix[expected][predicted]++
		report.Support[expected]++
	}

	m := report.Matrix
	tp, fp, fn := float64(m[1][1]), float64(m[0][1]), float64(m[1][0])
	report.Metrics.Accuracy = ratio(float64(m[0][0]+m[1][1]), float64(m.Total()))
	report.Metrics.Precision = ratio(tp, tp+fp)
	report.Metrics.Recall = ratio(tp, tp+fn)
	report.Metrics.F1 = ratio(2*report.Metrics.Precision*report.Metrics.Recall,
		report.Metrics.Precision+report.Metrics.Recall)

	return &report, nil
}

// Render writes the confusion matrix and metrics as text tables.
func (r *Report) Render(w io.Writer) error {
	matrix := table.NewWriter()
	matrix.SetStyle(table.StyleRounded)
	matrix.SetTitle("Confusion Matrix")
	matrix.AppendHeader(table.Row{"expected \\ predicted", "0", "1", "support"})
	for label := 0; label < 2; label++ {
		matrix.AppendRow(table.Row{
			strconv.Itoa(label),
			strconv.Itoa(r.Matrix[label][0]),
			strconv.Itoa(r.Matrix[label][1]),
			strconv.Itoa(r.Support[label]),
		})
	}
	matrix.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	metrics := table.NewWriter()
	metrics.SetStyle(table.StyleRounded)
	metrics.AppendHeader(table.Row{"metric", "value"})
	metrics.AppendRows([]table.Row{
		{"accuracy", formatRatio(r.Metrics.Accuracy)},
		{"precision", formatRatio(r.Metrics.Precision)},
		{"recall", formatRatio(r.Metrics.Recall)},
		{"f1", formatRatio(r.Metrics.F1)},
	})
	metrics.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	_, err := fmt.Fprintf(w, "%s\n\n%s\n", matrix.Render(), metrics.Render())
	return err
}

// WriteReport builds and renders in one step; an empty accumulator yields
// ErrEmptyAccumulator and nothing is written.
func WriteReport(w io.Writer, acc *Accumulator) (*Report, error) {
	report, err := BuildReport(acc)
	if err != nil {
		return nil, err
	}
	if err := report.Render(w); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return report, nil
}

func validLabel(label int) bool {
	return label == 0 || label == 1
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func formatRatio(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
