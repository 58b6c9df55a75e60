package evaluation

// Accumulator holds (expected, predicted) pairs for labeled items in the
// order they were evaluated. Both slices always have the same length.
type Accumulator struct {
	TrueLabels      []int
	PredictedLabels []int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{
		TrueLabels:      []int{},
		PredictedLabels: []int{},
	}
}

func (a *Accumulator) Add(expected, predicted int) {
	a.TrueLabels = append(a.TrueLabels, expected)
	a.PredictedLabels = append(a.PredictedLabels, predicted)
}

func (a *Accumulator) Len() int {
	return len(a.TrueLabels)
}
