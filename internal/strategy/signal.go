package strategy

import (
	"math"

	"github.com/rxtech-lab/knightrade/internal/panel"
)

// rawSignals holds the decisions of one GenerateSignals call before the fill
// policy runs. Cells start undefined; rules assign in order, later rules win.
type rawSignals struct {
	price *panel.Panel
	// cells is instrument-major: cells[i][t]
	cells [][]float64
}

func newRawSignals(price *panel.Panel) *rawSignals {
	cells := make([][]float64, price.NumInstruments())
	for i := range cells {
		cells[i] = make([]float64, price.NumTimes())
		for t := range cells[i] {
			cells[i][t] = math.NaN()
		}
	}

	return &rawSignals{
		price: price,
		cells: cells,
	}
}

// assignWhere sets value on every cell for which rule holds.
func (r *rawSignals) assignWhere(rule func(t, i int) bool, value float64) {
	for i := range r.cells {
		for t := range r.cells[i] {
			if rule(t, i) {
				r.cells[i][t] = value
			}
		}
	}
}

// finalize applies the decision lag and the fill policy.
func (r *rawSignals) finalize() (*panel.Panel, error) {
	series := make([][]float64, len(r.cells))
	for i, decisions := range r.cells {
		series[i] = fillSignals(lagDecisions(decisions))
	}

	return panel.NewLike(r.price, series)
}

// lagDecisions moves every decision one row later: a decision taken on bar t is
// held from bar t+1.
func lagDecisions(decisions []float64) []float64 {
	out := make([]float64, len(decisions))
	for t := range out {
		if t == 0 {
			out[t] = math.NaN()

			continue
		}

		out[t] = decisions[t-1]
	}

	return out
}

// fillSignals forward-fills undefined cells with the last defined signal and
// turns the leading undefined run into flat positions.
func fillSignals(signals []float64) []float64 {
	out := make([]float64, len(signals))
	last := 0.0

	for t, v := range signals {
		if !panel.IsUndefined(v) {
			last = v
		}

		out[t] = last
	}

	return out
}
