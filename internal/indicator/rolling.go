package indicator

import "math"

// The helpers below work on one instrument's series in time order. A window
// produces a value only when all of its observations are defined.

// windowMean averages w relative to its first element so that a constant window
// returns the constant itself, with no accumulated rounding.
func windowMean(w []float64) (float64, bool) {
	base := w[0]
	if math.IsNaN(base) {
		return 0, false
	}

	sum := 0.0

	for _, v := range w {
		if math.IsNaN(v) {
			return 0, false
		}

		sum += v - base
	}

	return base + sum/float64(len(w)), true
}

func rollingMean(series []float64, window int) []float64 {
	out := make([]float64, len(series))

	for t := range series {
		out[t] = math.NaN()

		if t+1 < window {
			continue
		}

		if mean, ok := windowMean(series[t+1-window : t+1]); ok {
			out[t] = mean
		}
	}

	return out
}

// rollingStd is the sample standard deviation (n-1 denominator). A window of one
// observation has no sample deviation and stays undefined.
func rollingStd(series []float64, window int) []float64 {
	out := make([]float64, len(series))

	for t := range series {
		out[t] = math.NaN()

		if window < 2 || t+1 < window {
			continue
		}

		w := series[t+1-window : t+1]

		mean, ok := windowMean(w)
		if !ok {
			continue
		}

		squares := 0.0
		for _, v := range w {
			squares += (v - mean) * (v - mean)
		}

		out[t] = math.Sqrt(squares / float64(window-1))
	}

	return out
}

func pctChange(series []float64, periods int) []float64 {
	out := make([]float64, len(series))

	for t := range series {
		if t < periods {
			out[t] = math.NaN()

			continue
		}

		out[t] = series[t]/series[t-periods] - 1
	}

	return out
}

func diff(series []float64) []float64 {
	out := make([]float64, len(series))

	for t := range series {
		if t == 0 {
			out[t] = math.NaN()

			continue
		}

		out[t] = series[t] - series[t-1]
	}

	return out
}

func shift(series []float64, periods int) []float64 {
	out := make([]float64, len(series))

	for t := range series {
		if t < periods {
			out[t] = math.NaN()

			continue
		}

		out[t] = series[t-periods]
	}

	return out
}
