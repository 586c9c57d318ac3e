// Package panel implements the two-dimensional price/position table shared by the
// strategy layer and the backtest engine.
//
// A Panel has one timestamp axis and one instrument axis. Which of the two carries
// the rows decides its Orientation. Panels are immutable: every operation that
// changes values or layout returns a new Panel, and values handed to a constructor
// are copied.
package panel

import (
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/knightrade/pkg/errors"
)

// Orientation tells which axis of a Panel carries the rows.
type Orientation int

const (
	// TimeOriented panels have one row per timestamp and one column per instrument.
	TimeOriented Orientation = iota
	// InstrumentOriented panels have one row per instrument and one column per timestamp.
	InstrumentOriented
)

func (o Orientation) String() string {
	switch o {
	case TimeOriented:
		return "time_oriented"
	case InstrumentOriented:
		return "instrument_oriented"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Undefined returns the sentinel used for missing cells.
func Undefined() float64 {
	return math.NaN()
}

// IsUndefined reports whether v is the missing-cell sentinel.
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}

// Panel is an immutable, validated table of float64 values.
type Panel struct {
	orientation Orientation
	times       []time.Time
	instruments []string
	// values is laid out in the panel's own orientation: rows x cols.
	values [][]float64
}

// New builds a Panel from two labelled axes. Exactly one axis must be a time axis;
// the other one holds instrument names.
func New(rows Axis, cols Axis, values [][]float64) (*Panel, error) {
	if rows.IsTime() == cols.IsTime() || rows.kind == axisUnknown || cols.kind == axisUnknown {
		return nil, errors.NewShapeErrorf(errors.ErrCodeInvalidAxis,
			"exactly one axis must be a timestamp axis, got rows=%s cols=%s", rows, cols)
	}

	p := &Panel{
		orientation: TimeOriented,
		times:       nil,
		instruments: nil,
		values:      nil,
	}

	timeAxis, nameAxis := rows, cols
	if cols.IsTime() {
		p.orientation = InstrumentOriented
		timeAxis, nameAxis = cols, rows
	}

	if err := validateTimes(timeAxis.times); err != nil {
		return nil, err
	}

	if err := validateNames(nameAxis.names); err != nil {
		return nil, err
	}

	if len(values) != rows.Len() {
		return nil, errors.NewShapeErrorf(errors.ErrCodeRaggedTable,
			"table has %d rows but the %s row axis has %d labels", len(values), rows, rows.Len())
	}

	p.values = make([][]float64, len(values))

	for r, row := range values {
		if len(row) != cols.Len() {
			return nil, errors.NewShapeErrorf(errors.ErrCodeRaggedTable,
				"row %d has %d cells but the %s column axis has %d labels", r, len(row), cols, cols.Len())
		}

		p.values[r] = append([]float64(nil), row...)
	}

	p.times = append([]time.Time(nil), timeAxis.times...)
	p.instruments = append([]string(nil), nameAxis.names...)

	return p, nil
}

// NewTimeOriented builds a panel with one row per timestamp.
func NewTimeOriented(times []time.Time, instruments []string, values [][]float64) (*Panel, error) {
	return New(TimeAxis(times...), NameAxis(instruments...), values)
}

// NewInstrumentOriented builds a panel with one row per instrument.
func NewInstrumentOriented(instruments []string, times []time.Time, values [][]float64) (*Panel, error) {
	return New(NameAxis(instruments...), TimeAxis(times...), values)
}

// NewSeries builds a single-column TimeOriented panel.
func NewSeries(times []time.Time, name string, series []float64) (*Panel, error) {
	values := make([][]float64, len(series))
	for t, v := range series {
		values[t] = []float64{v}
	}

	return NewTimeOriented(times, []string{name}, values)
}

func validateTimes(times []time.Time) error {
	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return errors.NewShapeErrorf(errors.ErrCodeUnorderedTimeAxis,
				"timestamps must be strictly increasing, got %s at %d after %s",
				times[i].Format(time.RFC3339Nano), i, times[i-1].Format(time.RFC3339Nano))
		}
	}

	return nil
}

func validateNames(names []string) error {
	seen := make(map[string]struct{}, len(names))

	for i, name := range names {
		if name == "" {
			return errors.NewShapeErrorf(errors.ErrCodeDuplicateLabel, "instrument name at %d is empty", i)
		}

		if _, ok := seen[name]; ok {
			return errors.NewShapeErrorf(errors.ErrCodeDuplicateLabel, "instrument %q appears more than once", name)
		}

		seen[name] = struct{}{}
	}

	return nil
}

// Orientation returns which axis carries the rows.
func (p *Panel) Orientation() Orientation {
	return p.orientation
}

// Times returns a copy of the timestamp labels.
func (p *Panel) Times() []time.Time {
	return append([]time.Time(nil), p.times...)
}

// Instruments returns a copy of the instrument labels.
func (p *Panel) Instruments() []string {
	return append([]string(nil), p.instruments...)
}

// NumTimes returns the length of the timestamp axis.
func (p *Panel) NumTimes() int {
	return len(p.times)
}

// NumInstruments returns the length of the instrument axis.
func (p *Panel) NumInstruments() int {
	return len(p.instruments)
}

// InstrumentIndex returns the position of an instrument on the instrument axis.
func (p *Panel) InstrumentIndex(name string) (int, bool) {
	for i, instrument := range p.instruments {
		if instrument == name {
			return i, true
		}
	}

	return 0, false
}

// At returns the value at time index t and instrument index i, whatever the orientation.
func (p *Panel) At(t int, i int) float64 {
	if p.orientation == TimeOriented {
		return p.values[t][i]
	}

	return p.values[i][t]
}

// Series returns one instrument's values in time order.
func (p *Panel) Series(i int) []float64 {
	series := make([]float64, len(p.times))
	for t := range p.times {
		series[t] = p.At(t, i)
	}

	return series
}

// Rows returns a copy of the backing table in the panel's own orientation.
func (p *Panel) Rows() [][]float64 {
	rows := make([][]float64, len(p.values))
	for r, row := range p.values {
		rows[r] = append([]float64(nil), row...)
	}

	return rows
}

// Transpose returns the same values in the opposite orientation.
func (p *Panel) Transpose() *Panel {
	numRows := len(p.values)
	numCols := len(p.times) + len(p.instruments) - numRows

	transposed := make([][]float64, numCols)
	for c := range transposed {
		transposed[c] = make([]float64, numRows)
		for r := 0; r < numRows; r++ {
			transposed[c][r] = p.values[r][c]
		}
	}

	orientation := InstrumentOriented
	if p.orientation == InstrumentOriented {
		orientation = TimeOriented
	}

	return &Panel{
		orientation: orientation,
		times:       p.Times(),
		instruments: p.Instruments(),
		values:      transposed,
	}
}

// ToTimeOriented returns p when it already has one row per timestamp, otherwise its transpose.
func (p *Panel) ToTimeOriented() *Panel {
	if p.orientation == TimeOriented {
		return p
	}

	return p.Transpose()
}

// ToInstrumentOriented returns p when it already has one row per instrument, otherwise its transpose.
func (p *Panel) ToInstrumentOriented() *Panel {
	if p.orientation == InstrumentOriented {
		return p
	}

	return p.Transpose()
}

// Slice returns the rows whose timestamps fall inside [start, end]. Missing bounds are open.
func (p *Panel) Slice(start optional.Option[time.Time], end optional.Option[time.Time]) *Panel {
	from, to := 0, len(p.times)

	if start.IsSome() {
		bound := start.Unwrap()
		for from < to && p.times[from].Before(bound) {
			from++
		}
	}

	if end.IsSome() {
		bound := end.Unwrap()
		for to > from && p.times[to-1].After(bound) {
			to--
		}
	}

	series := make([][]float64, len(p.instruments))
	for i := range p.instruments {
		series[i] = p.Series(i)[from:to]
	}

	return fromSeries(p.orientation, p.times[from:to], p.instruments, series)
}

// Map applies fn to every instrument's series and returns a panel with the same
// labels and orientation. fn must return a slice of the same length.
func (p *Panel) Map(fn func(series []float64) []float64) *Panel {
	series := make([][]float64, len(p.instruments))
	for i := range p.instruments {
		series[i] = fn(p.Series(i))
	}

	return fromSeries(p.orientation, p.times, p.instruments, series)
}

// NewLike builds a panel with p's labels and orientation from per-instrument series.
func NewLike(p *Panel, series [][]float64) (*Panel, error) {
	if len(series) != len(p.instruments) {
		return nil, errors.NewShapeErrorf(errors.ErrCodeShapeMismatch,
			"expected %d instrument series, got %d", len(p.instruments), len(series))
	}

	for i, s := range series {
		if len(s) != len(p.times) {
			return nil, errors.NewShapeErrorf(errors.ErrCodeShapeMismatch,
				"series for %q has %d values, expected %d", p.instruments[i], len(s), len(p.times))
		}
	}

	return fromSeries(p.orientation, p.times, p.instruments, series), nil
}

// fromSeries assembles a panel from already validated labels and per-instrument series.
func fromSeries(orientation Orientation, times []time.Time, instruments []string, series [][]float64) *Panel {
	values := make([][]float64, len(times))
	for t := range times {
		values[t] = make([]float64, len(instruments))
		for i := range instruments {
			values[t][i] = series[i][t]
		}
	}

	p := &Panel{
		orientation: TimeOriented,
		times:       append([]time.Time(nil), times...),
		instruments: append([]string(nil), instruments...),
		values:      values,
	}

	if orientation == InstrumentOriented {
		return p.Transpose()
	}

	return p
}

// Equal reports whether two panels have the same orientation, labels and values.
// Undefined cells compare equal to each other.
func Equal(a, b *Panel) bool {
	if a == nil || b == nil {
		return a == b
	}

	if err := Align(a, b); err != nil {
		return false
	}

	for r := range a.values {
		for c := range a.values[r] {
			x, y := a.values[r][c], b.values[r][c]
			if x != y && !(IsUndefined(x) && IsUndefined(y)) {
				return false
			}
		}
	}

	return true
}

// Align returns a shape error unless a and b share orientation and identical
// labels in identical order. It never reindexes.
func Align(a, b *Panel) error {
	if a == nil || b == nil {
		return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch, "cannot align a nil panel")
	}

	if a.orientation != b.orientation {
		return errors.NewShapeErrorf(errors.ErrCodeInvalidOrientation,
			"orientation %s does not match %s", a.orientation, b.orientation)
	}

	if len(a.times) != len(b.times) || len(a.instruments) != len(b.instruments) {
		return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch,
			"shape %dx%d does not match %dx%d",
			len(a.times), len(a.instruments), len(b.times), len(b.instruments))
	}

	for t := range a.times {
		if !a.times[t].Equal(b.times[t]) {
			return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch,
				"timestamp %d differs: %s vs %s", t,
				a.times[t].Format(time.RFC3339Nano), b.times[t].Format(time.RFC3339Nano))
		}
	}

	for i := range a.instruments {
		if a.instruments[i] != b.instruments[i] {
			return errors.NewShapeErrorf(errors.ErrCodeShapeMismatch,
				"instrument %d differs: %q vs %q", i, a.instruments[i], b.instruments[i])
		}
	}

	return nil
}
