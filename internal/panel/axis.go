package panel

import (
	"fmt"
	"time"
)

type axisKind int

const (
	axisUnknown axisKind = iota
	axisTime
	axisName
)

// Axis is one labelled dimension of a Panel. Build it with TimeAxis or NameAxis;
// the zero value has no kind and is rejected by New.
type Axis struct {
	kind  axisKind
	times []time.Time
	names []string
}

// TimeAxis returns an axis labelled by timestamps.
func TimeAxis(times ...time.Time) Axis {
	return Axis{
		kind:  axisTime,
		times: append([]time.Time(nil), times...),
		names: nil,
	}
}

// NameAxis returns an axis labelled by instrument identifiers.
func NameAxis(names ...string) Axis {
	return Axis{
		kind:  axisName,
		times: nil,
		names: append([]string(nil), names...),
	}
}

// IsTime reports whether the axis carries timestamps.
func (a Axis) IsTime() bool {
	return a.kind == axisTime
}

// Len returns the number of labels.
func (a Axis) Len() int {
	if a.kind == axisTime {
		return len(a.times)
	}

	return len(a.names)
}

func (a Axis) String() string {
	switch a.kind {
	case axisTime:
		return fmt.Sprintf("time[%d]", len(a.times))
	case axisName:
		return fmt.Sprintf("name[%d]", len(a.names))
	default:
		return "unknown"
	}
}
