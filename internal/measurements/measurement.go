package measurements

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned for a Type outside the declared set.
	ErrUnknownType = errors.New("unknown measurement type")
	// ErrInstantiation is returned by Match when a measurement was built for
	// a different sensor or variable type than the caller asked for.
	ErrInstantiation = errors.New("measurement instantiation mismatch")
	// ErrNilMeasurement is returned by Match for a nil measurement, including
	// a typed nil pointer.
	ErrNilMeasurement = errors.New("nil measurement")
)

// Measurement is the closed set of measurement shapes. Only *Absolute and
// *Relative implement it.
type Measurement interface {
	// Type returns the construction-time tag.
	Type() Type
	// Time returns the first (or only) endpoint time.
	Time() Time
	// Earliest and Latest bound the interval the measurement constrains.
	Earliest() Time
	Latest() Time

	// isNil seals the interface and reports a nil receiver.
	isNil() bool
}

// IsNil reports whether m is nil or holds a nil *Absolute or *Relative.
func IsNil(m Measurement) bool {
	return m == nil || m.isNil()
}

var (
	_ Measurement = (*Absolute[struct{}, float64])(nil)
	_ Measurement = (*Relative[struct{}, float64])(nil)
)

// Match dispatches m to onAbsolute or onRelative according to its type tag.
//
// The tag and the concrete type always agree; an error is only returned if m
// is nil, carries an unknown tag, or was instantiated with a different S or V.
func Match[S, V, R any](
	m Measurement,
	onAbsolute func(*Absolute[S, V]) R,
	onRelative func(*Relative[S, V]) R,
) (R, error) {
	var zero R
	if IsNil(m) {
		return zero, ErrNilMeasurement
	}
	switch m.Type() {
	case AbsoluteMeasurement:
		a, ok := m.(*Absolute[S, V])
		if !ok {
			return zero, fmt.Errorf("%w: %T is not %T", ErrInstantiation, m, a)
		}
		return onAbsolute(a), nil
	case RelativeMeasurement:
		r, ok := m.(*Relative[S, V])
		if !ok {
			return zero, fmt.Errorf("%w: %T is not %T", ErrInstantiation, m, r)
		}
		return onRelative(r), nil
	default:
		return zero, fmt.Errorf("%w: %v", ErrUnknownType, m.Type())
	}
}

// IsAbsolute reports whether m is tagged AbsoluteMeasurement.
func IsAbsolute(m Measurement) bool {
	return !IsNil(m) && m.Type() == AbsoluteMeasurement
}

// IsRelative reports whether m is tagged RelativeMeasurement.
func IsRelative(m Measurement) bool {
	return !IsNil(m) && m.Type() == RelativeMeasurement
}
