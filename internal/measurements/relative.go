package measurements

// Ordering describes how the two endpoints of a relative measurement relate
// on the time axis.
type Ordering int

const (
	// OrderDegenerate means both endpoints share the same time.
	OrderDegenerate Ordering = iota
	// OrderForward means Time() < OtherTime().
	OrderForward
	// OrderReversed means Time() > OtherTime().
	OrderReversed
)

func (o Ordering) String() string {
	switch o {
	case OrderForward:
		return "forward"
	case OrderReversed:
		return "reversed"
	default:
		return "degenerate"
	}
}

// Relative is a constraint on V between two times, each observed by a
// sensor. Both sensors may be the same value (a self-relative constraint,
// e.g. odometry) or differ (a cross-sensor constraint, e.g. extrinsics).
//
// The embedded Base time is the first endpoint; OtherTime is the second.
// Relative does not require Time() < OtherTime(); see Ordering.
type Relative[S, V any] struct {
	Base[V]
	otherTime   Time
	sensor      *S
	otherSensor *S
}

// NewRelative returns a relative measurement. Both endpoints must be given
// together; neither sensor may be nil.
func NewRelative[S, V any](time Time, sensor *S, otherTime Time, otherSensor *S, variable V) *Relative[S, V] {
	mustSensor(sensor)
	mustSensor(otherSensor)
	return &Relative[S, V]{
		Base:        newBase(RelativeMeasurement, time, variable),
		otherTime:   otherTime,
		sensor:      sensor,
		otherSensor: otherSensor,
	}
}

// OtherTime returns the second endpoint time.
func (m *Relative[S, V]) OtherTime() Time { return m.otherTime }

// SetOtherTime moves the second endpoint. Time() is untouched.
func (m *Relative[S, V]) SetOtherTime(t Time) { m.otherTime = t }

// Sensor returns the first endpoint sensor.
func (m *Relative[S, V]) Sensor() *S { return m.sensor }

// SetSensor rebinds the first endpoint sensor.
func (m *Relative[S, V]) SetSensor(sensor *S) {
	mustSensor(sensor)
	m.sensor = sensor
}

// OtherSensor returns the second endpoint sensor.
func (m *Relative[S, V]) OtherSensor() *S { return m.otherSensor }

// SetOtherSensor rebinds the second endpoint sensor. Sensor() is untouched.
func (m *Relative[S, V]) SetOtherSensor(sensor *S) {
	mustSensor(sensor)
	m.otherSensor = sensor
}

// SelfRelative reports whether both endpoints reference the same sensor.
func (m *Relative[S, V]) SelfRelative() bool { return m.sensor == m.otherSensor }

// Sensors returns the first and second endpoint sensors, in that order.
func (m *Relative[S, V]) Sensors() []*S { return []*S{m.sensor, m.otherSensor} }

// Ordering reports the direction of the constraint on the time axis.
func (m *Relative[S, V]) Ordering() Ordering {
	switch {
	case m.time < m.otherTime:
		return OrderForward
	case m.time > m.otherTime:
		return OrderReversed
	default:
		return OrderDegenerate
	}
}

// Span returns the absolute time between the two endpoints.
func (m *Relative[S, V]) Span() Time {
	return maxTime(m.time, m.otherTime) - minTime(m.time, m.otherTime)
}

// Earliest returns the earlier of the two endpoint times.
func (m *Relative[S, V]) Earliest() Time { return minTime(m.time, m.otherTime) }

// Latest returns the later of the two endpoint times.
func (m *Relative[S, V]) Latest() Time { return maxTime(m.time, m.otherTime) }

func (m *Relative[S, V]) isNil() bool { return m == nil }
