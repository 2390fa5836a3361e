package measurements

// Absolute is an observation of V at a single time by a single sensor.
type Absolute[S, V any] struct {
	Base[V]
	sensor *S
}

// NewAbsolute returns an absolute measurement. sensor must be non-nil and
// must stay registered with its owner for as long as the measurement is in
// use.
func NewAbsolute[S, V any](time Time, sensor *S, variable V) *Absolute[S, V] {
	mustSensor(sensor)
	return &Absolute[S, V]{
		Base:   newBase(AbsoluteMeasurement, time, variable),
		sensor: sensor,
	}
}

// Sensor returns the sensor that produced the measurement.
func (m *Absolute[S, V]) Sensor() *S { return m.sensor }

// SetSensor rebinds the sensor. Time and variable are untouched and no
// compatibility check is made.
func (m *Absolute[S, V]) SetSensor(sensor *S) {
	mustSensor(sensor)
	m.sensor = sensor
}

// Sensors returns the referenced sensor.
func (m *Absolute[S, V]) Sensors() []*S { return []*S{m.sensor} }

// Earliest returns the measurement time.
func (m *Absolute[S, V]) Earliest() Time { return m.time }

// Latest returns the measurement time.
func (m *Absolute[S, V]) Latest() Time { return m.time }

func (m *Absolute[S, V]) isNil() bool { return m == nil }

func mustSensor[S any](sensor *S) {
	if sensor == nil {
		panic("measurements: nil sensor")
	}
}
