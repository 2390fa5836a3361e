// Package measurements defines the measurement types handed from sensor
// drivers to the estimator.
//
// A measurement couples a timestamp, an observed variable and the sensor (or
// pair of sensors) that produced it. Two shapes exist:
//
//   - Absolute: one time, one sensor.
//   - Relative: two times, two sensors; a constraint between two states.
//
// Both carry a Type tag fixed at construction. Consumers dispatch with Match
// (or a type switch when the instantiation is known) rather than by
// inspecting fields.
//
// Sensor references are non-owning *S pointers. The sensor collection (see
// package sensors) owns sensor values; a measurement only records which one
// it came from, compared by pointer identity. Rebinding a sensor never
// touches the time or the variable.
//
// Measurements carry no locking. Concurrent reads of an unmutated value are
// safe; SetTime, SetOtherTime, SetSensor and SetOtherSensor must be
// serialised by the owner (see package window).
//
// Dependency rule: this package depends on variables only. No storage,
// logging or configuration code belongs here.
package measurements
