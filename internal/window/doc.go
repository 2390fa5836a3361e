// Package window keeps the measurements an estimator is currently working
// on, ordered by time, and retires them once they fall behind the
// estimation horizon.
//
// A Window is the owner that serialises access to its measurements. Callers
// that mutate a measurement after adding it (rebinding a sensor, moving a
// time) must do so before Add or coordinate with the window's other users.
package window
