package measurements

import "math"

// Time is a point on the estimator's time axis, in seconds.
type Time float64

// TimeFromNanos converts unix nanoseconds to a Time.
func TimeFromNanos(nanos int64) Time {
	return Time(float64(nanos) / 1e9)
}

// Nanos returns t as unix nanoseconds, rounded to the nearest nanosecond.
func (t Time) Nanos() int64 {
	return int64(math.Round(float64(t) * 1e9))
}

// Before reports whether t is strictly earlier than u.
func (t Time) Before(u Time) bool { return t < u }

// After reports whether t is strictly later than u.
func (t Time) After(u Time) bool { return t > u }

func minTime(a, b Time) Time {
	if b < a {
		return b
	}
	return a
}

func maxTime(a, b Time) Time {
	if b > a {
		return b
	}
	return a
}
