package window

import (
	"testing"

	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: the counters are process-wide.
func TestWindow_Metrics(t *testing.T) {
	accepted := func(typ measurements.Type) float64 {
		return testutil.ToFloat64(measurementsAccepted.WithLabelValues(typ.String()))
	}
	rejected := func(reason string) float64 {
		return testutil.ToFloat64(measurementsRejected.WithLabelValues(reason))
	}
	absBefore := accepted(measurements.AbsoluteMeasurement)
	relBefore := accepted(measurements.RelativeMeasurement)
	orderingBefore := rejected("ordering")
	nilBefore := rejected("nil")
	retiredBefore := testutil.ToFloat64(measurementsRetired)
	evictedBefore := testutil.ToFloat64(measurementsEvicted)

	w := New(Config{Span: 5, MaxMeasurements: 3, Policy: PolicyForward})
	for _, m := range []measurements.Measurement{abs(1), rel(1, 2), abs(2), abs(3)} {
		_, err := w.Add(m)
		require.NoError(t, err)
	}
	_, err := w.Add(rel(3, 2))
	require.ErrorIs(t, err, ErrOrdering)
	_, err = w.Add(nil)
	require.Error(t, err)

	w.Advance(10)

	assert.Equal(t, 3.0, accepted(measurements.AbsoluteMeasurement)-absBefore)
	assert.Equal(t, 1.0, accepted(measurements.RelativeMeasurement)-relBefore)
	assert.Equal(t, 1.0, rejected("ordering")-orderingBefore)
	assert.Equal(t, 1.0, rejected("nil")-nilBefore)
	assert.Equal(t, 1.0, testutil.ToFloat64(measurementsEvicted)-evictedBefore)
	assert.Equal(t, 3.0, testutil.ToFloat64(measurementsRetired)-retiredBefore)
}
