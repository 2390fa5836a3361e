package window

import (
	"errors"
	"sync"
	"testing"

	"github.com/banshee-data/hyper/internal/config"
	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/sensors"
	"github.com/banshee-data/hyper/internal/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSensor struct{ name string }

var (
	camA = &testSensor{name: "camA"}
	camB = &testSensor{name: "camB"}
)

func abs(t measurements.Time) *measurements.Absolute[testSensor, variables.Vector] {
	return measurements.NewAbsolute(t, camA, variables.NewVector(float64(t)))
}

func rel(t, other measurements.Time) *measurements.Relative[testSensor, variables.Vector] {
	return measurements.NewRelative(t, camA, other, camB, variables.NewVector(0.1, 0.2))
}

func times(ms []measurements.Measurement) []measurements.Time {
	out := make([]measurements.Time, len(ms))
	for i, m := range ms {
		out[i] = m.Time()
	}
	return out
}

func TestWindow_OrdersByEarliest(t *testing.T) {
	t.Parallel()

	w := New(Config{})
	for _, m := range []measurements.Measurement{abs(3), rel(5, 1), abs(2), abs(4)} {
		_, err := w.Add(m)
		require.NoError(t, err)
	}

	// rel(5,1) sorts by its earliest endpoint (1).
	assert.Equal(t, []measurements.Time{5, 2, 3, 4}, times(w.Snapshot()))
	assert.Equal(t, 4, w.Len())

	earliest, latest, ok := w.Bounds()
	require.True(t, ok)
	assert.Equal(t, measurements.Time(1), earliest)
	assert.Equal(t, measurements.Time(5), latest)
}

func TestWindow_TiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	w := New(Config{})
	first, second := abs(1), abs(1)
	_, _ = w.Add(first)
	_, _ = w.Add(second)

	snap := w.Snapshot()
	require.Len(t, snap, 2)
	assert.Same(t, first, snap[0])
	assert.Same(t, second, snap[1])
}

func TestWindow_OrderingPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy        OrderingPolicy
		reversedErr   bool
		degenerateErr bool
	}{
		{PolicyAny, false, false},
		{PolicyForward, true, false},
		{PolicyStrict, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			t.Parallel()
			w := New(Config{Policy: tt.policy})

			_, err := w.Add(rel(10, 20))
			assert.NoError(t, err, "forward is always accepted")

			_, err = w.Add(rel(20, 10))
			if tt.reversedErr {
				assert.ErrorIs(t, err, ErrOrdering)
			} else {
				assert.NoError(t, err)
			}

			_, err = w.Add(rel(15, 15))
			if tt.degenerateErr {
				assert.ErrorIs(t, err, ErrOrdering)
			} else {
				assert.NoError(t, err)
			}

			_, err = w.Add(abs(30))
			assert.NoError(t, err, "absolute measurements have no ordering")
		})
	}
}

func TestParseOrderingPolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]OrderingPolicy{
		"":        PolicyAny,
		"any":     PolicyAny,
		"forward": PolicyForward,
		"strict":  PolicyStrict,
	} {
		got, err := ParseOrderingPolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOrderingPolicy("backwards")
	assert.Error(t, err)
}

func TestWindow_Validate(t *testing.T) {
	t.Parallel()

	reg := sensors.NewRegistry[testSensor]()
	require.NoError(t, reg.Register("camA", camA))

	w := New(Config{
		Validate: func(m measurements.Measurement) error {
			refs, ok := m.(sensors.Refs[testSensor])
			if !ok {
				return errors.New("unexpected sensor type")
			}
			return reg.Validate(refs)
		},
	})

	_, err := w.Add(abs(1))
	assert.NoError(t, err)

	_, err = w.Add(rel(1, 2))
	assert.ErrorIs(t, err, sensors.ErrUnregisteredSensor, "camB is not registered")

	_, err = w.Add(nil)
	assert.ErrorIs(t, err, measurements.ErrNilMeasurement)
	_, err = w.Add((*measurements.Relative[testSensor, variables.Vector])(nil))
	assert.ErrorIs(t, err, measurements.ErrNilMeasurement)
	_, err = w.Add((*measurements.Absolute[testSensor, variables.Vector])(nil))
	assert.ErrorIs(t, err, measurements.ErrNilMeasurement)
	assert.Equal(t, 1, w.Len())
}

func TestWindow_MaxMeasurements(t *testing.T) {
	t.Parallel()

	w := New(Config{MaxMeasurements: 3})
	for _, ts := range []measurements.Time{1, 2, 3} {
		evicted, err := w.Add(abs(ts))
		require.NoError(t, err)
		assert.Empty(t, evicted)
	}

	evicted, err := w.Add(abs(4))
	require.NoError(t, err)
	assert.Equal(t, []measurements.Time{1}, times(evicted))
	assert.Equal(t, []measurements.Time{2, 3, 4}, times(w.Snapshot()))

	// A late arrival older than everything is itself the oldest.
	evicted, err = w.Add(abs(0))
	require.NoError(t, err)
	assert.Equal(t, []measurements.Time{0}, times(evicted))
	assert.Equal(t, 3, w.Len())
}

func TestWindow_AdvanceAndRetire(t *testing.T) {
	t.Parallel()

	w := New(Config{Span: 5})
	_, _ = w.Add(abs(1))
	_, _ = w.Add(rel(2, 9)) // spans into the horizon
	_, _ = w.Add(abs(4))
	_, _ = w.Add(abs(8))

	retired := w.Advance(10) // horizon = 5
	assert.Equal(t, []measurements.Time{1, 4}, times(retired))
	assert.Equal(t, []measurements.Time{2, 8}, times(w.Snapshot()))

	retired = w.Retire(9)
	assert.Equal(t, []measurements.Time{8}, times(retired))

	retired = w.Retire(100)
	assert.Len(t, retired, 1)
	assert.Equal(t, 0, w.Len())

	_, _, ok := w.Bounds()
	assert.False(t, ok)

	unbounded := New(Config{})
	_, _ = unbounded.Add(abs(1))
	assert.Nil(t, unbounded.Advance(1000))
	assert.Equal(t, 1, unbounded.Len())
}

func TestWindow_Between(t *testing.T) {
	t.Parallel()

	w := New(Config{})
	_, _ = w.Add(abs(1))
	_, _ = w.Add(rel(2, 6))
	_, _ = w.Add(abs(7))
	_, _ = w.Add(abs(10))

	assert.Equal(t, []measurements.Time{2, 7}, times(w.Between(5, 8)))
	assert.Equal(t, []measurements.Time{1}, times(w.Between(0, 1)))
	assert.Empty(t, w.Between(11, 20))
}

func TestWindow_Counts(t *testing.T) {
	t.Parallel()

	w := New(Config{})
	_, _ = w.Add(abs(1))
	_, _ = w.Add(abs(2))
	_, _ = w.Add(rel(1, 2))

	counts := w.Counts()
	assert.Equal(t, 2, counts[measurements.AbsoluteMeasurement])
	assert.Equal(t, 1, counts[measurements.RelativeMeasurement])
}

func TestWindow_Concurrent(t *testing.T) {
	t.Parallel()

	w := New(Config{Span: 50})
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				ts := measurements.Time(g*50 + i)
				if _, err := w.Add(abs(ts)); err != nil {
					t.Errorf("add: %v", err)
				}
				_ = w.Between(ts-5, ts)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 400, w.Len())

	w.Advance(400)
	assert.Equal(t, 50, w.Len())
}

func TestConfigFromEstimation(t *testing.T) {
	t.Parallel()

	span := 2.5
	limit := 7
	policy := "forward"
	cfg, err := ConfigFromEstimation(&config.EstimationConfig{
		WindowSpanSeconds:     &span,
		MaxWindowMeasurements: &limit,
		OrderingPolicy:        &policy,
	})
	require.NoError(t, err)
	assert.Equal(t, measurements.Time(2.5), cfg.Span)
	assert.Equal(t, 7, cfg.MaxMeasurements)
	assert.Equal(t, PolicyForward, cfg.Policy)

	defaults, err := ConfigFromEstimation(config.EmptyEstimationConfig())
	require.NoError(t, err)
	assert.Equal(t, PolicyAny, defaults.Policy)
	assert.Equal(t, measurements.Time(10), defaults.Span)

	bad := "sideways"
	_, err = ConfigFromEstimation(&config.EstimationConfig{OrderingPolicy: &bad})
	assert.Error(t, err)
}
