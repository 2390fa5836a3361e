package measurements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lidar struct{ id string }

func describe(m Measurement) (string, error) {
	return Match(m,
		func(a *Absolute[lidar, float64]) string { return "absolute:" + a.Sensor().id },
		func(r *Relative[lidar, float64]) string {
			return "relative:" + r.Sensor().id + "->" + r.OtherSensor().id
		},
	)
}

func TestMatch(t *testing.T) {
	t.Parallel()
	front, rear := &lidar{id: "front"}, &lidar{id: "rear"}

	t.Run("dispatches on tag", func(t *testing.T) {
		t.Parallel()
		got, err := describe(NewAbsolute(1, front, 0.5))
		require.NoError(t, err)
		assert.Equal(t, "absolute:front", got)

		got, err = describe(NewRelative(1, front, 2, rear, 0.5))
		require.NoError(t, err)
		assert.Equal(t, "relative:front->rear", got)
	})

	t.Run("mixed slice", func(t *testing.T) {
		t.Parallel()
		batch := []Measurement{
			NewAbsolute(1, front, 0.5),
			NewRelative(1, front, 2, front, 0.1),
			NewAbsolute(3, rear, 0.7),
		}
		var abs, rel int
		for _, m := range batch {
			switch {
			case IsAbsolute(m):
				abs++
			case IsRelative(m):
				rel++
			}
		}
		assert.Equal(t, 2, abs)
		assert.Equal(t, 1, rel)
	})

	t.Run("instantiation mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := describe(NewAbsolute(1, &camera{name: "camA"}, 0.5))
		assert.ErrorIs(t, err, ErrInstantiation)

		_, err = describe(NewRelative(1, front, 2, rear, "not a float"))
		assert.ErrorIs(t, err, ErrInstantiation)
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()
		_, err := describe(nil)
		assert.ErrorIs(t, err, ErrNilMeasurement)
		assert.False(t, IsAbsolute(nil))
		assert.False(t, IsRelative(nil))
	})

	t.Run("typed nil", func(t *testing.T) {
		t.Parallel()
		var a *Absolute[lidar, float64]
		var r *Relative[lidar, float64]
		for _, m := range []Measurement{a, r} {
			assert.True(t, IsNil(m))
			_, err := describe(m)
			assert.ErrorIs(t, err, ErrNilMeasurement)
			assert.False(t, IsAbsolute(m))
			assert.False(t, IsRelative(m))
		}
		assert.False(t, IsNil(NewAbsolute(1, front, 0.5)))
	})

	t.Run("unknown tag", func(t *testing.T) {
		t.Parallel()
		m := NewAbsolute(1, front, 0.5)
		m.typ = Type(42)
		_, err := describe(m)
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ABSOLUTE_MEASUREMENT", AbsoluteMeasurement.String())
	assert.Equal(t, "RELATIVE_MEASUREMENT", RelativeMeasurement.String())
	assert.Equal(t, "Type(9)", Type(9).String())
	assert.False(t, Type(0).Valid())

	for _, typ := range Types {
		parsed, ok := ParseType(typ.String())
		assert.True(t, ok)
		assert.Equal(t, typ, parsed)

		text, err := typ.MarshalText()
		require.NoError(t, err)
		var back Type
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, typ, back)
	}

	_, ok := ParseType("absolute")
	assert.False(t, ok)

	_, err := Type(0).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownType)
	var typ Type
	assert.ErrorIs(t, typ.UnmarshalText([]byte("BOGUS")), ErrUnknownType)
}
