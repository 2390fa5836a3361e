package sensors

import (
	"fmt"
	"sync"
	"testing"

	"github.com/banshee-data/hyper/internal/config"
	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/variables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	r := NewRegistry[Descriptor]()
	camA := &Descriptor{Name: "camA", Modality: ModalityCamera, Frame: "sensor/cam-a"}

	require.NoError(t, r.Register("camA", camA))
	assert.Equal(t, 1, r.Len())

	got, err := r.Lookup("camA")
	require.NoError(t, err)
	assert.Same(t, camA, got)

	id, err := r.IDOf(camA)
	require.NoError(t, err)
	assert.Equal(t, ID("camA"), id)

	assert.ErrorIs(t, r.Register("camA", &Descriptor{}), ErrDuplicateID)
	assert.ErrorIs(t, r.Register("other", camA), ErrDuplicateID)
	assert.ErrorIs(t, r.Register("", &Descriptor{}), ErrEmptyID)
	assert.ErrorIs(t, r.Register("nil", nil), ErrNilSensor)

	_, err = r.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownSensor)
	_, err = r.IDOf(&Descriptor{Name: "camA"})
	assert.ErrorIs(t, err, ErrUnknownSensor, "lookup is by identity, not value")
}

func TestRegistry_Add(t *testing.T) {
	t.Parallel()

	r := NewRegistry[Descriptor]()
	imu := &Descriptor{Name: "imu", Modality: ModalityIMU}

	id, err := r.Add(imu)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	again, err := r.Add(imu)
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.Equal(t, 1, r.Len())

	_, err = r.Add(nil)
	assert.ErrorIs(t, err, ErrNilSensor)
}

func TestRegistry_RetireAndValidate(t *testing.T) {
	t.Parallel()

	r := NewRegistry[Descriptor]()
	camA := &Descriptor{Name: "camA"}
	camB := &Descriptor{Name: "camB"}
	require.NoError(t, r.Register("camA", camA))
	require.NoError(t, r.Register("camB", camB))

	abs := measurements.NewAbsolute(10, camA, variables.NewVector(1, 2, 3))
	rel := measurements.NewRelative(10, camA, 20, camB, variables.NewVector(0.1, 0.2))
	require.NoError(t, r.Validate(abs))
	require.NoError(t, r.Validate(rel))

	require.NoError(t, r.Retire("camB"))
	assert.False(t, r.Contains(camB))
	assert.True(t, r.Contains(camA))
	assert.NoError(t, r.Validate(abs))
	assert.ErrorIs(t, r.Validate(rel), ErrUnregisteredSensor)

	// The pointer itself stays usable after retirement.
	assert.Equal(t, "camB", rel.OtherSensor().Name)

	assert.ErrorIs(t, r.Retire("camB"), ErrUnknownSensor)
	assert.Equal(t, []ID{"camA"}, r.IDs())
}

func TestRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	r := NewRegistry[Descriptor]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := &Descriptor{Name: fmt.Sprintf("s%d", i)}
			id := ID(d.Name)
			if err := r.Register(id, d); err != nil {
				t.Errorf("register %s: %v", id, err)
				return
			}
			if _, err := r.Lookup(id); err != nil {
				t.Errorf("lookup %s: %v", id, err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 16, r.Len())
}

func TestParseModality(t *testing.T) {
	t.Parallel()

	for _, m := range Modalities {
		got, err := ParseModality(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseModality("sonar")
	assert.Error(t, err)

	d := Descriptor{Name: "front", Modality: ModalityLidar, Frame: "sensor/hesai-01"}
	assert.Equal(t, "front (lidar, sensor/hesai-01)", d.String())
}

func TestRegistryFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.EstimationConfig{Sensors: []config.SensorConfig{
		{ID: "camA", Modality: "camera", Frame: "sensor/cam-a"},
		{ID: "imu", Name: "Body IMU", Modality: "imu"},
	}}
	reg, err := RegistryFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, []ID{"camA", "imu"}, reg.IDs())

	camA, err := reg.Lookup("camA")
	require.NoError(t, err)
	assert.Equal(t, Descriptor{Name: "camA", Modality: ModalityCamera, Frame: "sensor/cam-a"}, *camA)

	imu, err := reg.Lookup("imu")
	require.NoError(t, err)
	assert.Equal(t, "Body IMU", imu.Name)

	_, err = RegistryFromConfig(&config.EstimationConfig{Sensors: []config.SensorConfig{
		{ID: "x", Modality: "sonar"},
	}})
	assert.Error(t, err)

	defaults, err := RegistryFromConfig(config.MustLoadDefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, defaults.Len())
}
