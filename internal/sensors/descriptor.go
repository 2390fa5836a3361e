package sensors

import (
	"fmt"

	"github.com/banshee-data/hyper/internal/config"
)

// Modality is the physical kind of a sensor.
type Modality string

const (
	ModalityCamera   Modality = "camera"
	ModalityIMU      Modality = "imu"
	ModalityLidar    Modality = "lidar"
	ModalityRadar    Modality = "radar"
	ModalityGNSS     Modality = "gnss"
	ModalityOdometry Modality = "odometry"
)

// Modalities lists the known modalities.
var Modalities = []Modality{
	ModalityCamera,
	ModalityIMU,
	ModalityLidar,
	ModalityRadar,
	ModalityGNSS,
	ModalityOdometry,
}

// ParseModality parses a modality name.
func ParseModality(s string) (Modality, error) {
	for _, m := range Modalities {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown sensor modality %q", s)
}

// Descriptor is a minimal sensor description: what it is and which frame
// its data is expressed in. Calibration lives with the driver.
type Descriptor struct {
	Name     string
	Modality Modality
	Frame    string // e.g. "sensor/cam-front"
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s (%s, %s)", d.Name, d.Modality, d.Frame)
}

// RegistryFromConfig registers a Descriptor for every configured sensor.
func RegistryFromConfig(cfg *config.EstimationConfig) (*Registry[Descriptor], error) {
	reg := NewRegistry[Descriptor]()
	for i, sc := range cfg.Sensors {
		modality, err := ParseModality(sc.Modality)
		if err != nil {
			return nil, fmt.Errorf("sensors[%d]: %w", i, err)
		}
		name := sc.Name
		if name == "" {
			name = sc.ID
		}
		d := &Descriptor{Name: name, Modality: modality, Frame: sc.Frame}
		if err := reg.Register(ID(sc.ID), d); err != nil {
			return nil, fmt.Errorf("sensors[%d]: %w", i, err)
		}
	}
	return reg, nil
}
