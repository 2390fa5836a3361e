package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/banshee-data/hyper/internal/config"
	"github.com/banshee-data/hyper/internal/db"
	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/sensors"
	"github.com/banshee-data/hyper/internal/storage/sqlite"
	"github.com/banshee-data/hyper/internal/timeutil"
	"github.com/banshee-data/hyper/internal/variables"
)

// parseRange parses "from,to" in seconds.
func parseRange(s string) (from, to measurements.Time, err error) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid range %q: want from,to", s)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range start %q: %w", lo, err)
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid range end %q: %w", hi, err)
	}
	if t < f {
		return 0, 0, fmt.Errorf("invalid range %q: end before start", s)
	}
	return measurements.Time(f), measurements.Time(t), nil
}

// listMeasurements writes the stored measurements overlapping the range as
// import records. Sensors are resolved from the sensors table, so the output
// round-trips through -import even after the config has changed.
func listMeasurements(ctx context.Context, out io.Writer, database *db.DB, cfg *config.EstimationConfig, span string) error {
	from, to, err := parseRange(span)
	if err != nil {
		return err
	}

	reg, err := sqlite.NewSensorStore(database.DB, nil).LoadRegistry(ctx)
	if err != nil {
		return err
	}
	store := sqlite.NewMeasurementStore[sensors.Descriptor, variables.Vector](
		database.DB, reg, variables.VectorCodec{Dim: cfg.GetVectorDim()}, timeutil.RealClock{})

	ms, err := store.List(ctx, from, to)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	for _, m := range ms {
		rec, err := toRecord(reg, m)
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return nil
}

func toRecord(reg *sensors.Registry[sensors.Descriptor], m measurements.Measurement) (record, error) {
	var sensorErr error
	id := func(d *sensors.Descriptor) string {
		v, err := reg.IDOf(d)
		if err != nil && sensorErr == nil {
			sensorErr = err
		}
		return string(v)
	}
	rec, err := measurements.Match(m,
		func(a *measurements.Absolute[sensors.Descriptor, variables.Vector]) record {
			return record{
				Kind:     a.Type(),
				Time:     float64(a.Time()),
				Sensor:   id(a.Sensor()),
				Variable: a.Variable().Coeffs(),
			}
		},
		func(r *measurements.Relative[sensors.Descriptor, variables.Vector]) record {
			other := float64(r.OtherTime())
			return record{
				Kind:        r.Type(),
				Time:        float64(r.Time()),
				Sensor:      id(r.Sensor()),
				OtherTime:   &other,
				OtherSensor: id(r.OtherSensor()),
				Variable:    r.Variable().Coeffs(),
			}
		},
	)
	if err != nil {
		return record{}, err
	}
	return rec, sensorErr
}
