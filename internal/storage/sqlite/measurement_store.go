package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/sensors"
	"github.com/banshee-data/hyper/internal/timeutil"
	"github.com/banshee-data/hyper/internal/variables"
	"github.com/google/uuid"
)

// MeasurementStore persists measurements of sensor type S and variable
// type V.
type MeasurementStore[S, V any] struct {
	db       *sql.DB
	registry *sensors.Registry[S]
	codec    variables.Codec[V]
	clock    timeutil.Clock
}

// NewMeasurementStore creates a MeasurementStore. A nil clock uses the wall
// clock.
func NewMeasurementStore[S, V any](db *sql.DB, registry *sensors.Registry[S], codec variables.Codec[V], clock timeutil.Clock) *MeasurementStore[S, V] {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &MeasurementStore[S, V]{db: db, registry: registry, codec: codec, clock: clock}
}

// row is the flattened form of a measurement.
type row[V any] struct {
	kind          measurements.Type
	time          measurements.Time
	otherTime     sql.NullFloat64
	earliest      measurements.Time
	latest        measurements.Time
	sensorID      sensors.ID
	otherSensorID sql.NullString
	variable      V
}

func (s *MeasurementStore[S, V]) flatten(m measurements.Measurement) (row[V], error) {
	var sensorErr error
	r, err := measurements.Match(m,
		func(a *measurements.Absolute[S, V]) row[V] {
			id, err := s.registry.IDOf(a.Sensor())
			if err != nil {
				sensorErr = fmt.Errorf("sensor: %w", err)
				return row[V]{}
			}
			return row[V]{
				kind:     a.Type(),
				time:     a.Time(),
				earliest: a.Earliest(),
				latest:   a.Latest(),
				sensorID: id,
				variable: a.Variable(),
			}
		},
		func(r *measurements.Relative[S, V]) row[V] {
			id, err := s.registry.IDOf(r.Sensor())
			if err != nil {
				sensorErr = fmt.Errorf("sensor: %w", err)
				return row[V]{}
			}
			otherID, err := s.registry.IDOf(r.OtherSensor())
			if err != nil {
				sensorErr = fmt.Errorf("other sensor: %w", err)
				return row[V]{}
			}
			return row[V]{
				kind:          r.Type(),
				time:          r.Time(),
				otherTime:     sql.NullFloat64{Float64: float64(r.OtherTime()), Valid: true},
				earliest:      r.Earliest(),
				latest:        r.Latest(),
				sensorID:      id,
				otherSensorID: sql.NullString{String: string(otherID), Valid: true},
				variable:      r.Variable(),
			}
		},
	)
	if err != nil {
		return row[V]{}, err
	}
	return r, sensorErr
}

// Insert stores m and returns its generated row ID. Every sensor m
// references must be registered.
func (s *MeasurementStore[S, V]) Insert(ctx context.Context, m measurements.Measurement) (string, error) {
	r, err := s.flatten(m)
	if err != nil {
		return "", fmt.Errorf("insert measurement: %w", err)
	}
	coeffs, err := s.codec.Encode(r.variable)
	if err != nil {
		return "", fmt.Errorf("insert measurement: encode variable: %w", err)
	}
	variableJSON, err := json.Marshal(coeffs)
	if err != nil {
		return "", fmt.Errorf("insert measurement: marshal variable: %w", err)
	}

	id := uuid.New().String()
	query := `
		INSERT INTO measurements (
			measurement_id, kind, time_s, other_time_s, earliest_s, latest_s,
			sensor_id, other_sensor_id, variable_json, recorded_at_nanos
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		id,
		r.kind.String(),
		float64(r.time),
		r.otherTime,
		float64(r.earliest),
		float64(r.latest),
		string(r.sensorID),
		r.otherSensorID,
		string(variableJSON),
		s.clock.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert measurement: %w", err)
	}
	return id, nil
}

// List returns the measurements whose interval overlaps [from, to], ordered
// by earliest time then insertion.
func (s *MeasurementStore[S, V]) List(ctx context.Context, from, to measurements.Time) ([]measurements.Measurement, error) {
	query := `
		SELECT kind, time_s, other_time_s, sensor_id, other_sensor_id, variable_json
		FROM measurements
		WHERE earliest_s <= ? AND latest_s >= ?
		ORDER BY earliest_s, rowid
	`
	rows, err := s.db.QueryContext(ctx, query, float64(to), float64(from))
	if err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	defer rows.Close()

	var out []measurements.Measurement
	for rows.Next() {
		var (
			kindName      string
			t             float64
			otherTime     sql.NullFloat64
			sensorID      string
			otherSensorID sql.NullString
			variableJSON  string
		)
		if err := rows.Scan(&kindName, &t, &otherTime, &sensorID, &otherSensorID, &variableJSON); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		m, err := s.decode(kindName, t, otherTime, sensorID, otherSensorID, variableJSON)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return out, nil
}

func (s *MeasurementStore[S, V]) decode(
	kindName string,
	t float64,
	otherTime sql.NullFloat64,
	sensorID string,
	otherSensorID sql.NullString,
	variableJSON string,
) (measurements.Measurement, error) {
	kind, ok := measurements.ParseType(kindName)
	if !ok {
		return nil, fmt.Errorf("decode measurement: %w: %q", measurements.ErrUnknownType, kindName)
	}

	var coeffs []float64
	if err := json.Unmarshal([]byte(variableJSON), &coeffs); err != nil {
		return nil, fmt.Errorf("decode measurement: unmarshal variable: %w", err)
	}
	variable, err := s.codec.Decode(coeffs)
	if err != nil {
		return nil, fmt.Errorf("decode measurement: %w", err)
	}

	sensor, err := s.registry.Lookup(sensors.ID(sensorID))
	if err != nil {
		return nil, fmt.Errorf("decode measurement: %w", err)
	}

	switch kind {
	case measurements.AbsoluteMeasurement:
		return measurements.NewAbsolute(measurements.Time(t), sensor, variable), nil
	case measurements.RelativeMeasurement:
		if !otherTime.Valid || !otherSensorID.Valid {
			return nil, fmt.Errorf("decode measurement: relative row missing second endpoint")
		}
		other, err := s.registry.Lookup(sensors.ID(otherSensorID.String))
		if err != nil {
			return nil, fmt.Errorf("decode measurement: %w", err)
		}
		return measurements.NewRelative(measurements.Time(t), sensor, measurements.Time(otherTime.Float64), other, variable), nil
	default:
		return nil, fmt.Errorf("decode measurement: %w: %v", measurements.ErrUnknownType, kind)
	}
}

// DeleteBefore removes every measurement whose latest endpoint is strictly
// before the given time and returns the number of rows removed.
func (s *MeasurementStore[S, V]) DeleteBefore(ctx context.Context, before measurements.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM measurements WHERE latest_s < ?`, float64(before))
	if err != nil {
		return 0, fmt.Errorf("delete measurements: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored measurements.
func (s *MeasurementStore[S, V]) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM measurements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count measurements: %w", err)
	}
	return n, nil
}

// CountByType returns the number of stored measurements per type.
func (s *MeasurementStore[S, V]) CountByType(ctx context.Context) (map[measurements.Type]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM measurements GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count measurements: %w", err)
	}
	defer rows.Close()

	counts := make(map[measurements.Type]int)
	for rows.Next() {
		var kindName string
		var n int
		if err := rows.Scan(&kindName, &n); err != nil {
			return nil, fmt.Errorf("count measurements: %w", err)
		}
		kind, ok := measurements.ParseType(kindName)
		if !ok {
			return nil, fmt.Errorf("count measurements: %w: %q", measurements.ErrUnknownType, kindName)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}
