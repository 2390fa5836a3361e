package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/banshee-data/hyper/internal/sensors"
	"github.com/banshee-data/hyper/internal/timeutil"
)

// SensorStore persists sensor descriptors so a measurement log can be
// replayed without the original configuration.
type SensorStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewSensorStore creates a SensorStore. A nil clock uses the wall clock.
func NewSensorStore(db *sql.DB, clock timeutil.Clock) *SensorStore {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &SensorStore{db: db, clock: clock}
}

// SaveRegistry upserts every sensor in reg.
func (s *SensorStore) SaveRegistry(ctx context.Context, reg *sensors.Registry[sensors.Descriptor]) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save sensors: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO sensors (sensor_id, name, modality, frame, updated_at_ns)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(sensor_id) DO UPDATE SET
			name = excluded.name,
			modality = excluded.modality,
			frame = excluded.frame,
			updated_at_ns = excluded.updated_at_ns
	`
	now := s.clock.Now().UnixNano()
	for _, id := range reg.IDs() {
		d, err := reg.Lookup(id)
		if err != nil {
			return fmt.Errorf("save sensors: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, string(id), d.Name, string(d.Modality), nullString(d.Frame), now); err != nil {
			return fmt.Errorf("save sensor %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadRegistry builds a registry from the stored sensors.
func (s *SensorStore) LoadRegistry(ctx context.Context) (*sensors.Registry[sensors.Descriptor], error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sensor_id, name, modality, frame FROM sensors ORDER BY sensor_id`)
	if err != nil {
		return nil, fmt.Errorf("load sensors: %w", err)
	}
	defer rows.Close()

	reg := sensors.NewRegistry[sensors.Descriptor]()
	for rows.Next() {
		var id, name, modality string
		var frame sql.NullString
		if err := rows.Scan(&id, &name, &modality, &frame); err != nil {
			return nil, fmt.Errorf("scan sensor: %w", err)
		}
		m, err := sensors.ParseModality(modality)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", id, err)
		}
		d := &sensors.Descriptor{Name: name, Modality: m, Frame: frame.String}
		if err := reg.Register(sensors.ID(id), d); err != nil {
			return nil, fmt.Errorf("load sensors: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load sensors: %w", err)
	}
	return reg, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
