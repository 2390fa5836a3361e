package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/monitoring"
	"github.com/banshee-data/hyper/internal/sensors"
	"github.com/banshee-data/hyper/internal/variables"
	"github.com/banshee-data/hyper/internal/window"
)

// record is one line of an import file.
type record struct {
	Kind        measurements.Type `json:"kind"`
	Time        float64           `json:"time"`
	Sensor      string            `json:"sensor"`
	OtherTime   *float64          `json:"other_time,omitempty"`
	OtherSensor string            `json:"other_sensor,omitempty"`
	Variable    []float64         `json:"variable"`
}

var (
	errIncompleteRelative = errors.New("relative measurement needs other_time and other_sensor")
	errAbsoluteEndpoint   = errors.New("absolute measurement must not set other_time or other_sensor")
	errLineTooLong        = errors.New("line too long")
)

// maxLineBytes caps one import line. Longer lines are rejected and skipped.
var maxLineBytes = 16 << 20

func (r record) build(reg *sensors.Registry[sensors.Descriptor]) (measurements.Measurement, error) {
	sensor, err := reg.Lookup(sensors.ID(r.Sensor))
	if err != nil {
		return nil, err
	}
	v := variables.NewVector(r.Variable...)

	switch r.Kind {
	case measurements.AbsoluteMeasurement:
		if r.OtherTime != nil || r.OtherSensor != "" {
			return nil, errAbsoluteEndpoint
		}
		return measurements.NewAbsolute(measurements.Time(r.Time), sensor, v), nil
	case measurements.RelativeMeasurement:
		if r.OtherTime == nil || r.OtherSensor == "" {
			return nil, errIncompleteRelative
		}
		other, err := reg.Lookup(sensors.ID(r.OtherSensor))
		if err != nil {
			return nil, err
		}
		return measurements.NewRelative(measurements.Time(r.Time), sensor, measurements.Time(*r.OtherTime), other, v), nil
	default:
		return nil, fmt.Errorf("%w: %v", measurements.ErrUnknownType, r.Kind)
	}
}

type measurementSink interface {
	Insert(ctx context.Context, m measurements.Measurement) (string, error)
}

type importStats struct {
	Imported int
	Rejected int
	Retired  int // fell behind the window span
	Evicted  int // dropped to stay within max_window_measurements
}

// readLine returns the next line without its terminator. A line over
// maxLineBytes is consumed and reported with errLineTooLong; io.EOF is
// returned only when no data remains.
func readLine(br *bufio.Reader) ([]byte, error) {
	var line []byte
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if err == io.EOF && (line != nil || tooLong) {
				break
			}
			return nil, err
		}
		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return nil, errLineTooLong
	}
	return line, nil
}

// importRecords reads JSON lines from r, gates each measurement through w
// and persists the accepted ones. Malformed or rejected lines are logged and
// counted, not fatal; storage errors are.
func importRecords(ctx context.Context, r io.Reader, reg *sensors.Registry[sensors.Descriptor], w *window.Window, sink measurementSink) (importStats, error) {
	var stats importStats
	var latest measurements.Time
	seen := false

	br := bufio.NewReader(r)
	lineNo := 0
	for {
		raw, err := readLine(br)
		if err == io.EOF {
			break
		}
		lineNo++
		if errors.Is(err, errLineTooLong) {
			monitoring.Logf("line %d: %v (max %d bytes)", lineNo, err, maxLineBytes)
			stats.Rejected++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("read import file: %w", err)
		}
		line := strings.TrimSpace(string(raw))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			monitoring.Logf("line %d: %v", lineNo, err)
			stats.Rejected++
			continue
		}
		m, err := rec.build(reg)
		if err != nil {
			monitoring.Logf("line %d: %v", lineNo, err)
			stats.Rejected++
			continue
		}
		evicted, err := w.Add(m)
		if err != nil {
			monitoring.Logf("line %d: %v", lineNo, err)
			stats.Rejected++
			continue
		}
		if _, err := sink.Insert(ctx, m); err != nil {
			return stats, fmt.Errorf("line %d: %w", lineNo, err)
		}
		stats.Imported++
		stats.Evicted += len(evicted)

		if !seen || m.Latest() > latest {
			latest = m.Latest()
			seen = true
		}
		stats.Retired += len(w.Advance(latest))
	}
	monitoring.Debugf("import: window holds %d measurements", w.Len())
	return stats, nil
}
