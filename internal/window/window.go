package window

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/banshee-data/hyper/internal/config"
	"github.com/banshee-data/hyper/internal/measurements"
	"github.com/banshee-data/hyper/internal/monitoring"
)

// OrderingPolicy decides which relative measurement orderings a Window
// accepts.
type OrderingPolicy string

const (
	// PolicyAny accepts every ordering.
	PolicyAny OrderingPolicy = "any"
	// PolicyForward rejects relative measurements with Time() > OtherTime().
	PolicyForward OrderingPolicy = "forward"
	// PolicyStrict additionally rejects Time() == OtherTime().
	PolicyStrict OrderingPolicy = "strict"
)

// ParseOrderingPolicy parses a policy name. The empty string is PolicyAny.
func ParseOrderingPolicy(s string) (OrderingPolicy, error) {
	switch OrderingPolicy(s) {
	case "", PolicyAny:
		return PolicyAny, nil
	case PolicyForward, PolicyStrict:
		return OrderingPolicy(s), nil
	}
	return "", fmt.Errorf("unknown ordering policy %q", s)
}

// ErrOrdering is returned by Add when a relative measurement violates the
// window's ordering policy.
var ErrOrdering = errors.New("relative measurement ordering rejected")

// Config holds window parameters.
type Config struct {
	Span            measurements.Time // Horizon kept behind the latest Advance; 0 keeps everything
	MaxMeasurements int               // Oldest entries are evicted beyond this; 0 is unbounded
	Policy          OrderingPolicy

	// Validate, when set, is called for every measurement before it is
	// accepted. Typically a sensors.Registry Validate wrapper.
	Validate func(measurements.Measurement) error
}

// Window is a time-ordered set of measurements. It is safe for concurrent
// use.
type Window struct {
	mu      sync.Mutex
	cfg     Config
	entries []measurements.Measurement // sorted by Earliest(), insertion order for ties
}

// New returns an empty window.
func New(cfg Config) *Window {
	if cfg.Policy == "" {
		cfg.Policy = PolicyAny
	}
	return &Window{cfg: cfg}
}

type ordered interface {
	Ordering() measurements.Ordering
}

func (w *Window) check(m measurements.Measurement) error {
	if measurements.IsNil(m) {
		measurementsRejected.WithLabelValues("nil").Inc()
		return measurements.ErrNilMeasurement
	}
	if o, ok := m.(ordered); ok {
		switch ord := o.Ordering(); {
		case ord == measurements.OrderReversed && w.cfg.Policy != PolicyAny:
			measurementsRejected.WithLabelValues("ordering").Inc()
			return fmt.Errorf("%w: %s under %s policy", ErrOrdering, ord, w.cfg.Policy)
		case ord == measurements.OrderDegenerate && w.cfg.Policy == PolicyStrict:
			measurementsRejected.WithLabelValues("ordering").Inc()
			return fmt.Errorf("%w: %s under %s policy", ErrOrdering, ord, w.cfg.Policy)
		}
	}
	if w.cfg.Validate != nil {
		if err := w.cfg.Validate(m); err != nil {
			measurementsRejected.WithLabelValues("invalid").Inc()
			return fmt.Errorf("invalid measurement at t=%.6f: %w", float64(m.Time()), err)
		}
	}
	return nil
}

// Add inserts m in time order. It returns the measurements evicted to stay
// within MaxMeasurements, oldest first.
func (w *Window) Add(m measurements.Measurement) ([]measurements.Measurement, error) {
	if err := w.check(m); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	at := m.Earliest()
	i := sort.Search(len(w.entries), func(i int) bool {
		return w.entries[i].Earliest() > at
	})
	w.entries = append(w.entries, nil)
	copy(w.entries[i+1:], w.entries[i:])
	w.entries[i] = m
	measurementsAccepted.WithLabelValues(m.Type().String()).Inc()

	if w.cfg.MaxMeasurements <= 0 || len(w.entries) <= w.cfg.MaxMeasurements {
		return nil, nil
	}
	overflow := len(w.entries) - w.cfg.MaxMeasurements
	evicted := make([]measurements.Measurement, overflow)
	copy(evicted, w.entries[:overflow])
	w.entries = append(w.entries[:0], w.entries[overflow:]...)
	measurementsEvicted.Add(float64(overflow))
	monitoring.Debugf("window: evicted %d measurements over limit %d", overflow, w.cfg.MaxMeasurements)
	return evicted, nil
}

// Advance retires every measurement whose latest endpoint is older than
// now - Span. With a zero Span nothing is retired.
func (w *Window) Advance(now measurements.Time) []measurements.Measurement {
	if w.cfg.Span <= 0 {
		return nil
	}
	return w.Retire(now - w.cfg.Span)
}

// Retire removes and returns every measurement whose latest endpoint is
// strictly before the given time, in window order.
func (w *Window) Retire(before measurements.Time) []measurements.Measurement {
	w.mu.Lock()
	defer w.mu.Unlock()

	var retired []measurements.Measurement
	kept := w.entries[:0]
	for _, m := range w.entries {
		if m.Latest() < before {
			retired = append(retired, m)
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(w.entries); i++ {
		w.entries[i] = nil
	}
	w.entries = kept

	if len(retired) > 0 {
		measurementsRetired.Add(float64(len(retired)))
		monitoring.Logf("window: retired %d measurements before t=%.6f (%d remain)",
			len(retired), float64(before), len(w.entries))
	}
	return retired
}

// Between returns the measurements whose interval overlaps [from, to].
func (w *Window) Between(from, to measurements.Time) []measurements.Measurement {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []measurements.Measurement
	for _, m := range w.entries {
		if m.Earliest() > to {
			break
		}
		if m.Latest() >= from {
			out = append(out, m)
		}
	}
	return out
}

// Snapshot returns a copy of the window contents in order.
func (w *Window) Snapshot() []measurements.Measurement {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]measurements.Measurement, len(w.entries))
	copy(out, w.entries)
	return out
}

// Len returns the number of measurements held.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Counts returns the number of measurements held per type.
func (w *Window) Counts() map[measurements.Type]int {
	w.mu.Lock()
	defer w.mu.Unlock()

	counts := make(map[measurements.Type]int, len(measurements.Types))
	for _, m := range w.entries {
		counts[m.Type()]++
	}
	return counts
}

// Bounds returns the earliest and latest times covered by the window. ok is
// false when the window is empty.
func (w *Window) Bounds() (earliest, latest measurements.Time, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.entries) == 0 {
		return 0, 0, false
	}
	earliest = w.entries[0].Earliest()
	latest = w.entries[0].Latest()
	for _, m := range w.entries[1:] {
		if l := m.Latest(); l > latest {
			latest = l
		}
	}
	return earliest, latest, true
}

// ConfigFromEstimation builds a window Config from a loaded
// EstimationConfig. Validate is left unset.
func ConfigFromEstimation(cfg *config.EstimationConfig) (Config, error) {
	policy, err := ParseOrderingPolicy(cfg.GetOrderingPolicy())
	if err != nil {
		return Config{}, err
	}
	return Config{
		Span:            measurements.Time(cfg.GetWindowSpanSeconds()),
		MaxMeasurements: cfg.GetMaxWindowMeasurements(),
		Policy:          policy,
	}, nil
}
