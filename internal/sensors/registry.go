package sensors

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ID identifies a sensor within a Registry.
type ID string

var (
	// ErrEmptyID is returned when registering a sensor without an ID.
	ErrEmptyID = errors.New("empty sensor id")
	// ErrDuplicateID is returned when an ID is already registered.
	ErrDuplicateID = errors.New("duplicate sensor id")
	// ErrNilSensor is returned when registering a nil sensor.
	ErrNilSensor = errors.New("nil sensor")
	// ErrUnknownSensor is returned when an ID or sensor is not registered.
	ErrUnknownSensor = errors.New("unknown sensor")
	// ErrUnregisteredSensor is returned by Validate when a measurement
	// references a sensor that is not (or no longer) registered.
	ErrUnregisteredSensor = errors.New("measurement references unregistered sensor")
)

// Registry is the collection that owns sensors of type S. It is safe for
// concurrent use.
type Registry[S any] struct {
	mu   sync.RWMutex
	byID map[ID]*S
	ids  map[*S]ID
}

// NewRegistry returns an empty registry.
func NewRegistry[S any]() *Registry[S] {
	return &Registry[S]{
		byID: make(map[ID]*S),
		ids:  make(map[*S]ID),
	}
}

// Register adds sensor under id. A sensor may only be registered once.
func (r *Registry[S]) Register(id ID, sensor *S) error {
	if id == "" {
		return ErrEmptyID
	}
	if sensor == nil {
		return ErrNilSensor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	if prev, exists := r.ids[sensor]; exists {
		return fmt.Errorf("%w: sensor already registered as %s", ErrDuplicateID, prev)
	}
	r.byID[id] = sensor
	r.ids[sensor] = id
	return nil
}

// Add registers sensor under a freshly generated ID and returns it. If the
// sensor is already registered its existing ID is returned.
func (r *Registry[S]) Add(sensor *S) (ID, error) {
	if sensor == nil {
		return "", ErrNilSensor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.ids[sensor]; ok {
		return id, nil
	}
	id := ID(uuid.NewString())
	r.byID[id] = sensor
	r.ids[sensor] = id
	return id, nil
}

// Lookup returns the sensor registered under id.
func (r *Registry[S]) Lookup(id ID) (*S, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSensor, id)
	}
	return s, nil
}

// IDOf returns the ID sensor was registered under.
func (r *Registry[S]) IDOf(sensor *S) (ID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.ids[sensor]
	if !ok {
		return "", ErrUnknownSensor
	}
	return id, nil
}

// Contains reports whether sensor is registered.
func (r *Registry[S]) Contains(sensor *S) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ids[sensor]
	return ok
}

// Retire removes id from the registry. Measurements still pointing at the
// sensor keep a valid pointer but fail Validate from now on.
func (r *Registry[S]) Retire(id ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSensor, id)
	}
	delete(r.byID, id)
	delete(r.ids, s)
	return nil
}

// Len returns the number of registered sensors.
func (r *Registry[S]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// IDs returns all registered IDs in sorted order.
func (r *Registry[S]) IDs() []ID {
	r.mu.RLock()
	ids := make([]ID, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Refs is implemented by measurements that reference sensors of type S.
type Refs[S any] interface {
	Sensors() []*S
}

// Validate checks that every sensor referenced by m is registered.
func (r *Registry[S]) Validate(m Refs[S]) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i, s := range m.Sensors() {
		if _, ok := r.ids[s]; !ok {
			return fmt.Errorf("%w: endpoint %d", ErrUnregisteredSensor, i)
		}
	}
	return nil
}
