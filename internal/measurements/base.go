package measurements

// cloner is implemented by variable types holding shared backing storage
// (slices, gonum vectors). Base clones such values on construction so the
// measurement owns its copy.
type cloner[V any] interface {
	Clone() V
}

// Base holds the fields shared by every measurement: the type tag, the
// first (or only) time and the observed variable.
//
// Base is embedded by Absolute and Relative and is not a Measurement on its
// own.
type Base[V any] struct {
	typ      Type
	time     Time
	variable V
}

func newBase[V any](typ Type, time Time, variable V) Base[V] {
	if c, ok := any(variable).(cloner[V]); ok {
		variable = c.Clone()
	}
	return Base[V]{typ: typ, time: time, variable: variable}
}

// Type returns the construction-time tag.
func (b *Base[V]) Type() Type { return b.typ }

// Time returns the measurement time. For relative measurements this is the
// first endpoint.
func (b *Base[V]) Time() Time { return b.time }

// SetTime moves the measurement time. Ordering against other measurements is
// not checked here.
func (b *Base[V]) SetTime(t Time) { b.time = t }

// Variable returns the observed value.
func (b *Base[V]) Variable() V { return b.variable }

// MutableVariable returns a pointer to the stored value for in-place edits.
func (b *Base[V]) MutableVariable() *V { return &b.variable }
