package measurements

import "fmt"

// Type tags the shape of a measurement. It is set once at construction and
// always matches the concrete variant.
type Type uint8

const (
	// AbsoluteMeasurement tags an observation at one time from one sensor.
	AbsoluteMeasurement Type = iota + 1
	// RelativeMeasurement tags a constraint between two times and two sensors.
	RelativeMeasurement
)

// Types lists every known measurement type in declaration order.
var Types = []Type{
	AbsoluteMeasurement,
	RelativeMeasurement,
}

var typeNames = map[Type]string{
	AbsoluteMeasurement: "ABSOLUTE_MEASUREMENT",
	RelativeMeasurement: "RELATIVE_MEASUREMENT",
}

// String returns the canonical upper-case name of the type.
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// ParseType parses the canonical name of a measurement type.
// Returns the Type and true on success, or zero and false otherwise.
func ParseType(s string) (Type, bool) {
	for _, t := range Types {
		if typeNames[t] == s {
			return t, true
		}
	}
	return 0, false
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, ok := ParseType(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, string(text))
	}
	*t = parsed
	return nil
}
