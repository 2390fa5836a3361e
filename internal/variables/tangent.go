package variables

import "fmt"

// Tangent is a perturbation in the tangent space of manifold M. Its
// dimension is always M's TangentDim.
type Tangent[M Manifold] struct {
	Vector
}

// NewTangent returns a tangent of M with the given coefficients.
func NewTangent[M Manifold](coeffs ...float64) (Tangent[M], error) {
	var m M
	if len(coeffs) != m.TangentDim() {
		return Tangent[M]{}, fmt.Errorf("%w: tangent of %T needs %d coefficients, got %d",
			ErrDimension, m, m.TangentDim(), len(coeffs))
	}
	return Tangent[M]{Vector: NewVector(coeffs...)}, nil
}

// MustTangent is NewTangent that panics on a dimension mismatch.
func MustTangent[M Manifold](coeffs ...float64) Tangent[M] {
	t, err := NewTangent[M](coeffs...)
	if err != nil {
		panic(err)
	}
	return t
}

// ZeroTangent returns the zero perturbation of M.
func ZeroTangent[M Manifold]() Tangent[M] {
	var m M
	return Tangent[M]{Vector: Zeros(m.TangentDim())}
}

// Clone returns a deep copy of t.
func (t Tangent[M]) Clone() Tangent[M] {
	return Tangent[M]{Vector: t.Vector.Clone()}
}

// Equal reports whether t and o have the same coefficients.
func (t Tangent[M]) Equal(o Tangent[M]) bool {
	return t.Vector.Equal(o.Vector)
}
