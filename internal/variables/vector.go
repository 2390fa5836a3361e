package variables

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrDimension is returned when coefficients do not match the expected
// dimension of a variable.
var ErrDimension = errors.New("dimension mismatch")

// Vector is a point in R^n. The zero Vector has dimension 0.
//
// Copies of a Vector share storage; use Clone for an independent copy.
type Vector struct {
	vec *mat.VecDense
}

// NewVector returns a vector holding a copy of values.
func NewVector(values ...float64) Vector {
	if len(values) == 0 {
		return Vector{}
	}
	data := make([]float64, len(values))
	copy(data, values)
	return Vector{vec: mat.NewVecDense(len(data), data)}
}

// Zeros returns the zero vector of dimension n.
func Zeros(n int) Vector {
	if n <= 0 {
		return Vector{}
	}
	return Vector{vec: mat.NewVecDense(n, nil)}
}

// Dim returns the dimension of v.
func (v Vector) Dim() int {
	if v.vec == nil {
		return 0
	}
	return v.vec.Len()
}

// At returns the i-th coefficient.
func (v Vector) At(i int) float64 { return v.vec.AtVec(i) }

// SetAt sets the i-th coefficient in place.
func (v Vector) SetAt(i int, value float64) { v.vec.SetVec(i, value) }

// Coeffs returns a copy of the coefficients.
func (v Vector) Coeffs() []float64 {
	if v.vec == nil {
		return []float64{}
	}
	return mat.Col(nil, 0, v.vec)
}

// Raw exposes the backing gonum vector. Mutating it mutates v.
func (v Vector) Raw() *mat.VecDense { return v.vec }

// Clone returns a deep copy of v.
func (v Vector) Clone() Vector {
	if v.vec == nil {
		return Vector{}
	}
	return Vector{vec: mat.VecDenseCopyOf(v.vec)}
}

// Equal reports whether v and o have the same dimension and coefficients.
func (v Vector) Equal(o Vector) bool {
	return v.Dim() == o.Dim() && floats.Equal(v.Coeffs(), o.Coeffs())
}

// EqualApprox is Equal with an absolute or relative tolerance.
func (v Vector) EqualApprox(o Vector, tol float64) bool {
	return v.Dim() == o.Dim() && floats.EqualApprox(v.Coeffs(), o.Coeffs(), tol)
}

// Norm returns the Euclidean norm of v.
func (v Vector) Norm() float64 {
	if v.vec == nil {
		return 0
	}
	return mat.Norm(v.vec, 2)
}

func (v Vector) String() string {
	parts := make([]string, 0, v.Dim())
	for _, c := range v.Coeffs() {
		parts = append(parts, fmt.Sprintf("%g", c))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
