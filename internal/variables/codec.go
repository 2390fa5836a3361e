package variables

import "fmt"

// Codec converts a variable to and from a flat coefficient slice for
// persistence.
type Codec[V any] interface {
	Encode(V) ([]float64, error)
	Decode([]float64) (V, error)
}

// VectorCodec encodes Vector values. A zero Dim accepts any length.
type VectorCodec struct {
	Dim int
}

// Encode returns the coefficients of v.
func (c VectorCodec) Encode(v Vector) ([]float64, error) {
	if err := c.check(v.Dim()); err != nil {
		return nil, err
	}
	return v.Coeffs(), nil
}

// Decode builds a Vector from coeffs.
func (c VectorCodec) Decode(coeffs []float64) (Vector, error) {
	if err := c.check(len(coeffs)); err != nil {
		return Vector{}, err
	}
	return NewVector(coeffs...), nil
}

func (c VectorCodec) check(n int) error {
	if c.Dim > 0 && n != c.Dim {
		return fmt.Errorf("%w: want %d coefficients, got %d", ErrDimension, c.Dim, n)
	}
	return nil
}

// TangentCodec encodes Tangent[M] values.
type TangentCodec[M Manifold] struct{}

// Encode returns the coefficients of t.
func (TangentCodec[M]) Encode(t Tangent[M]) ([]float64, error) {
	var m M
	if t.Dim() != m.TangentDim() {
		return nil, fmt.Errorf("%w: want %d coefficients, got %d", ErrDimension, m.TangentDim(), t.Dim())
	}
	return t.Coeffs(), nil
}

// Decode builds a Tangent[M] from coeffs.
func (TangentCodec[M]) Decode(coeffs []float64) (Tangent[M], error) {
	return NewTangent[M](coeffs...)
}

// SO3Codec encodes rotations as (w, x, y, z).
type SO3Codec struct{}

// Encode returns the quaternion coefficients.
func (SO3Codec) Encode(r SO3) ([]float64, error) { return r.Coeffs(), nil }

// Decode builds a rotation from (w, x, y, z).
func (SO3Codec) Decode(coeffs []float64) (SO3, error) {
	if len(coeffs) != 4 {
		return SO3{}, fmt.Errorf("%w: want 4 coefficients, got %d", ErrDimension, len(coeffs))
	}
	return NewSO3(coeffs[0], coeffs[1], coeffs[2], coeffs[3]), nil
}

// SE3Codec encodes transforms as (qw, qx, qy, qz, tx, ty, tz).
type SE3Codec struct{}

// Encode returns the transform coefficients.
func (SE3Codec) Encode(p SE3) ([]float64, error) { return p.Coeffs(), nil }

// Decode builds a transform from seven coefficients.
func (SE3Codec) Decode(coeffs []float64) (SE3, error) {
	if len(coeffs) != 7 {
		return SE3{}, fmt.Errorf("%w: want 7 coefficients, got %d", ErrDimension, len(coeffs))
	}
	return SE3{
		Rotation:    NewSO3(coeffs[0], coeffs[1], coeffs[2], coeffs[3]),
		Translation: [3]float64{coeffs[4], coeffs[5], coeffs[6]},
	}, nil
}

var (
	_ Codec[Vector]       = VectorCodec{}
	_ Codec[Tangent[SE3]] = TangentCodec[SE3]{}
	_ Codec[SO3]          = SO3Codec{}
	_ Codec[SE3]          = SE3Codec{}
)
