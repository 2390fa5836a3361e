package variables

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Manifold is implemented by value types with a tangent space. TangentDim
// must not depend on the receiver's value, so it is safe on the zero value.
type Manifold interface {
	TangentDim() int
}

// SO3 is a 3D rotation stored as a unit quaternion.
type SO3 struct {
	q quat.Number
}

// IdentitySO3 returns the identity rotation.
func IdentitySO3() SO3 { return SO3{q: quat.Number{Real: 1}} }

// NewSO3 returns the rotation for quaternion (w, x, y, z), normalised. A
// zero quaternion yields the identity.
func NewSO3(w, x, y, z float64) SO3 {
	q := quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
	n := quat.Abs(q)
	if n == 0 {
		return IdentitySO3()
	}
	return SO3{q: quat.Scale(1/n, q)}
}

// TangentDim returns 3.
func (SO3) TangentDim() int { return 3 }

// Quaternion returns the unit quaternion.
func (r SO3) Quaternion() quat.Number {
	if r.q == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return r.q
}

// Coeffs returns (w, x, y, z).
func (r SO3) Coeffs() []float64 {
	q := r.Quaternion()
	return []float64{q.Real, q.Imag, q.Jmag, q.Kmag}
}

// EqualApprox reports whether r and o are the same rotation within tol.
// q and -q represent the same rotation.
func (r SO3) EqualApprox(o SO3, tol float64) bool {
	a, b := r.Quaternion(), o.Quaternion()
	return quat.Abs(quat.Sub(a, b)) <= tol || quat.Abs(quat.Add(a, b)) <= tol
}

// SE3 is a rigid transform: rotation followed by translation.
type SE3 struct {
	Rotation    SO3
	Translation [3]float64
}

// IdentitySE3 returns the identity transform.
func IdentitySE3() SE3 { return SE3{Rotation: IdentitySO3()} }

// TangentDim returns 6.
func (SE3) TangentDim() int { return 6 }

// Coeffs returns (qw, qx, qy, qz, tx, ty, tz).
func (p SE3) Coeffs() []float64 {
	return append(p.Rotation.Coeffs(), p.Translation[:]...)
}

// EqualApprox reports whether p and o agree within tol.
func (p SE3) EqualApprox(o SE3, tol float64) bool {
	if !p.Rotation.EqualApprox(o.Rotation, tol) {
		return false
	}
	for i := range p.Translation {
		if math.Abs(p.Translation[i]-o.Translation[i]) > tol {
			return false
		}
	}
	return true
}
