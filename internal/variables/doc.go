// Package variables provides the value types stored in measurements: flat
// vectors, a few manifold types, and the tangent spaces of those manifolds.
//
// Only representation lives here. Retraction, difference operators and
// Jacobians belong to the optimiser.
package variables
