package measurements

import "github.com/banshee-data/hyper/internal/variables"

// AbsoluteManifold observes a manifold value directly.
type AbsoluteManifold[S any, M variables.Manifold] = Absolute[S, M]

// AbsoluteTangent observes a perturbation in the tangent space of M.
type AbsoluteTangent[S any, M variables.Manifold] = Absolute[S, variables.Tangent[M]]

// RelativeManifold constrains two states by a manifold value (e.g. a
// relative pose).
type RelativeManifold[S any, M variables.Manifold] = Relative[S, M]

// RelativeTangent constrains two states by a tangent-space delta.
type RelativeTangent[S any, M variables.Manifold] = Relative[S, variables.Tangent[M]]
