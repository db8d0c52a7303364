// Package dynamo provides the core primitives shared by the flight model.
//
// The package defines the kinematic state, the force-environment contract
// between integrator and model, and the small amount of 3D geometry the
// rest of the module builds on:
//
//   - [State]: position, orientation, velocities and accelerations of a body
//   - [Plane]: a ground plane with signed height queries
//   - [Environment]: force calculation and state commit, implemented by the model
//   - [Reporter]: injected sink for named scalar telemetry
//   - [Orthonormalize], [RotMatrix], [Invert]: matrix helpers over mgl64
//
// # Frames
//
// Orientation matrices store the body axes as rows, so Orient*v maps a
// global vector into body axes and its transpose maps back. Body axes are
// x forward, y left, z up.
//
// # Errors
//
// Assembly problems are returned as wrapped sentinel errors such as
// [ErrSingularMatrix] and [ErrInvalidGeometry]. Runtime anomalies like a
// crash are flags on the model, never errors from the step function.
package dynamo
