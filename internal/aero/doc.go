// Package aero computes aerodynamic forces on lifting surfaces.
//
// A [Surface] is a single panel with its own axes, drag coefficients and
// four-quadrant stall model. A [Wing] slices a planform into Surfaces at
// the boundaries of its flaps, slats and spoilers, and drives those
// controls at runtime.
//
// Forces are returned in body axes (x forward, y left, z up) and scale
// with 0.5*rho*V^2 times the surface's total drag coefficient, which the
// trim solver tunes.
package aero
