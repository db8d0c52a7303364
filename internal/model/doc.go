// Package model assembles the force environment of an airframe: rigid
// body, surfaces, gear, thrusters and carrier equipment, stepped by the
// RK4 integrator against the ground and air around it.
package model
