// Package thrust provides the engines that push an airframe along: a
// piston engine driving a propeller, a jet with reheat and vectoring, and
// a simple fixed thrust source.
//
// All three satisfy [Thruster]. The model feeds each one the local wind
// and air once per iteration, calls Integrate, and reads back thrust,
// reaction torque, gyroscopic momentum and fuel flow.
package thrust
