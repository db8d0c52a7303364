// Package control turns pilot inputs into airframe settings.
//
// A [ControlMap] routes named inputs ("throttle", "aileron", ...) to the
// setters of engines, wings and gear, with per-mapping scaling and the
// [Split], [Invert] and [Square] options, and an optional rate limit per
// output:
//
//	cm := control.NewControlMap()
//	cm.AddMapping("aileron", control.Flap0, control.Target{Name: "wing", Set: wing.SetFlap0}, control.Split)
//	cm.SetInput("aileron", 0.3)
//	cm.ApplyControls(dt)
//
// [PID] is a simple hold loop that can drive one of those inputs, and it
// implements [dynamo.Configurable] for live tuning.
package control
