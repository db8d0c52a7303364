package sim

import (
	"github.com/san-kum/aerodyn/internal/control"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Autopilot holds a vertical speed by flying one pilot input, normally
// the elevator. A positive input is taken to pitch the nose down.
type Autopilot struct {
	Input string
	pid   *control.PID
}

func NewAutopilot(input string, verticalSpeed, kp, ki, kd float64) *Autopilot {
	return &Autopilot{Input: input, pid: control.NewPID(kp, ki, kd, verticalSpeed)}
}

func (a *Autopilot) PID() *control.PID { return a.pid }
func (a *Autopilot) Reset()            { a.pid.Reset() }

// Update returns the input for the next step.
func (a *Autopilot) Update(s *dynamo.State, dt float64) float64 {
	return -a.pid.Update(s.V[2], dt)
}
