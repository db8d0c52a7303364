package control

import (
	"fmt"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

// PID is a hold loop that drives a pilot input toward a target reading,
// such as the elevator input toward an altitude. The output is clamped
// and the integrator stops winding while the output is saturated.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	Min    float64
	Max    float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		Min:    -1,
		Max:    1,
		first:  true,
	}
}

// Update returns the output for one step of length dt given the measured
// value.
func (p *PID) Update(measured, dt float64) float64 {
	err := p.Target - measured
	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return dynamo.Clamp(p.Kp*err+p.Ki*p.integral, p.Min, p.Max)
	}

	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	u := p.Kp*err + p.Ki*(p.integral+err*dt) + p.Kd*derivative
	if u > p.Max || u < p.Min {
		return dynamo.Clamp(u, p.Min, p.Max)
	}
	p.integral += err * dt
	return u
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	default:
		return fmt.Errorf("pid parameter %q: %w", name, dynamo.ErrUnknownHandle)
	}
	return nil
}

var _ dynamo.Configurable = (*PID)(nil)
