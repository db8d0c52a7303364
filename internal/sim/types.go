package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

// Frame is the airplane as seen after one committed step.
type Frame struct {
	Step       int
	Time       float64
	State      dynamo.State
	AGL        float64
	Airspeed   float64
	Mass       float64
	PilotAccel mgl64.Vec3
	Fuel       float64
	FuelBurned float64
	Crashed    bool
}

// Pitch is the nose angle above the horizon.
func (f *Frame) Pitch() float64 {
	return math.Asin(dynamo.Clamp(f.State.Orient.Row(0)[2], -1, 1))
}

// Bank is positive with the right wing down.
func (f *Frame) Bank() float64 {
	return math.Atan2(f.State.Orient.Row(1)[2], f.State.Orient.Row(2)[2])
}

// Heading is the nose direction measured from global x toward y.
func (f *Frame) Heading() float64 {
	x := f.State.Orient.Row(0)
	return math.Atan2(x[1], x[0])
}

// LoadFactor is the specific force at the pilot in g.
func (f *Frame) LoadFactor() float64 {
	return f.PilotAccel.Len() / physics.Gravity
}

type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f *Frame)
}

type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnStep(f *Frame) { fn(f) }

// Event sets a pilot input once the simulation time reaches Time.
type Event struct {
	Time  float64
	Input string
	Value float64
}

type Config struct {
	Dt       float64
	Duration float64
	// Inputs are applied, without rate limits, before the first step.
	Inputs      map[string]float64
	Schedule    []Event
	StopOnCrash bool
	// RecordEvery keeps every n-th frame in the result; zero keeps all.
	RecordEvery int
	// ReportEvery sends telemetry every n-th step; zero reports every
	// step.
	ReportEvery int
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Crashed    bool
}

// Final is the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}
