package metrics

import (
	"math"

	"github.com/san-kum/aerodyn/internal/physics"
	"github.com/san-kum/aerodyn/internal/sim"
)

// SpecificEnergy is the total mechanical energy per unit mass in J/kg.
func SpecificEnergy(f *sim.Frame) float64 {
	v := f.State.V.Len()
	return physics.Gravity*f.State.Pos[2] + 0.5*v*v
}

// EnergyDrift is the largest relative change in specific energy from the
// first observed frame. Gliding flight drifts steadily; a jump points at
// an integration problem.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift { return &EnergyDrift{} }

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(f *sim.Frame) {
	energy := SpecificEnergy(f)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++
	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
