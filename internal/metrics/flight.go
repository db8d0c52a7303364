package metrics

import (
	"math"

	"github.com/san-kum/aerodyn/internal/sim"
)

// MinAGL is the lowest gear height above the ground seen in the run.
type MinAGL struct {
	min  float64
	seen bool
}

func NewMinAGL() *MinAGL { return &MinAGL{} }

func (m *MinAGL) Name() string { return "min_agl" }

func (m *MinAGL) Observe(f *sim.Frame) {
	if !m.seen || f.AGL < m.min {
		m.min = f.AGL
		m.seen = true
	}
}

func (m *MinAGL) Value() float64 { return m.min }
func (m *MinAGL) Reset()         { *m = MinAGL{} }

// PeakLoad is the largest load factor felt at the pilot's seat.
type PeakLoad struct {
	peak float64
}

func NewPeakLoad() *PeakLoad { return &PeakLoad{} }

func (p *PeakLoad) Name() string         { return "peak_load_factor" }
func (p *PeakLoad) Observe(f *sim.Frame) { p.peak = math.Max(p.peak, f.LoadFactor()) }
func (p *PeakLoad) Value() float64       { return p.peak }
func (p *PeakLoad) Reset()               { p.peak = 0 }

// FuelBurned is the fuel mass consumed since the first observed frame.
type FuelBurned struct {
	start, last float64
	samples     int
}

func NewFuelBurned() *FuelBurned { return &FuelBurned{} }

func (b *FuelBurned) Name() string { return "fuel_burned" }

func (b *FuelBurned) Observe(f *sim.Frame) {
	if b.samples == 0 {
		b.start = f.FuelBurned
	}
	b.last = f.FuelBurned
	b.samples++
}

func (b *FuelBurned) Value() float64 { return b.last - b.start }
func (b *FuelBurned) Reset()         { *b = FuelBurned{} }

// Standard is the metric set every run reports.
func Standard() []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewMinAGL(),
		NewPeakLoad(),
		NewFuelBurned(),
		NewStability(DefaultAttitudeLimit),
		NewRateEffort(),
		NewPitchPeriod(),
	}
}
