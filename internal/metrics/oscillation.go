package metrics

import (
	"github.com/san-kum/aerodyn/internal/analysis"
	"github.com/san-kum/aerodyn/internal/sim"
)

// PitchPeriod is the period of the strongest pitch oscillation over the
// run, zero when none shows. Frames are assumed evenly spaced.
type PitchPeriod struct {
	pitch      []float64
	start, end float64
}

func NewPitchPeriod() *PitchPeriod { return &PitchPeriod{} }

func (p *PitchPeriod) Name() string { return "pitch_period" }

func (p *PitchPeriod) Observe(f *sim.Frame) {
	if len(p.pitch) == 0 {
		p.start = f.Time
	}
	p.end = f.Time
	p.pitch = append(p.pitch, f.Pitch())
}

func (p *PitchPeriod) Value() float64 {
	if len(p.pitch) < 2 {
		return 0
	}
	dt := (p.end - p.start) / float64(len(p.pitch)-1)
	period, ok := analysis.DominantPeriod(p.pitch, dt)
	if !ok {
		return 0
	}
	return period
}

func (p *PitchPeriod) Reset() {
	p.pitch = p.pitch[:0]
	p.start, p.end = 0, 0
}
