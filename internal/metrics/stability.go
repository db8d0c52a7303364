package metrics

import (
	"math"

	"github.com/san-kum/aerodyn/internal/sim"
)

// DefaultAttitudeLimit is 60 degrees.
const DefaultAttitudeLimit = math.Pi / 3

// Stability is the fraction of frames flown with pitch and bank inside
// the limit.
type Stability struct {
	limit      float64
	violations int
	samples    int
}

func NewStability(limit float64) *Stability {
	return &Stability{limit: limit}
}

func (s *Stability) Name() string {
	return "stability"
}

func (s *Stability) Observe(f *sim.Frame) {
	s.samples++
	if math.Abs(f.Pitch()) > s.limit || math.Abs(f.Bank()) > s.limit {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
