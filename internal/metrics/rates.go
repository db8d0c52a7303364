package metrics

import (
	"github.com/san-kum/aerodyn/internal/sim"
)

// RateEffort is the mean body rotation rate in rad/s, a rough measure of
// how hard the airframe is being thrown around.
type RateEffort struct {
	sum     float64
	samples int
}

func NewRateEffort() *RateEffort {
	return &RateEffort{}
}

func (r *RateEffort) Name() string {
	return "rotation_rate"
}

func (r *RateEffort) Observe(f *sim.Frame) {
	r.sum += f.State.Rot.Len()
	r.samples++
}

func (r *RateEffort) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *RateEffort) Reset() {
	r.sum = 0
	r.samples = 0
}
