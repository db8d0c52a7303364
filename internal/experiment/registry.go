package experiment

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/san-kum/aerodyn/internal/aircraft"
	"github.com/san-kum/aerodyn/internal/airplane"
	"github.com/san-kum/aerodyn/internal/metrics"
	"github.com/san-kum/aerodyn/internal/sim"
)

type Registry struct {
	aircraft *aircraft.Registry
}

func NewRegistry() *Registry {
	return &Registry{aircraft: aircraft.NewRegistry()}
}

func (r *Registry) Aircraft() *aircraft.Registry { return r.aircraft }

// GetAircraft builds and compiles the named aircraft. See
// aircraft.Registry.Load for the trim failure case.
func (r *Registry) GetAircraft(name string, log *slog.Logger) (*airplane.Airplane, error) {
	return r.aircraft.Load(name, log)
}

func (r *Registry) ListAircraft() []string {
	return r.aircraft.List()
}

// GetMetrics returns fresh instances of the named metrics, or the whole
// standard set when names is empty.
func (r *Registry) GetMetrics(names []string) ([]sim.Metric, error) {
	all := metrics.Standard()
	if len(names) == 0 {
		return all, nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(m sim.Metric) bool { return m.Name() == name })
		if i < 0 {
			return nil, fmt.Errorf("unknown metric: %s", name)
		}
		out = append(out, all[i])
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	var names []string
	for _, m := range metrics.Standard() {
		names = append(names, m.Name())
	}
	slices.Sort(names)
	return names
}
