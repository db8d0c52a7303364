package telemetry

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Prometheus exports every reported value as the gauge
// aerodyn_value{name="..."}.
type Prometheus struct {
	gatherer prometheus.Gatherer

	Values *prometheus.GaugeVec
	Steps  prometheus.Counter
}

// NewPrometheus registers the gauges on reg, defaulting to the global
// registry when nil. Registering twice on one registry reuses the
// collectors already there.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	values := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "aerodyn",
		Name:      "value",
		Help:      "Latest value of a named flight model quantity.",
	}, []string{"name"})
	if err := reg.Register(values); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.GaugeVec)
		if !ok {
			return nil, err
		}
		values = existing
	}

	steps := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "aerodyn",
		Name:      "steps_total",
		Help:      "Number of simulation steps taken.",
	})
	if err := reg.Register(steps); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Counter)
		if !ok {
			return nil, err
		}
		steps = existing
	}

	return &Prometheus{gatherer: gatherer, Values: values, Steps: steps}, nil
}

func (p *Prometheus) Report(name string, value float64) {
	p.Values.WithLabelValues(name).Set(value)
}

// Step counts one simulation step.
func (p *Prometheus) Step() { p.Steps.Inc() }

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}

var _ dynamo.Reporter = (*Prometheus)(nil)
