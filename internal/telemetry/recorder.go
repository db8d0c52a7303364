// Package telemetry implements dynamo.Reporter sinks: an in-memory
// recorder and a Prometheus gauge exporter.
package telemetry

import (
	"slices"
	"strings"
	"sync"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

type Sample struct {
	Name  string
	Value float64
}

// Recorder keeps the latest value reported under each name. It is safe
// for concurrent use.
type Recorder struct {
	mu     sync.RWMutex
	values map[string]float64
}

func NewRecorder() *Recorder {
	return &Recorder{values: make(map[string]float64)}
}

func (r *Recorder) Report(name string, value float64) {
	r.mu.Lock()
	r.values[name] = value
	r.mu.Unlock()
}

func (r *Recorder) Get(name string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[name]
	return v, ok
}

func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	clear(r.values)
	r.mu.Unlock()
}

// Snapshot returns every sample sorted by name.
func (r *Recorder) Snapshot() []Sample {
	return r.Prefix("")
}

// Prefix returns the samples whose names start with prefix, sorted by
// name.
func (r *Recorder) Prefix(prefix string) []Sample {
	r.mu.RLock()
	out := make([]Sample, 0, len(r.values))
	for name, v := range r.values {
		if strings.HasPrefix(name, prefix) {
			out = append(out, Sample{name, v})
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b Sample) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Multi fans a report out to several reporters.
type Multi []dynamo.Reporter

func (m Multi) Report(name string, value float64) {
	for _, r := range m {
		r.Report(name, value)
	}
}

var (
	_ dynamo.Reporter = (*Recorder)(nil)
	_ dynamo.Reporter = Multi(nil)
)
