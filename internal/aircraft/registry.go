package aircraft

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/san-kum/aerodyn/internal/airplane"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Builder assembles an uncompiled airframe.
type Builder func() (*airplane.Airplane, error)

type entry struct {
	desc  string
	build Builder
}

type Registry struct {
	aircraft map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{aircraft: make(map[string]entry)}

	r.Register("glider", "two-seat sailplane with a single main wheel", Glider)
	r.Register("trainer", "high-wing piston trainer on tricycle gear", Trainer)
	r.Register("jet", "swept-wing twin jet with reheat, slats and spoilers", Jet)
	r.Register("carrier", "carrier variant of the jet with hook and launchbar", Carrier)

	return r
}

// Register adds or replaces an aircraft.
func (r *Registry) Register(name, desc string, b Builder) {
	r.aircraft[name] = entry{desc: desc, build: b}
}

// Get builds the named aircraft without compiling it.
func (r *Registry) Get(name string) (*airplane.Airplane, error) {
	e, ok := r.aircraft[name]
	if !ok {
		return nil, fmt.Errorf("unknown aircraft: %s", name)
	}
	a, err := e.build()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return a, nil
}

// Load builds and compiles the named aircraft. A trim failure still
// returns the compiled airplane together with the error, so callers can
// decide whether to fly it anyway.
func (r *Registry) Load(name string, log *slog.Logger) (*airplane.Airplane, error) {
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	if log != nil {
		a.SetLogger(log.With("aircraft", name))
	}
	if err := a.Compile(); err != nil {
		if errors.Is(err, dynamo.ErrTrimFailed) {
			return a, err
		}
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return a, nil
}

func (r *Registry) Describe(name string) (string, bool) {
	e, ok := r.aircraft[name]
	return e.desc, ok
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.aircraft))
	for name := range r.aircraft {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
