package airplane

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/aerodyn/internal/aero"
	"github.com/san-kum/aerodyn/internal/control"
	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Object names accepted by Target. Indexed objects take the form
// "gear:1".
const (
	ObjWing      = "wing"
	ObjTail      = "tail"
	ObjVStab     = "vstab"
	ObjThruster  = "thruster"
	ObjGear      = "gear"
	ObjHook      = "hook"
	ObjLaunchbar = "launchbar"
)

func on(v float64) bool { return v > 0 }

// Target resolves an object name and control type to the setter that
// drives it.
func (a *Airplane) Target(object string, ctype control.Type) (control.Target, error) {
	set, err := a.setter(object, ctype)
	if err != nil {
		return control.Target{}, err
	}
	return control.Target{Name: object, Set: set}, nil
}

// MapControl routes input to the ctype property of object.
func (a *Airplane) MapControl(input, object string, ctype control.Type, opts control.Option) (*control.Mapping, error) {
	t, err := a.Target(object, ctype)
	if err != nil {
		return nil, err
	}
	return a.controls.AddMapping(input, ctype, t, opts), nil
}

func (a *Airplane) setter(object string, ctype control.Type) (control.Setter, error) {
	kind, idxStr, indexed := strings.Cut(object, ":")
	idx := 0
	if indexed {
		n, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
		}
		idx = n
	}
	unknown := fmt.Errorf("object %q has no %v control: %w", object, ctype, dynamo.ErrUnknownHandle)

	switch kind {
	case ObjWing, ObjTail, ObjVStab:
		var w *aero.Wing
		switch {
		case kind == ObjWing:
			w = a.wing
		case kind == ObjTail:
			w = a.tail
		case idx >= 0 && idx < len(a.vstabs):
			w = a.vstabs[idx]
		}
		if w == nil {
			return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
		}
		if set := wingSetter(w, ctype); set != nil {
			return set, nil
		}

	case ObjThruster:
		if idx < 0 || idx >= len(a.thrusters) {
			return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
		}
		t := a.thrusters[idx].t
		switch ctype {
		case control.Throttle:
			return func(l, _ float64) { t.SetThrottle(l) }, nil
		case control.Mixture:
			return func(l, _ float64) { t.SetMixture(l) }, nil
		case control.CondLever:
			return func(l, _ float64) { t.SetCondLever(l) }, nil
		case control.Starter:
			return func(l, _ float64) { t.SetStarter(on(l)) }, nil
		case control.Magnetos:
			return func(l, _ float64) { t.SetMagnetos(int(math.Round(l))) }, nil
		case control.Advance, control.Prop:
			return func(l, _ float64) { t.SetAdvance(l) }, nil
		case control.Reheat:
			return func(l, _ float64) { t.SetReheat(l) }, nil
		case control.Boost:
			return func(l, _ float64) { t.SetBoost(l) }, nil
		case control.Vector:
			return func(l, _ float64) { t.SetVector(l) }, nil
		case control.PropPitch:
			return func(l, _ float64) { t.SetPropPitch(l) }, nil
		case control.PropFeather:
			return func(l, _ float64) { t.SetFeather(on(l)) }, nil
		}

	case ObjGear:
		if idx < 0 || idx >= len(a.gears) {
			return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
		}
		g := a.gears[idx].g
		switch ctype {
		case control.Brake:
			return func(l, _ float64) { g.Brake = dynamo.Clamp(l, 0, 1) }, nil
		case control.Steer:
			return func(l, _ float64) { g.Rotation = l }, nil
		case control.Extend:
			return func(l, _ float64) { g.Extension = dynamo.Clamp(l, 0, 1) }, nil
		case control.Castering:
			return func(l, _ float64) { g.Castering = on(l) }, nil
		}

	case ObjHook:
		h := a.model.Hook()
		if h == nil {
			return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
		}
		if ctype == control.HExtend {
			return func(l, _ float64) { h.Extension = dynamo.Clamp(l, 0, 1) }, nil
		}

	case ObjLaunchbar:
		lb := a.model.Launchbar()
		if lb == nil {
			return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
		}
		switch ctype {
		case control.LExtend:
			return func(l, _ float64) { lb.Extension = dynamo.Clamp(l, 0, 1) }, nil
		case control.LAccel:
			return func(l, _ float64) { lb.SetLaunchCmd(on(l)) }, nil
		}

	default:
		return nil, fmt.Errorf("object %q: %w", object, dynamo.ErrUnknownHandle)
	}
	return nil, unknown
}

func wingSetter(w *aero.Wing, ctype control.Type) control.Setter {
	switch ctype {
	case control.Flap0:
		return w.SetFlap0
	case control.Flap1:
		return w.SetFlap1
	case control.Flap0Effectiveness:
		return func(l, _ float64) { w.SetFlap0Effectiveness(l) }
	case control.Flap1Effectiveness:
		return func(l, _ float64) { w.SetFlap1Effectiveness(l) }
	case control.Slat:
		return func(l, _ float64) { w.SetSlat(l) }
	case control.Spoiler:
		return w.SetSpoiler
	case control.Incidence:
		return func(l, _ float64) { w.SetIncidence(l) }
	}
	return nil
}
