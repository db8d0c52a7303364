package control

import (
	"fmt"
	"strings"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Type names a controllable property of an airframe object.
type Type int

const (
	Throttle Type = iota
	Mixture
	CondLever
	Starter
	Magnetos
	Advance
	Reheat
	Boost
	Vector
	Prop
	Brake
	Steer
	Extend
	HExtend
	LExtend
	LAccel
	Incidence
	Flap0
	Flap0Effectiveness
	Flap1
	Flap1Effectiveness
	Slat
	Spoiler
	Castering
	PropPitch
	PropFeather
	numTypes
)

var typeNames = [numTypes]string{
	Throttle:           "THROTTLE",
	Mixture:            "MIXTURE",
	CondLever:          "CONDLEVER",
	Starter:            "STARTER",
	Magnetos:           "MAGNETOS",
	Advance:            "ADVANCE",
	Reheat:             "REHEAT",
	Boost:              "BOOST",
	Vector:             "VECTOR",
	Prop:               "PROP",
	Brake:              "BRAKE",
	Steer:              "STEER",
	Extend:             "EXTEND",
	HExtend:            "HEXTEND",
	LExtend:            "LEXTEND",
	LAccel:             "LACCEL",
	Incidence:          "INCIDENCE",
	Flap0:              "FLAP0",
	Flap0Effectiveness: "FLAP0EFFECTIVENESS",
	Flap1:              "FLAP1",
	Flap1Effectiveness: "FLAP1EFFECTIVENESS",
	Slat:               "SLAT",
	Spoiler:            "SPOILER",
	Castering:          "CASTERING",
	PropPitch:          "PROPPITCH",
	PropFeather:        "PROPFEATHER",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType accepts a control type name in any case.
func ParseType(s string) (Type, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s {
			return Type(t), nil
		}
	}
	return 0, fmt.Errorf("control type %q: %w", s, dynamo.ErrUnknownHandle)
}

// Types lists every control type in declaration order.
func Types() []Type {
	ts := make([]Type, numTypes)
	for i := range ts {
		ts[i] = Type(i)
	}
	return ts
}

// DefaultRange is the value range a control type's output accepts.
func (t Type) DefaultRange() (lo, hi float64) {
	switch t {
	case Flap0, Flap1, Steer, Incidence, Vector:
		return -1, 1
	case Flap0Effectiveness, Flap1Effectiveness:
		return 1, 10
	case Magnetos:
		return 0, 3
	}
	return 0, 1
}

// Option modifies how a mapped input contributes to its output.
type Option uint8

const (
	// Split sends the value to the left side and its negation to the
	// right side, as ailerons need.
	Split Option = 1 << iota
	Invert
	// Square squares the magnitude and keeps the sign.
	Square
)

func (o Option) String() string {
	var parts []string
	if o&Split != 0 {
		parts = append(parts, "split")
	}
	if o&Invert != 0 {
		parts = append(parts, "invert")
	}
	if o&Square != 0 {
		parts = append(parts, "square")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
