package control

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Setter receives the left and right values of an output. Objects
// without sides use left.
type Setter func(left, right float64)

// Target is an object property that outputs write to. Outputs are keyed
// by the target name together with the control type, so several inputs
// mapped to the same name and type are summed.
type Target struct {
	Name string
	Set  Setter
}

// Mapping connects one named input to one output.
type Mapping struct {
	opts     Option
	src, dst [2]float64
	val      float64
}

// SetRange replaces the default source and destination ranges.
func (m *Mapping) SetRange(src0, src1, dst0, dst1 float64) {
	m.src = [2]float64{src0, src1}
	m.dst = [2]float64{dst0, dst1}
}

func (m *Mapping) set(v float64) {
	lo, hi := min(m.src[0], m.src[1]), max(m.src[0], m.src[1])
	v = dynamo.Clamp(v, lo, hi)
	f := 0.0
	if m.src[1] != m.src[0] {
		f = (v - m.src[0]) / (m.src[1] - m.src[0])
	}
	m.val = dynamo.Lerp(f, m.dst[0], m.dst[1])
}

type outputKey struct {
	name  string
	ctype Type
}

type output struct {
	key        outputKey
	set        Setter
	mappings   []*Mapping
	transition float64
	left       float64
	right      float64
}

// ControlMap routes named pilot inputs to object setters.
type ControlMap struct {
	inputs  map[string][]*Mapping
	outputs []*output
	index   map[outputKey]*output
}

func NewControlMap() *ControlMap {
	return &ControlMap{
		inputs: make(map[string][]*Mapping),
		index:  make(map[outputKey]*output),
	}
}

// AddMapping maps input onto the ctype property of target. The returned
// mapping uses the type's default range on both sides until SetRange is
// called.
func (c *ControlMap) AddMapping(input string, ctype Type, target Target, opts Option) *Mapping {
	key := outputKey{target.Name, ctype}
	out, ok := c.index[key]
	if !ok {
		out = &output{key: key, set: target.Set}
		c.index[key] = out
		c.outputs = append(c.outputs, out)
	}
	lo, hi := ctype.DefaultRange()
	m := &Mapping{opts: opts, src: [2]float64{lo, hi}, dst: [2]float64{lo, hi}}
	out.mappings = append(out.mappings, m)
	c.inputs[input] = append(c.inputs[input], m)
	return m
}

// SetTransitionTime limits how fast an output can sweep its full default
// range.
func (c *ControlMap) SetTransitionTime(name string, ctype Type, seconds float64) error {
	out, ok := c.index[outputKey{name, ctype}]
	if !ok {
		return fmt.Errorf("output %s/%v: %w", name, ctype, dynamo.ErrUnknownHandle)
	}
	out.transition = math.Max(0, seconds)
	return nil
}

// SetInput records a raw input value. Unknown inputs are ignored.
func (c *ControlMap) SetInput(input string, value float64) {
	for _, m := range c.inputs[input] {
		m.set(value)
	}
}

// Inputs lists the input names in sorted order.
func (c *ControlMap) Inputs() []string {
	names := make([]string, 0, len(c.inputs))
	for name := range c.inputs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Output returns the last values written for an output.
func (c *ControlMap) Output(name string, ctype Type) (left, right float64, ok bool) {
	out, ok := c.index[outputKey{name, ctype}]
	if !ok {
		return 0, 0, false
	}
	return out.left, out.right, true
}

// Reset zeroes every input.
func (c *ControlMap) Reset() {
	for _, ms := range c.inputs {
		for _, m := range ms {
			m.val = 0
		}
	}
}

// ApplyControls sums the mapped inputs of each output, rate limits the
// result and hands it to the target. A non-positive dt skips the rate
// limit, which lets the solver jump straight to a control setting.
func (c *ControlMap) ApplyControls(dt float64) {
	for _, out := range c.outputs {
		var left, right float64
		for _, m := range out.mappings {
			v := m.val
			if m.opts&Square != 0 {
				v *= math.Abs(v)
			}
			if m.opts&Invert != 0 {
				v = -v
			}
			left += v
			if m.opts&Split != 0 {
				right -= v
			} else {
				right += v
			}
		}

		if out.transition > 0 && dt > 0 {
			lo, hi := out.key.ctype.DefaultRange()
			step := dt * (hi - lo) / out.transition
			left = out.left + dynamo.Clamp(left-out.left, -step, step)
			right = out.right + dynamo.Clamp(right-out.right, -step, step)
		}
		out.left, out.right = left, right
		if out.set != nil {
			out.set(left, right)
		}
	}
}
