package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

// DefaultRunout is the wire payout over which an arrest stops the
// aircraft.
const DefaultRunout = 90.0

// Hook is an arrestor hook hinged at Pos. Angles are measured downward
// from the aft body axis; Extension moves it between the up and down
// limits.
type Hook struct {
	Pos       mgl64.Vec3
	Length    float64
	UpAngle   float64
	DownAngle float64
	Extension float64
	Runout    float64

	ground physics.GroundSample

	angle  float64
	tip    mgl64.Vec3
	force  mgl64.Vec3
	caught bool

	// global mount and tip from the previous committed state
	oldMount, oldTip mgl64.Vec3
	primed           bool
}

func NewHook() *Hook {
	return &Hook{
		Length: 1,
		Runout: DefaultRunout,
		ground: physics.GroundSample{
			Plane: dynamo.Plane{Normal: mgl64.Vec3{0, 0, 1}, D: -1e3},
		},
	}
}

func (h *Hook) SetGround(s physics.GroundSample) { h.ground = s }
func (h *Hook) Force() mgl64.Vec3                { return h.force }
func (h *Hook) Angle() float64                   { return h.angle }
func (h *Hook) Caught() bool                     { return h.caught }

// TipPosition is the tip in body axes as of the last update.
func (h *Hook) TipPosition() mgl64.Vec3 { return h.tip }

func (h *Hook) tipAt(angle float64) mgl64.Vec3 {
	sin, cos := math.Sincos(angle)
	return h.Pos.Add(mgl64.Vec3{-cos, 0, -sin}.Mul(h.Length))
}

// place sets the hook angle for the current extension, lifting it so
// the tip rests on the ground instead of passing through it.
func (h *Hook) place(s *dynamo.State) {
	ext := dynamo.Clamp(h.Extension, 0, 1)
	h.angle = h.UpAngle + ext*(h.DownAngle-h.UpAngle)

	ground := s.PlaneGlobalToLocal(h.ground.Plane)
	if ground.Height(h.tipAt(h.angle)) < 0 && ground.Height(h.Pos) > 0 {
		lo, hi := h.UpAngle, h.angle
		for i := 0; i < 30; i++ {
			mid := (lo + hi) / 2
			if ground.Height(h.tipAt(mid)) < 0 {
				hi = mid
			} else {
				lo = mid
			}
		}
		h.angle = lo
	}
	h.tip = h.tipAt(h.angle)
}

// Update runs once per committed state: it places the hook, releases a
// caught wire once the tip stops running away from it, and checks the
// swept area against the carrier's wire.
func (h *Hook) Update(body Body, s *dynamo.State, carrier physics.Carrier) {
	h.place(s)
	mount := s.PosLocalToGlobal(h.Pos)
	tip := s.PosLocalToGlobal(h.tip)
	defer func() {
		h.oldMount, h.oldTip, h.primed = mount, tip, true
	}()

	if carrier == nil {
		return
	}
	if h.caught {
		lrot := s.GlobalToLocal(s.Rot)
		lv := s.GlobalToLocal(s.V)
		if _, opening, ok := h.pull(body, s, lv, lrot, carrier); !ok || opening <= 0 {
			h.caught = false
			carrier.ReleaseWire()
		}
		return
	}
	if !h.primed || h.Extension <= 0 {
		return
	}
	if carrier.CaughtWire([4]mgl64.Vec3{h.oldMount, h.oldTip, tip, mount}) {
		h.caught = true
	}
}

// pull is the unit direction from the tip to the middle of the latched
// wire and the speed at which the tip runs away from it. The wire is
// queried on every call so it moves with the deck.
func (h *Hook) pull(body Body, s *dynamo.State, v, rot mgl64.Vec3, carrier physics.Carrier) (mgl64.Vec3, float64, bool) {
	w, ok := carrier.Wire()
	if !ok {
		return mgl64.Vec3{}, 0, false
	}
	anchor := w.Ends[0].Add(w.Ends[1]).Mul(0.5)
	dir := dynamo.Unit(anchor.Sub(s.PosLocalToGlobal(h.tip)))
	rel := s.LocalToGlobal(body.PointVelocity(h.tip, rot).Add(v)).Sub(h.ground.Vel)
	return dir, -rel.Dot(dir), true
}

// CalcForce applies the wire tension while the hook is caught. The
// tension decelerates the aircraft to rest over the runout and vanishes
// while the tip closes on the wire.
func (h *Hook) CalcForce(body Body, s *dynamo.State, v, rot mgl64.Vec3, carrier physics.Carrier) {
	h.force = mgl64.Vec3{}
	if !h.caught || carrier == nil {
		return
	}
	dir, opening, ok := h.pull(body, s, v, rot, carrier)
	if !ok || opening <= 0 {
		return
	}
	tension := body.TotalMass() * opening * opening / (2 * h.Runout)
	h.force = s.GlobalToLocal(dir.Mul(tension))
}
