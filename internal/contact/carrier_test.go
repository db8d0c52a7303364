package contact_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/aerodyn/internal/contact"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

type body struct{ mass float64 }

func (b body) PointVelocity(pos, rot mgl64.Vec3) mgl64.Vec3 { return rot.Cross(pos) }
func (b body) TotalMass() float64                           { return b.mass }

func stateAt(x, z float64) *dynamo.State {
	s := dynamo.NewState()
	s.Pos = mgl64.Vec3{x, 0, z}
	return &s
}

var _ = Describe("Hook", func() {
	var (
		deck *physics.Deck
		hook *contact.Hook
		jet  body
	)

	update := func(s *dynamo.State) {
		hook.SetGround(deck.GroundPlane(s.PosLocalToGlobal(hook.Pos)))
		hook.Update(jet, s, deck)
	}

	BeforeEach(func() {
		deck = physics.NewDeck(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{})
		hook = contact.NewHook()
		hook.Pos = mgl64.Vec3{-3, 0, -0.5}
		hook.Length = 1.5
		hook.DownAngle = math.Pi / 4
		hook.Extension = 1
		jet = body{mass: 15000}
	})

	It("rests on the deck instead of passing through it", func() {
		s := stateAt(-97, 21.2)
		update(s)
		tip := s.PosLocalToGlobal(hook.TipPosition())
		Expect(tip[2]).To(BeNumerically("~", 20, 1e-6))
		Expect(hook.Angle()).To(BeNumerically("<", math.Pi/4))
	})

	It("hangs at the down angle in free air", func() {
		update(stateAt(-300, 200))
		Expect(hook.Angle()).To(BeNumerically("~", math.Pi/4, 1e-12))
	})

	Context("when the tip sweeps across the wire", func() {
		BeforeEach(func() {
			update(stateAt(-97, 21.2))
			update(stateAt(-94, 21.2))
		})

		It("catches the wire", func() {
			Expect(hook.Caught()).To(BeTrue())
			_, latched := deck.Wire()
			Expect(latched).To(BeTrue())
		})

		It("pulls back while the aircraft runs away from the wire", func() {
			s := stateAt(-94, 21.2)
			v := mgl64.Vec3{60, 0, 0}
			hook.CalcForce(jet, s, v, mgl64.Vec3{}, deck)
			f := hook.Force()
			Expect(f[0]).To(BeNumerically("<", 0))
			want := jet.mass * 60 * 60 / (2 * contact.DefaultRunout)
			Expect(f.Len()).To(BeNumerically("~", want, want*0.02))
		})

		It("holds on while a trial state closes on the wire", func() {
			hook.CalcForce(jet, stateAt(-94, 21.2), mgl64.Vec3{-0.5, 0, 0}, mgl64.Vec3{}, deck)
			Expect(hook.Force()).To(Equal(mgl64.Vec3{}))
			Expect(hook.Caught()).To(BeTrue())
			_, latched := deck.Wire()
			Expect(latched).To(BeTrue())
		})

		It("releases once a committed state closes on the wire", func() {
			s := stateAt(-94, 21.2)
			s.V = mgl64.Vec3{-0.5, 0, 0}
			update(s)
			Expect(hook.Caught()).To(BeFalse())
			_, latched := deck.Wire()
			Expect(latched).To(BeFalse())
		})
	})

	It("pulls toward the wire where the deck has carried it", func() {
		deck = physics.NewDeck(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{0, 12, 0})
		v := mgl64.Vec3{20, 12, 0}
		for _, x := range []float64{-97, -94} {
			s := stateAt(x, 21.2)
			s.V = v
			update(s)
		}
		Expect(hook.Caught()).To(BeTrue())

		for i := 0; i < 150; i++ {
			deck.Advance(1.0 / 30)
		}
		s := stateAt(-94, 21.2)
		s.Pos[1] = 60
		s.V = v
		update(s)
		Expect(hook.Caught()).To(BeTrue())

		hook.CalcForce(jet, s, v, mgl64.Vec3{}, deck)
		f := hook.Force()
		Expect(f[0]).To(BeNumerically("<", 0))
		Expect(math.Abs(f[1])).To(BeNumerically("<", 1e-6*f.Len()))
	})

	It("misses the wire with the hook up", func() {
		hook.Extension = 0
		update(stateAt(-97, 21.2))
		update(stateAt(-94, 21.2))
		Expect(hook.Caught()).To(BeFalse())
	})
})

var _ = Describe("Launchbar", func() {
	var (
		deck      *physics.Deck
		bar       *contact.Launchbar
		jet       body
		onShuttle *dynamo.State
	)

	BeforeEach(func() {
		deck = physics.NewDeck(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{})
		bar = contact.NewLaunchbar()
		bar.Pos = mgl64.Vec3{2, 0, -1}
		bar.DownAngle = 0.5
		bar.Extension = 1
		jet = body{mass: 15000}

		tip := mgl64.Vec3{2 + math.Cos(0.5), 0, -1 - math.Sin(0.5)}
		onShuttle = stateAt(40-tip[0], 20-tip[2])
	})

	It("starts unmounted", func() {
		Expect(bar.State()).To(Equal(contact.Unmounted))
	})

	It("stays unmounted away from the catapult", func() {
		bar.Update(stateAt(0, 22), deck)
		Expect(bar.State()).To(Equal(contact.Unmounted))
	})

	It("walks through arrest, launch and completion", func() {
		bar.Update(onShuttle, deck)
		Expect(bar.State()).To(Equal(contact.Arrested))

		bar.CalcForce(jet, onShuttle, mgl64.Vec3{}, mgl64.Vec3{}, deck)
		Expect(bar.Force().Len()).To(BeNumerically("<", 1e-6))

		ahead := stateAt(onShuttle.Pos[0]+0.1, onShuttle.Pos[2])
		bar.CalcForce(jet, ahead, mgl64.Vec3{}, mgl64.Vec3{}, deck)
		Expect(bar.Force()[0]).To(BeNumerically("<", 0))

		bar.Update(onShuttle, deck)
		Expect(bar.State()).To(Equal(contact.Arrested))

		bar.SetLaunchCmd(true)
		bar.Update(onShuttle, deck)
		Expect(bar.State()).To(Equal(contact.Launch))

		bar.CalcForce(jet, onShuttle, mgl64.Vec3{}, mgl64.Vec3{}, deck)
		Expect(bar.Force()[0]).To(BeNumerically("~", jet.mass*bar.Acceleration, 1e-6))

		bar.Update(stateAt(onShuttle.Pos[0]+60, onShuttle.Pos[2]), deck)
		Expect(bar.State()).To(Equal(contact.Launch))

		bar.Update(stateAt(onShuttle.Pos[0]+81, onShuttle.Pos[2]), deck)
		Expect(bar.State()).To(Equal(contact.Completed))

		bar.CalcForce(jet, onShuttle, mgl64.Vec3{}, mgl64.Vec3{}, deck)
		Expect(bar.Force()).To(Equal(mgl64.Vec3{}))
	})

	It("rides a moving deck without holdback force and launches along it", func() {
		deck = physics.NewDeck(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{12, 0, 0})
		s := *onShuttle
		s.V = mgl64.Vec3{12, 0, 0}
		ride := func(steps int) {
			for i := 0; i < steps; i++ {
				deck.Advance(1.0 / 30)
				s.Pos = s.Pos.Add(s.V.Mul(1.0 / 30))
				bar.Update(&s, deck)
			}
		}

		bar.Update(&s, deck)
		Expect(bar.State()).To(Equal(contact.Arrested))
		ride(90)
		Expect(bar.State()).To(Equal(contact.Arrested))

		bar.CalcForce(jet, &s, s.V, mgl64.Vec3{}, deck)
		Expect(bar.Force().Len()).To(BeNumerically("<", 1e-3))

		bar.SetLaunchCmd(true)
		bar.Update(&s, deck)
		Expect(bar.State()).To(Equal(contact.Launch))
		ride(30)

		// 60 m down a catapult that has itself moved on
		s.Pos[0] += 60
		bar.Update(&s, deck)
		Expect(bar.State()).To(Equal(contact.Launch))
		s.Pos[0] += 21
		bar.Update(&s, deck)
		Expect(bar.State()).To(Equal(contact.Completed))
	})

	It("unmounts when retracted", func() {
		bar.Update(onShuttle, deck)
		Expect(bar.State()).To(Equal(contact.Arrested))
		bar.Extension = 0
		bar.Update(onShuttle, deck)
		Expect(bar.State()).To(Equal(contact.Unmounted))
	})

	It("ignores the launch command before it is arrested", func() {
		bar.SetLaunchCmd(true)
		bar.Update(stateAt(0, 22), deck)
		Expect(bar.State()).To(Equal(contact.Unmounted))
	})
})
