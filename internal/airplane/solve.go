package airplane

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/aerodyn/internal/dynamo"
	"github.com/san-kum/aerodyn/internal/physics"
)

const (
	arcMin     = 0.0002909
	solveTweak = 0.3226
	elevDiddle = 0.001

	maxIterations = 10000

	// angle corrections wait until both factors are within 10%
	factorGate      = 1.1
	factorTolerance = 1e-5
	angleTolerance  = 1.7e-5
	elevTolerance   = 1e-4
	maxTrimAngle    = 0.175
	maxSolvedAngle  = 0.17453293

	// factors used when there is no wing and tail pair to solve
	defaultDragFactor = 15.7 / 1000
	defaultLiftFactor = 104.0
)

// Failure messages recorded on the airplane.
const (
	msgNoConverge      = "Solution failed to converge after 10000 iterations"
	msgDragNonPositive = "Drag factor is non-positive"
	msgLiftNonPositive = "Lift factor is non-positive"
	msgElevator        = "Insufficient elevator to trim for approach"
	msgDragBounds      = "Drag factor beyond reasonable bounds."
	msgLiftBounds      = "Lift ratio beyond reasonable bounds."
	msgCruiseAoA       = "Cruise AoA > 10 degrees"
	msgTailIncidence   = "Tail incidence > 10 degrees"
	msgZeroFuselage    = "Zero length fuselage"
)

// normFactor folds a factor onto [1, inf) so that f and 1/f are equally
// far from unity.
func normFactor(f float64) float64 {
	f = math.Abs(f)
	if f < 1 {
		f = 1 / f
	}
	return f
}

// loadControls resets the control map to a configuration's settings and
// applies them without rate limiting.
func (a *Airplane) loadControls(cfg *flightConfig) {
	a.controls.Reset()
	for _, c := range cfg.controls {
		a.controls.SetInput(c.input, c.val)
	}
	if cfg.approach && a.elevator != nil {
		a.controls.SetInput(a.elevator.input, a.elevator.val)
	}
	a.controls.ApplyControls(0)
}

// setupWeights empties the adjustable weights and loads the ones the
// solver was told to carry in this configuration.
func (a *Airplane) setupWeights(approach bool) {
	for i := range a.weights {
		a.SetWeight(i, 0)
	}
	for _, w := range a.solveWeights {
		if w.approach == approach && w.idx >= 0 && w.idx < len(a.weights) {
			a.SetWeight(w.idx, w.wgt)
		}
	}
}

// runConfig puts the airplane in a reference condition and evaluates the
// forces on it once. The results are read back from the body.
func (a *Airplane) runConfig(cfg *flightConfig) error {
	if !cfg.approach {
		cfg.state.SetupOrientationFromAoA(cfg.aoa)
	}
	cfg.state.SetupSpeedAndPosition(cfg.speed, cfg.glide, cfg.altitude)
	a.model.SetState(cfg.state)
	a.model.SetStandardAtmosphere(cfg.altitude)
	a.loadControls(cfg)

	wind := cfg.state.GlobalToLocal(cfg.state.V.Mul(-1))

	a.SetFuelFraction(cfg.fuel)
	a.setupWeights(cfg.approach)

	air := physics.StandardAtmosphere(cfg.altitude)
	for _, tr := range a.thrusters {
		tr.t.SetFuel(true)
		tr.t.SetWind(wind)
		tr.t.SetAir(air)
		tr.t.Stabilize()
	}
	a.updateGearState()

	body := a.model.Body()
	if err := body.Recalc(); err != nil {
		return fmt.Errorf("mass properties: %w", err)
	}
	body.Reset()
	body.SetSpin(mgl64.Vec3{})
	a.model.InitIteration()
	a.model.CalcForces(&cfg.state)
	return nil
}

// globalAccel and globalAngularAccel read the body's response to the last
// runConfig in the configuration's global frame.
func (a *Airplane) globalAccel(cfg *flightConfig) mgl64.Vec3 {
	return cfg.state.LocalToGlobal(a.model.Body().Accel())
}

func (a *Airplane) globalAngularAccel(cfg *flightConfig) mgl64.Vec3 {
	return cfg.state.LocalToGlobal(a.model.Body().AngularAccel())
}

// applyDragFactor moves the drag of every solver-tuned surface a damped
// step toward factor.
func (a *Airplane) applyDragFactor(factor float64) {
	applied := math.Pow(factor, solveTweak)
	a.dragFactor *= applied
	for _, w := range a.liftingSurfaces() {
		w.SetDragScale(w.DragScale() * applied)
	}
	for _, f := range a.fuselages {
		for _, s := range f.surfs {
			s.SetXDrag(s.XDrag() * applied)
		}
	}
	for _, w := range a.weights {
		w.surf.SetTotalDrag(w.surf.TotalDrag() * applied)
	}
	for _, gr := range a.gears {
		if gr.surf != nil {
			gr.surf.SetTotalDrag(gr.surf.TotalDrag() * applied)
		}
	}
}

func (a *Airplane) applyLiftRatio(factor float64) {
	applied := math.Pow(factor, solveTweak)
	a.liftRatio *= applied
	for _, w := range a.liftingSurfaces() {
		w.SetLiftRatio(w.LiftRatio() * applied)
	}
}

// applyDefaultFactors stands in for the solver on airframes without a
// wing and tail pair.
func (a *Airplane) applyDefaultFactors() {
	a.iterations = 0
	a.failure = ""
	a.applyDragFactor(math.Pow(defaultDragFactor, 1/solveTweak))
	a.applyLiftRatio(math.Pow(defaultLiftFactor, 1/solveTweak))

	s := dynamo.NewState()
	a.cruise.state = s
	a.model.SetState(s)
	a.setupWeights(true)
	a.controls.Reset()
	a.model.Body().Reset()
	a.model.SetStandardAtmosphere(a.cruise.altitude)
}

// solve finds the drag and lift scaling, cruise AoA and tail incidence
// (and the approach elevator when one is configured) for which the
// airplane is in equilibrium at both reference conditions. Each pass
// measures the residual forces and moments, estimates their derivatives
// by small perturbations, and moves every unknown a damped step toward
// its root.
func (a *Airplane) solve() {
	a.iterations = 0
	a.failure = ""
	g := physics.Gravity

	for {
		if a.iterations >= maxIterations {
			a.failure = msgNoConverge
			return
		}
		a.iterations++

		if err := a.runConfig(&a.cruise); err != nil {
			a.failure = err.Error()
			return
		}
		thrust := a.model.Thrust()[0] + a.cruise.weight*math.Sin(a.cruise.glide)*g
		acc := a.globalAccel(&a.cruise)
		xforce := a.cruise.weight * acc[0]
		clift0 := a.cruise.weight * acc[2]
		pitch0 := a.globalAngularAccel(&a.cruise)[1]

		if err := a.runConfig(&a.approach); err != nil {
			a.failure = err.Error()
			return
		}
		apitch0 := a.globalAngularAccel(&a.approach)[1]
		alift := a.approach.weight * a.globalAccel(&a.approach)[2]

		a.cruise.aoa += arcMin
		err := a.runConfig(&a.cruise)
		a.cruise.aoa -= arcMin
		if err != nil {
			a.failure = err.Error()
			return
		}
		clift1 := a.cruise.weight * a.globalAccel(&a.cruise)[2]

		a.tail.SetIncidence(a.tailIncidence + arcMin)
		err = a.runConfig(&a.cruise)
		a.tail.SetIncidence(a.tailIncidence)
		if err != nil {
			a.failure = err.Error()
			return
		}
		pitch1 := a.globalAngularAccel(&a.cruise)[1]

		awgt := g * a.approach.weight
		dragFactor := thrust / (thrust - xforce)
		liftFactor := awgt / (awgt + alift)
		aoaDelta := -clift0 * (arcMin / (clift1 - clift0))
		tailDelta := -pitch0 * (arcMin / (pitch1 - pitch0))

		if !(dragFactor > 0) {
			a.failure = msgDragNonPositive
			return
		}
		if !(liftFactor > 0) {
			a.failure = msgLiftNonPositive
			return
		}

		// the elevator trims the approach pitching moment the same way
		// the tail incidence trims cruise
		elevDelta := 0.0
		if a.elevator != nil {
			a.elevator.val += elevDiddle
			err = a.runConfig(&a.approach)
			a.elevator.val -= elevDiddle
			if err != nil {
				a.failure = err.Error()
				return
			}
			apitch1 := a.globalAngularAccel(&a.approach)[1]
			elevDelta = -apitch0 * (elevDiddle / (apitch1 - apitch0))
		}

		a.applyDragFactor(dragFactor)
		a.applyLiftRatio(liftFactor)

		a.log.Debug("trim iteration",
			"n", a.iterations,
			"drag", dragFactor,
			"lift", liftFactor,
			"aoa", a.cruise.aoa,
			"tail", a.tailIncidence,
			"elevator", a.ApproachElevator(),
		)

		if normFactor(dragFactor) > factorGate || normFactor(liftFactor) > factorGate {
			continue
		}

		a.cruise.aoa = dynamo.Clamp(a.cruise.aoa+solveTweak*aoaDelta, -maxTrimAngle, maxTrimAngle)
		a.tailIncidence = dynamo.Clamp(a.tailIncidence+solveTweak*tailDelta, -maxTrimAngle, maxTrimAngle)
		a.tail.SetIncidence(a.tailIncidence)

		if math.Abs(dragFactor-1) < factorTolerance &&
			math.Abs(liftFactor-1) < factorTolerance &&
			math.Abs(aoaDelta) < angleTolerance &&
			math.Abs(tailDelta) < angleTolerance {
			if a.elevator == nil || math.Abs(elevDelta) < elevTolerance {
				break
			}
			a.elevator.val += solveTweak * elevDelta
			if math.Abs(a.elevator.val) > 1 {
				a.failure = msgElevator
				return
			}
		}
	}

	switch {
	case a.dragFactor < 1e-6 || a.dragFactor > 1e6:
		a.failure = msgDragBounds
	case a.liftRatio < 1e-4 || a.liftRatio > 1e4:
		a.failure = msgLiftBounds
	case math.Abs(a.cruise.aoa) >= maxSolvedAngle:
		a.failure = msgCruiseAoA
	case math.Abs(a.tailIncidence) >= maxSolvedAngle:
		a.failure = msgTailIncidence
	}
}
