package airplane

import (
	"fmt"

	"github.com/san-kum/aerodyn/internal/dynamo"
)

// Report publishes the solver results, the fuel state and the pilot
// acceleration, followed by the model's own telemetry.
func (a *Airplane) Report(r dynamo.Reporter) {
	failed := 0.0
	if a.failure != "" {
		failed = 1
	}
	r.Report("solve.iterations", float64(a.iterations))
	r.Report("solve.failed", failed)
	r.Report("solve.drag-coefficient", a.dragFactor)
	r.Report("solve.lift-ratio", a.liftRatio)
	r.Report("solve.cruise-aoa", a.cruise.aoa)
	r.Report("solve.tail-incidence", a.tailIncidence)
	r.Report("solve.approach-elevator", a.ApproachElevator())
	if a.wing != nil {
		r.Report("cg.mac", a.CGMAC())
	}

	r.Report("fuel.total", a.TotalFuel())
	r.Report("fuel.burned", a.fuelBurned)
	for i, t := range a.tanks {
		r.Report(fmt.Sprintf("fuel.tank.%d", i), t.fill)
	}

	acc := a.PilotAccel()
	r.Report("accel.pilot-x", acc[0])
	r.Report("accel.pilot-y", acc[1])
	r.Report("accel.pilot-z", acc[2])

	for i, gr := range a.gears {
		p := gr.g.Pos
		r.Report(fmt.Sprintf("gear.%d.x", i), p[0])
		r.Report(fmt.Sprintf("gear.%d.y", i), p[1])
		r.Report(fmt.Sprintf("gear.%d.z", i), p[2])
	}
	a.model.Report(r)
}
