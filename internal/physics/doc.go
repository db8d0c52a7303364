// Package physics provides the rigid body and the physical surroundings a
// flight model flies through.
//
//   - [RigidBody]: point masses aggregated into mass, CG and inertia, plus
//     force and torque accumulation
//   - [StandardAtmosphere] and [Air]: ISA pressure, temperature and density
//   - [Frame]: which way is up ([FlatEarth], [Geocentric])
//   - [Ground] and [Carrier]: terrain and deck equipment oracles
//     ([FlatGround], [Deck])
//
// # Mass changes
//
// RigidBody caches its static masses. Any mass mutation must be followed
// by Recalc before the next acceleration query:
//
//	body := physics.NewRigidBody()
//	fuel := body.AddMass(0, tankPos, false)
//	_ = body.SetMass(fuel, 120)
//	if err := body.Recalc(); err != nil {
//	    return err
//	}
package physics
