// Package airplane builds a flyable airframe from its geometry and mass
// description.
//
// Compile slices wings and fuselages into aerodynamic surfaces, spreads
// the empty weight over them, sizes the landing gear and then runs the
// trim solver. The solver scales drag and lift and finds the cruise
// angle of attack and tail incidence at which the airframe is in
// equilibrium both at cruise and on approach. After that, Iterate flies
// the airplane one fixed step at a time.
package airplane
