// Package contact models the parts of an aircraft that touch the ground
// or a carrier deck: landing gear struts with wheel friction, the
// arrestor hook and the catapult launchbar.
package contact
