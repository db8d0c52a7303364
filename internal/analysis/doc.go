// Package analysis finds the oscillation modes in recorded flight
// histories.
//
// The dominant period of a pitch history separates the short period
// mode (a second or two) from the phugoid (tens of seconds):
//
//	period, ok := analysis.DominantPeriod(pitch, 0.1)
//	if ok && period > 10 {
//	    // phugoid
//	}
package analysis
