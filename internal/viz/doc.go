// Package viz renders a running particle simulation in the terminal.
//
// The live view is a Bubble Tea model that steps a [sim.Runner] on a 60 Hz
// tick and draws the particles on a Braille [Canvas], with a stats panel
// and a kinetic energy chart beside it.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	B     - Burst-spawn particles
//	R     - Reset to an empty world
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
