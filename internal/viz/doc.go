// Package viz draws streamlines in the terminal.
//
// [Canvas] is a braille sub-pixel raster with a world-coordinate view, used
// both for static plots and for the interactive reseeding view started by
// [RunInteractive].
//
// # Key Bindings
//
//	←↑↓→ / hjkl - Move the seed cursor
//	Enter       - Trace from the cursor
//	N           - Toggle arclength normalization
//	T           - Cycle color themes
//	S           - Accept the current seed and exit
//	Esc / Q     - Exit without accepting
package viz
