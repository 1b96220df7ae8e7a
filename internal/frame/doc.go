// Package frame provides the in-memory representation of detector data.
//
// A detector acquisition arrives as an N-dimensional stack of intensity
// values: the trailing two dimensions are spatial (row, column) and any
// leading dimensions are repeated exposures or scan points. The package
// reduces a Stack to a single 2-D Frame by iterative averaging over the
// leading axis, and provides basic per-frame statistics.
//
// # Coordinate System
//
// Frames are row-major: position (row, col) with (0, 0) at the top-left
// corner, rows increasing downward, columns increasing rightward. This
// matches the slice order of the acquisition arrays, so a pixel at
// array index [r][c] is At(r, c).
//
// # Units
//
// Reduction uses the arithmetic mean, not the sum, so pixel values keep
// their intensity units regardless of how many repeats were averaged away.
package frame
