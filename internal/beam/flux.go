package beam

import "github.com/beamtools/beamtrace/internal/frame"

// ROI is the clamped integration window actually used for a flux sum.
// All edges are inclusive.
type ROI struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// WindowROI builds the square window of half-width roiHalf centered on
// (row, col), truncated to the frame bounds on both axes. A beam center
// near the sensor edge is a valid input; the out-of-bounds part of the
// window is simply cut off, there is no wraparound or padding.
func WindowROI(f *frame.Frame, row, col float64, roiHalf int) ROI {
	r := ROI{
		MinRow: int(row) - roiHalf,
		MaxRow: int(row) + roiHalf,
		MinCol: int(col) - roiHalf,
		MaxCol: int(col) + roiHalf,
	}
	if r.MinRow < 0 {
		r.MinRow = 0
	}
	if r.MinCol < 0 {
		r.MinCol = 0
	}
	if r.MaxRow > f.Rows-1 {
		r.MaxRow = f.Rows - 1
	}
	if r.MaxCol > f.Cols-1 {
		r.MaxCol = f.Cols - 1
	}
	return r
}

// Flux integrates masked intensity over the ROI centered on the weighted
// beam center and normalizes by exposure time, yielding a count rate.
//
// Returns the flux, the raw integrated intensity, and the window used.
// Fails with ErrInvalidExposureTime when exposure <= 0.
func Flux(masked *frame.Frame, row, col float64, roiHalf int, exposure float64) (flux, integrated float64, roi ROI, err error) {
	if exposure <= 0 {
		return 0, 0, ROI{}, ErrInvalidExposureTime
	}

	roi = WindowROI(masked, row, col, roiHalf)
	for r := roi.MinRow; r <= roi.MaxRow; r++ {
		for c := roi.MinCol; c <= roi.MaxCol; c++ {
			integrated += masked.At(r, c)
		}
	}

	return integrated / exposure, integrated, roi, nil
}
