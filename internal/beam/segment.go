package beam

import "github.com/beamtools/beamtrace/internal/frame"

// Threshold computes the foreground threshold max(1, k*peak) for a masked
// frame.
//
// A fixed fraction of the peak is deliberately simpler than a histogram
// auto-threshold: the peak-to-background ratio of a beamstop-less exposure
// is large, so a fraction-of-peak rule is robust without needing a
// well-populated background distribution. The floor of 1 prevents a
// degenerate zero threshold on an empty or all-zero frame.
func Threshold(masked *frame.Frame, k float64) float64 {
	t := k * masked.Max()
	if t < 1 {
		t = 1
	}
	return t
}

// Segment produces the foreground mask: true where masked intensity
// strictly exceeds Threshold(masked, k). An all-zero frame yields an empty
// mask.
func Segment(masked *frame.Frame, k float64) *BitMask {
	t := Threshold(masked, k)
	fg := NewBitMask(masked.Rows, masked.Cols)
	for i, v := range masked.Data {
		if v > t {
			fg.Bits[i] = true
		}
	}
	return fg
}
