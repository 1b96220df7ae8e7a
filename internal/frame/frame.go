package frame

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Frame is a single 2-D detector image stored row-major.
type Frame struct {
	Rows int
	Cols int
	Data []float64 // length Rows*Cols
}

// New allocates a zero-filled frame of the given shape.
func New(rows, cols int) *Frame {
	return &Frame{
		Rows: rows,
		Cols: cols,
		Data: make([]float64, rows*cols),
	}
}

// At returns the intensity at (row, col). No bounds checking is performed;
// caller must ensure coordinates are valid.
func (f *Frame) At(row, col int) float64 {
	return f.Data[row*f.Cols+col]
}

// Set stores an intensity at (row, col).
func (f *Frame) Set(row, col int, v float64) {
	f.Data[row*f.Cols+col] = v
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := New(f.Rows, f.Cols)
	copy(out.Data, f.Data)
	return out
}

// Max returns the largest intensity in the frame, or 0 for an empty frame.
func (f *Frame) Max() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return floats.Max(f.Data)
}

// Sum returns the total intensity of the frame.
func (f *Frame) Sum() float64 {
	return floats.Sum(f.Data)
}

// Stats holds summary statistics of a frame's intensity distribution.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// Stats computes min/max/mean/stddev over all pixels.
func (f *Frame) Stats() (*Stats, error) {
	if len(f.Data) == 0 {
		return nil, fmt.Errorf("cannot compute statistics of an empty frame")
	}
	mean, std := stat.MeanStdDev(f.Data, nil)
	return &Stats{
		Min:    floats.Min(f.Data),
		Max:    floats.Max(f.Data),
		Mean:   mean,
		StdDev: std,
	}, nil
}
