package beam

import "github.com/beamtools/beamtrace/internal/frame"

// BitMask is a 2-D boolean mask with the same shape as a frame.
type BitMask struct {
	Rows int
	Cols int
	Bits []bool // row-major, length Rows*Cols
}

// NewBitMask allocates an all-false mask of the given shape.
func NewBitMask(rows, cols int) *BitMask {
	return &BitMask{
		Rows: rows,
		Cols: cols,
		Bits: make([]bool, rows*cols),
	}
}

// At reports whether (row, col) is set. No bounds checking is performed.
func (m *BitMask) At(row, col int) bool {
	return m.Bits[row*m.Cols+col]
}

// Set marks (row, col).
func (m *BitMask) Set(row, col int, v bool) {
	m.Bits[row*m.Cols+col] = v
}

// Count returns the number of set pixels.
func (m *BitMask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// ValidityMask splits a frame into a sensor-validity mask and a masked copy.
//
// The mask is true exactly where intensity lies in the closed interval
// [0, vmax]; the masked frame equals the input where valid and zero
// elsewhere. The input frame is not modified. If every pixel is invalid the
// masked frame is all-zero, which downstream thresholding handles without
// dividing by zero.
func ValidityMask(f *frame.Frame, vmax float64) (*BitMask, *frame.Frame) {
	mask := NewBitMask(f.Rows, f.Cols)
	masked := frame.New(f.Rows, f.Cols)
	for i, v := range f.Data {
		if v >= 0 && v <= vmax {
			mask.Bits[i] = true
			masked.Data[i] = v
		}
	}
	return mask, masked
}
