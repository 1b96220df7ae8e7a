package frame

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Stack is an N-dimensional detector array stored flat in row-major order.
// The trailing two dimensions are spatial (row, column); any leading
// dimensions are repeated exposures or scan points.
type Stack struct {
	Dims []int
	Data []float64
}

// NewStack wraps flat data in a stack after checking that the data length
// matches the product of the dimensions.
func NewStack(dims []int, data []float64) (*Stack, error) {
	n := 1
	for _, d := range dims {
		if d < 0 {
			return nil, fmt.Errorf("negative dimension %d in stack shape %v", d, dims)
		}
		n *= d
	}
	if n != len(data) {
		return nil, fmt.Errorf("stack shape %v implies %d values, got %d", dims, n, len(data))
	}
	return &Stack{Dims: dims, Data: data}, nil
}

// Rank returns the number of dimensions.
func (s *Stack) Rank() int {
	return len(s.Dims)
}

// ShapeError reports a stack whose rank is too low to reduce to a 2-D frame.
type ShapeError struct {
	Rank int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("cannot reduce rank-%d array to a 2-D frame (need rank >= 2)", e.Rank)
}

// Reduce collapses a stack to a single 2-D frame by repeatedly averaging
// over the leading axis until rank 2 remains.
//
// A rank-2 input is returned as-is with zero averaging passes, so its pixel
// values are exactly the input values. Higher ranks produce a freshly
// allocated frame; the input stack is never modified.
//
// Returns a ShapeError if the stack has rank < 2, and a plain error if a
// leading axis has length zero (there is nothing to average).
func Reduce(s *Stack) (*Frame, error) {
	if s.Rank() < 2 {
		return nil, &ShapeError{Rank: s.Rank()}
	}

	dims := s.Dims
	data := s.Data
	for len(dims) > 2 {
		n := dims[0]
		if n == 0 {
			return nil, fmt.Errorf("cannot average over empty leading axis in shape %v", dims)
		}
		rest := 1
		for _, d := range dims[1:] {
			rest *= d
		}
		out := make([]float64, rest)
		for i := 0; i < n; i++ {
			floats.Add(out, data[i*rest:(i+1)*rest])
		}
		floats.Scale(1/float64(n), out)
		data = out
		dims = dims[1:]
	}

	return &Frame{Rows: dims[0], Cols: dims[1], Data: data}, nil
}
