package beam

import "github.com/beamtools/beamtrace/internal/frame"

// Pixel is a single (row, col) position in a frame.
type Pixel struct {
	Row int
	Col int
}

// Region is one connected component of the foreground mask.
type Region struct {
	// Pixels lists the member pixels in flood-fill visit order. The first
	// pixel is the component's earliest pixel in row-major scan order.
	Pixels []Pixel

	// Bounding box, inclusive on all edges.
	MinRow, MinCol int
	MaxRow, MaxCol int
}

// Area returns the region's pixel count.
func (r *Region) Area() int {
	return len(r.Pixels)
}

// Centroid returns the unweighted centroid: the arithmetic-mean (row, col)
// position of the member pixels, each weighted equally.
func (r *Region) Centroid() (row, col float64) {
	var sumR, sumC float64
	for _, p := range r.Pixels {
		sumR += float64(p.Row)
		sumC += float64(p.Col)
	}
	n := float64(len(r.Pixels))
	return sumR / n, sumC / n
}

// WeightedCentroid returns the centroid weighted by each member pixel's
// intensity in the given frame. If the total weight is zero the unweighted
// centroid is returned instead.
func (r *Region) WeightedCentroid(intensity *frame.Frame) (row, col float64) {
	var sumR, sumC, total float64
	for _, p := range r.Pixels {
		w := intensity.At(p.Row, p.Col)
		sumR += w * float64(p.Row)
		sumC += w * float64(p.Col)
		total += w
	}
	if total == 0 {
		return r.Centroid()
	}
	return sumR / total, sumC / total
}

// Label groups the set pixels of a mask into 8-connected components.
//
// The mask is scanned in row-major order and each unvisited set pixel seeds
// an iterative flood fill, so the returned regions are ordered by the
// position of their first pixel. Returns nil for an empty mask.
func Label(m *BitMask) []Region {
	visited := make([]bool, len(m.Bits))
	var regions []Region

	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			idx := row*m.Cols + col
			if !m.Bits[idx] || visited[idx] {
				continue
			}
			regions = append(regions, fill(m, visited, row, col))
		}
	}

	return regions
}

// fill performs stack-based flood fill from a seed pixel, marking visited
// pixels and collecting the component. 8-connectivity includes diagonals.
func fill(m *BitMask, visited []bool, seedRow, seedCol int) Region {
	reg := Region{
		MinRow: seedRow, MaxRow: seedRow,
		MinCol: seedCol, MaxCol: seedCol,
	}

	stack := []Pixel{{Row: seedRow, Col: seedCol}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.Row < 0 || p.Row >= m.Rows || p.Col < 0 || p.Col >= m.Cols {
			continue
		}
		idx := p.Row*m.Cols + p.Col
		if visited[idx] || !m.Bits[idx] {
			continue
		}

		visited[idx] = true
		reg.Pixels = append(reg.Pixels, p)
		if p.Row < reg.MinRow {
			reg.MinRow = p.Row
		}
		if p.Row > reg.MaxRow {
			reg.MaxRow = p.Row
		}
		if p.Col < reg.MinCol {
			reg.MinCol = p.Col
		}
		if p.Col > reg.MaxCol {
			reg.MaxCol = p.Col
		}

		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				stack = append(stack, Pixel{Row: p.Row + dr, Col: p.Col + dc})
			}
		}
	}

	return reg
}

// Primary selects the region the analysis should use when the mask contains
// more than one component: the one with the largest pixel count. Ties break
// toward the component discovered first in row-major scan order, which makes
// the choice deterministic for any input.
//
// Returns ErrNoRegionFound when no regions exist.
func Primary(regions []Region) (*Region, error) {
	if len(regions) == 0 {
		return nil, ErrNoRegionFound
	}
	best := 0
	for i := 1; i < len(regions); i++ {
		if regions[i].Area() > regions[best].Area() {
			best = i
		}
	}
	return &regions[best], nil
}
