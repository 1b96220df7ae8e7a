package beam

import (
	"errors"
	"testing"

	"github.com/beamtools/beamtrace/internal/frame"
)

func maskFrom(t *testing.T, rows, cols int, pixels []Pixel) *BitMask {
	t.Helper()
	m := NewBitMask(rows, cols)
	for _, p := range pixels {
		m.Set(p.Row, p.Col, true)
	}
	return m
}

func TestLabel_SinglePixel(t *testing.T) {
	m := maskFrom(t, 10, 10, []Pixel{{5, 5}})

	regions := Label(m)
	if len(regions) != 1 {
		t.Fatalf("regions: got %d, want 1", len(regions))
	}

	f := frame.New(10, 10)
	f.Set(5, 5, 1000)

	r, c := regions[0].Centroid()
	if r != 5 || c != 5 {
		t.Errorf("Centroid: got (%v,%v), want (5,5)", r, c)
	}
	wr, wc := regions[0].WeightedCentroid(f)
	if wr != 5 || wc != 5 {
		t.Errorf("WeightedCentroid: got (%v,%v), want (5,5)", wr, wc)
	}
}

func TestLabel_DiagonalIsConnected(t *testing.T) {
	// 8-connectivity joins diagonal neighbors into one component
	m := maskFrom(t, 5, 5, []Pixel{{0, 0}, {1, 1}, {2, 2}})

	regions := Label(m)
	if len(regions) != 1 {
		t.Errorf("regions: got %d, want 1 (diagonals are connected)", len(regions))
	}
}

func TestLabel_DisjointComponents(t *testing.T) {
	m := maskFrom(t, 10, 10, []Pixel{
		{1, 1}, {1, 2}, // component A, 2 px
		{7, 7}, {7, 8}, {8, 7}, // component B, 3 px
	})

	regions := Label(m)
	if len(regions) != 2 {
		t.Fatalf("regions: got %d, want 2", len(regions))
	}
	// Row-major discovery order: A first
	if regions[0].Area() != 2 || regions[1].Area() != 3 {
		t.Errorf("areas: got %d,%d, want 2,3", regions[0].Area(), regions[1].Area())
	}
}

func TestPrimary_LargestWins(t *testing.T) {
	m := maskFrom(t, 10, 10, []Pixel{
		{0, 0}, // noise speck, discovered first
		{5, 5}, {5, 6}, {6, 5}, {6, 6}, // the real peak
	})

	primary, err := Primary(Label(m))
	if err != nil {
		t.Fatalf("Primary failed: %v", err)
	}
	if primary.Area() != 4 {
		t.Errorf("primary area: got %d, want 4 (largest component wins)", primary.Area())
	}
	r, c := primary.Centroid()
	if r != 5.5 || c != 5.5 {
		t.Errorf("primary centroid: got (%v,%v), want (5.5,5.5)", r, c)
	}
}

func TestPrimary_TieBreaksToScanOrder(t *testing.T) {
	// Two single-pixel components: the one earlier in row-major order wins
	m := maskFrom(t, 10, 10, []Pixel{{2, 3}, {8, 1}})

	primary, err := Primary(Label(m))
	if err != nil {
		t.Fatalf("Primary failed: %v", err)
	}
	if primary.Pixels[0] != (Pixel{2, 3}) {
		t.Errorf("tie-break: got %v, want {2 3}", primary.Pixels[0])
	}
}

func TestPrimary_EmptyMask(t *testing.T) {
	_, err := Primary(Label(NewBitMask(10, 10)))
	if !errors.Is(err, ErrNoRegionFound) {
		t.Errorf("got %v, want ErrNoRegionFound", err)
	}
}

func TestWeightedCentroid_InsideBoundingBox(t *testing.T) {
	// Asymmetric intensities: the weighted centroid shifts toward the
	// bright pixel but must stay inside the region's bounding box.
	m := maskFrom(t, 10, 10, []Pixel{{4, 4}, {4, 5}, {4, 6}})
	f := frame.New(10, 10)
	f.Set(4, 4, 10)
	f.Set(4, 5, 10)
	f.Set(4, 6, 1000)

	regions := Label(m)
	if len(regions) != 1 {
		t.Fatalf("regions: got %d, want 1", len(regions))
	}
	reg := regions[0]

	wr, wc := reg.WeightedCentroid(f)
	if wr < float64(reg.MinRow) || wr > float64(reg.MaxRow) ||
		wc < float64(reg.MinCol) || wc > float64(reg.MaxCol) {
		t.Errorf("weighted centroid (%v,%v) outside bbox [%d,%d]x[%d,%d]",
			wr, wc, reg.MinRow, reg.MaxRow, reg.MinCol, reg.MaxCol)
	}
	// Must be pulled toward the bright pixel, past the geometric center
	if wc <= 5 {
		t.Errorf("weighted col: got %v, want > 5", wc)
	}
}

func TestWeightedCentroid_ZeroWeightFallsBack(t *testing.T) {
	m := maskFrom(t, 5, 5, []Pixel{{1, 1}, {1, 3}})
	f := frame.New(5, 5) // all-zero intensities

	regions := Label(m)
	wr, wc := regions[0].WeightedCentroid(f)
	r, c := regions[0].Centroid()
	if wr != r || wc != c {
		t.Errorf("zero-weight fallback: got (%v,%v), want unweighted (%v,%v)", wr, wc, r, c)
	}
}

func TestRegionBoundingBox(t *testing.T) {
	m := maskFrom(t, 10, 10, []Pixel{{3, 4}, {4, 4}, {4, 5}, {5, 6}})

	regions := Label(m)
	if len(regions) != 1 {
		t.Fatalf("regions: got %d, want 1", len(regions))
	}
	reg := regions[0]
	if reg.MinRow != 3 || reg.MaxRow != 5 || reg.MinCol != 4 || reg.MaxCol != 6 {
		t.Errorf("bbox: got [%d,%d]x[%d,%d], want [3,5]x[4,6]",
			reg.MinRow, reg.MaxRow, reg.MinCol, reg.MaxCol)
	}
}
