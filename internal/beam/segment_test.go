package beam

import (
	"testing"

	"github.com/beamtools/beamtrace/internal/frame"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		name string
		peak float64
		k    float64
		want float64
	}{
		{"all zero floors at 1", 0, 1e-4, 1},
		{"small peak floors at 1", 100, 1e-4, 1},
		{"large peak scales", 1e6, 1e-4, 100},
		{"exactly at floor", 1e4, 1e-4, 1},
		{"big fraction", 10, 0.5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frame.New(2, 2)
			f.Set(1, 1, tt.peak)
			if got := Threshold(f, tt.k); got != tt.want {
				t.Errorf("Threshold: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSegment_AllZeroYieldsEmptyMask(t *testing.T) {
	f := frame.New(4, 4)

	fg := Segment(f, 1e-4)

	if got := fg.Count(); got != 0 {
		t.Errorf("foreground count: got %d, want 0 (all-zero frame must not segment)", got)
	}
}

func TestSegment_StrictlyAboveThreshold(t *testing.T) {
	f := frame.New(1, 3)
	f.Set(0, 0, 1)     // equals the floor threshold, excluded
	f.Set(0, 1, 1.01)  // strictly above, included
	f.Set(0, 2, 0.5)   // below, excluded

	fg := Segment(f, 1e-4)

	if fg.At(0, 0) {
		t.Error("pixel equal to threshold must not be foreground")
	}
	if !fg.At(0, 1) {
		t.Error("pixel above threshold must be foreground")
	}
	if fg.At(0, 2) {
		t.Error("pixel below threshold must not be foreground")
	}
}

func TestSegment_IsolatesPeak(t *testing.T) {
	f := frame.New(10, 10)
	// Low background everywhere, bright peak at (4,5)
	for i := range f.Data {
		f.Data[i] = 2
	}
	f.Set(4, 5, 1e5)

	fg := Segment(f, 1e-4)

	// threshold = max(1, 10) = 10: only the peak survives
	if got := fg.Count(); got != 1 {
		t.Fatalf("foreground count: got %d, want 1", got)
	}
	if !fg.At(4, 5) {
		t.Error("peak pixel not in foreground")
	}
}
