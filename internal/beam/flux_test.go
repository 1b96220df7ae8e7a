package beam

import (
	"errors"
	"testing"

	"github.com/beamtools/beamtrace/internal/frame"
)

func onesFrame(rows, cols int) *frame.Frame {
	f := frame.New(rows, cols)
	for i := range f.Data {
		f.Data[i] = 1
	}
	return f
}

func TestFlux_CenteredWindow(t *testing.T) {
	f := onesFrame(100, 100)

	flux, integrated, roi, err := Flux(f, 50, 50, 25, 2.0)
	if err != nil {
		t.Fatalf("Flux failed: %v", err)
	}

	// Window [25,75]x[25,75] inclusive: 51x51 = 2601 pixels of 1
	if integrated != 2601 {
		t.Errorf("integrated: got %v, want 2601", integrated)
	}
	if flux != 1300.5 {
		t.Errorf("flux: got %v, want 1300.5", flux)
	}
	if roi.MinRow != 25 || roi.MaxRow != 75 || roi.MinCol != 25 || roi.MaxCol != 75 {
		t.Errorf("roi: got %+v, want [25,75]x[25,75]", roi)
	}
}

func TestFlux_EdgeWindowClamps(t *testing.T) {
	f := onesFrame(100, 100)

	_, integrated, roi, err := Flux(f, 2, 2, 25, 1.0)
	if err != nil {
		t.Fatalf("Flux failed: %v", err)
	}

	// Window clamps to rows/cols [0,27]: 28x28 in-bounds pixels only
	if roi.MinRow != 0 || roi.MaxRow != 27 || roi.MinCol != 0 || roi.MaxCol != 27 {
		t.Errorf("roi: got %+v, want [0,27]x[0,27]", roi)
	}
	if integrated != 28*28 {
		t.Errorf("integrated: got %v, want %d", integrated, 28*28)
	}
}

func TestFlux_CornerWindowClamps(t *testing.T) {
	f := onesFrame(50, 50)

	_, integrated, roi, err := Flux(f, 49, 49, 10, 1.0)
	if err != nil {
		t.Fatalf("Flux failed: %v", err)
	}
	if roi.MaxRow != 49 || roi.MaxCol != 49 {
		t.Errorf("roi: got %+v, want clamped to [39,49]x[39,49]", roi)
	}
	if integrated != 11*11 {
		t.Errorf("integrated: got %v, want %d", integrated, 11*11)
	}
}

func TestFlux_InvalidExposure(t *testing.T) {
	f := onesFrame(10, 10)

	tests := []struct {
		name     string
		exposure float64
		wantErr  bool
	}{
		{"zero", 0, true},
		{"negative", -1.0, true},
		{"tiny positive", 1e-9, false},
		{"positive", 2.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := Flux(f, 5, 5, 2, tt.exposure)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExposureTime) {
					t.Errorf("got %v, want ErrInvalidExposureTime", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFlux_FractionalCentroidTruncates(t *testing.T) {
	f := onesFrame(20, 20)

	// int() truncation: centroid (10.9, 10.9) anchors the window at 10
	_, _, roi, err := Flux(f, 10.9, 10.9, 2, 1.0)
	if err != nil {
		t.Fatalf("Flux failed: %v", err)
	}
	if roi.MinRow != 8 || roi.MaxRow != 12 {
		t.Errorf("roi rows: got [%d,%d], want [8,12]", roi.MinRow, roi.MaxRow)
	}
}
