// Package render produces diagnostic images of an analysis result: a
// false-color heatmap of the reduced frame with the detected beam center
// and flux window drawn on top. The overlay is a visual sanity check for
// operators, not an input to anything downstream.
package render

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/beamtools/beamtrace/internal/beam"
	"github.com/beamtools/beamtrace/internal/frame"
)

// Heatmap renders a frame as a false-color image. Intensities are
// log-compressed before mapping so the peak does not wash out the
// background, then blended along a dark-blue-to-yellow gradient.
func Heatmap(f *frame.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Cols, f.Rows))

	maxLog := math.Log1p(f.Max())
	cold := colorful.Color{R: 0.05, G: 0.05, B: 0.25}
	hot := colorful.Color{R: 1.0, G: 0.9, B: 0.2}

	for r := 0; r < f.Rows; r++ {
		for c := 0; c < f.Cols; c++ {
			t := 0.0
			if maxLog > 0 {
				v := f.At(r, c)
				if v > 0 {
					t = math.Log1p(v) / maxLog
				}
			}
			img.Set(c, r, cold.BlendLuv(hot, t).Clamped())
		}
	}

	return img
}

// Overlay draws the analysis result over a heatmap of the analyzed frame:
// a cross at the weighted beam center, a dot at the unweighted centroid,
// and the clamped flux window as a rectangle. If maxDim > 0 and the frame
// is larger, the output is downscaled so its longest side is maxDim.
func Overlay(res *beam.Result, maxDim int) (image.Image, error) {
	if res.Frame == nil {
		return nil, fmt.Errorf("result carries no frame to render")
	}

	dc := gg.NewContextForRGBA(Heatmap(res.Frame))

	// Flux window. ROI edges are inclusive pixel indices.
	roi := res.ROI
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(1)
	dc.DrawRectangle(float64(roi.MinCol), float64(roi.MinRow),
		float64(roi.MaxCol-roi.MinCol+1), float64(roi.MaxRow-roi.MinRow+1))
	dc.Stroke()

	// Weighted center: cross. Note gg's x is our column axis.
	wr, wc := res.WeightedCenterOfMass[0], res.WeightedCenterOfMass[1]
	arm := 6.0
	dc.SetRGB(1, 0.2, 0.2)
	dc.SetLineWidth(1.5)
	dc.DrawLine(wc-arm, wr, wc+arm, wr)
	dc.DrawLine(wc, wr-arm, wc, wr+arm)
	dc.Stroke()

	// Unweighted center: small circle.
	dc.SetRGB(0.2, 1, 0.2)
	dc.DrawCircle(res.CenterOfMass[1], res.CenterOfMass[0], 3)
	dc.Stroke()

	out := image.Image(dc.Image())
	b := out.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		if b.Dx() >= b.Dy() {
			out = imaging.Resize(out, maxDim, 0, imaging.Lanczos)
		} else {
			out = imaging.Resize(out, 0, maxDim, imaging.Lanczos)
		}
	}

	return out, nil
}

// Save writes an overlay image as PNG.
func Save(img image.Image, path string) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save overlay %s: %w", path, err)
	}
	return nil
}
