package frame

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// LoadImage decodes an image file into an intensity frame.
//
// Detector snapshots are commonly exported as 16-bit grayscale TIFF or PNG;
// for those the full 16-bit counts are preserved. Anything else is reduced
// to luminance using ITU-R BT.601 weights over the 16-bit channel values.
//
// This path exists for analyzing a bare detector export that has no
// surrounding measurement tree; exposure time must then come from the
// caller.
func LoadImage(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return FromImage(img), nil
}

// FromImage converts a decoded image into an intensity frame.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	out := New(bounds.Dy(), bounds.Dx())

	switch src := img.(type) {
	case *image.Gray16:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				out.Set(y-bounds.Min.Y, x-bounds.Min.X, float64(src.Gray16At(x, y).Y))
			}
		}
	case *image.Gray:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				out.Set(y-bounds.Min.Y, x-bounds.Min.X, float64(src.GrayAt(x, y).Y))
			}
		}
	default:
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
				out.Set(y-bounds.Min.Y, x-bounds.Min.X, lum)
			}
		}
	}

	return out
}
