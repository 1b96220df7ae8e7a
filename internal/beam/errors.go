package beam

import "errors"

var (
	// ErrNoRegionFound indicates that thresholding produced an empty
	// foreground mask, so no beam spot could be located.
	ErrNoRegionFound = errors.New("no foreground region found")

	// ErrInvalidExposureTime indicates a non-positive exposure time.
	ErrInvalidExposureTime = errors.New("exposure time must be positive")
)
