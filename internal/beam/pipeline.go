package beam

import (
	"github.com/beamtools/beamtrace/internal/frame"
	"github.com/beamtools/beamtrace/internal/store"
)

// Default tunables. VMax is the Eiger-style overflow sentinel; anything at
// or above it is a masked, dead or pegged pixel.
const (
	DefaultROISize           = 25
	DefaultVMax              = 1e6
	DefaultThresholdFraction = 1e-4
)

// Params are the pipeline tunables.
type Params struct {
	// ROISize is the half-width in pixels of the square flux-integration
	// window around the weighted beam center.
	ROISize int

	// VMax is the upper bound of the sensor-valid intensity interval.
	VMax float64

	// ThresholdFraction is the fraction of the peak intensity used for
	// foreground segmentation.
	ThresholdFraction float64
}

// DefaultParams returns the standard tunables.
func DefaultParams() Params {
	return Params{
		ROISize:           DefaultROISize,
		VMax:              DefaultVMax,
		ThresholdFraction: DefaultThresholdFraction,
	}
}

// Result is the complete output of one pipeline run.
type Result struct {
	// CenterOfMass is the unweighted centroid (row, col) of the primary
	// foreground region.
	CenterOfMass [2]float64 `json:"center_of_mass"`

	// WeightedCenterOfMass is the intensity-weighted centroid (row, col),
	// the beam-position estimate the flux window is centered on.
	WeightedCenterOfMass [2]float64 `json:"weighted_center_of_mass"`

	// Flux is integrated intensity divided by exposure time, in counts
	// per time unit.
	Flux float64 `json:"flux"`

	// IntegratedIntensity is the raw masked-intensity sum inside the ROI.
	IntegratedIntensity float64 `json:"integrated_intensity"`

	// Threshold is the foreground threshold that was applied.
	Threshold float64 `json:"threshold"`

	// RegionArea is the pixel count of the primary region.
	RegionArea int `json:"region_area"`

	// RegionCount is the number of disjoint foreground components found.
	RegionCount int `json:"region_count"`

	// ROI is the clamped integration window actually summed.
	ROI ROI `json:"-"`

	// ExposureTime is the exposure the flux was normalized by.
	ExposureTime float64 `json:"exposure_time"`

	// Frame is the reduced, validity-masked 2-D frame the run analyzed.
	Frame *frame.Frame `json:"-"`
}

// Analyzer runs the full diagnostic pipeline. It holds no per-run state;
// one Analyzer may serve many frames, concurrently or not.
type Analyzer struct {
	params Params
}

// NewAnalyzer builds an analyzer with the given tunables.
func NewAnalyzer(p Params) *Analyzer {
	return &Analyzer{params: p}
}

// Run analyzes one detector stack and exposure time.
//
// Stages: reduce to 2-D, mask to the sensor-valid interval, segment the
// peak, locate the primary region and its centroids, integrate flux in the
// ROI around the weighted centroid. Any stage failure aborts the run and
// no result is returned.
func (a *Analyzer) Run(s *frame.Stack, exposure float64) (*Result, error) {
	if exposure <= 0 {
		return nil, ErrInvalidExposureTime
	}

	reduced, err := frame.Reduce(s)
	if err != nil {
		return nil, err
	}

	_, masked := ValidityMask(reduced, a.params.VMax)
	threshold := Threshold(masked, a.params.ThresholdFraction)
	foreground := Segment(masked, a.params.ThresholdFraction)

	regions := Label(foreground)
	primary, err := Primary(regions)
	if err != nil {
		return nil, err
	}

	row, col := primary.Centroid()
	wRow, wCol := primary.WeightedCentroid(masked)

	flux, integrated, roi, err := Flux(masked, wRow, wCol, a.params.ROISize, exposure)
	if err != nil {
		return nil, err
	}

	return &Result{
		CenterOfMass:         [2]float64{row, col},
		WeightedCenterOfMass: [2]float64{wRow, wCol},
		Flux:                 flux,
		IntegratedIntensity:  integrated,
		Threshold:            threshold,
		RegionArea:           primary.Area(),
		RegionCount:          len(regions),
		ROI:                  roi,
		ExposureTime:         exposure,
		Frame:                masked,
	}, nil
}

// Result destinations inside the measurement tree.
const (
	// DefaultResultGroup is the group derived beam diagnostics live under.
	DefaultResultGroup = "/entry/sample/beam/beamAnalysis"

	centerLeaf = "centerOfMass"
	fluxLeaf   = "flux"
)

const provenanceNote = "Determined by beamtrace from a beamstop-less measurement; " +
	"validity-masked intensity used for the weighted centroid and flux."

// Elements returns the ordered write-back descriptors for the result,
// rooted at the given group (DefaultResultGroup if empty).
func (r *Result) Elements(group string) []store.Element {
	if group == "" {
		group = DefaultResultGroup
	}
	attrs := map[string]string{"note": provenanceNote}

	return []store.Element{
		{
			Destination:           group + "/" + centerLeaf,
			MinimumDimensionality: 1,
			DataType:              "float32",
			Value:                 []float64{r.CenterOfMass[0], r.CenterOfMass[1]},
			Units:                 "px",
			Attributes:            attrs,
		},
		{
			Destination:           group + "/" + fluxLeaf,
			MinimumDimensionality: 1,
			DataType:              "float64",
			Value:                 r.Flux,
			Units:                 "counts/s",
			Attributes:            attrs,
		},
	}
}
