// Package config holds the tunables and measurement-tree paths for a
// beamtrace run, loaded from an optional YAML file with key=value
// overrides on top.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/beamtools/beamtrace/internal/beam"
)

/* Example config file ...

roi_size: 25
vmax: 1.0e6
threshold_fraction: 1.0e-4
data_path: /entry/data/data_000001
exposure_path: /entry/instrument/detector/count_time
result_group: /entry/sample/beam/beamAnalysis

*/

// Config is the full configuration surface of a run.
type Config struct {
	// ROISize is the flux-window half-width in pixels.
	ROISize int `yaml:"roi_size"`

	// VMax is the upper bound of the sensor-valid intensity interval.
	VMax float64 `yaml:"vmax"`

	// ThresholdFraction is the fraction-of-peak segmentation threshold.
	ThresholdFraction float64 `yaml:"threshold_fraction"`

	// DataPath locates the detector stack in the measurement tree.
	DataPath string `yaml:"data_path"`

	// ExposurePath locates the exposure time in the measurement tree.
	ExposurePath string `yaml:"exposure_path"`

	// ResultGroup is the group derived results are attached under.
	ResultGroup string `yaml:"result_group"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		ROISize:           beam.DefaultROISize,
		VMax:              beam.DefaultVMax,
		ThresholdFraction: beam.DefaultThresholdFraction,
		DataPath:          "/entry/data/data_000001",
		ExposurePath:      "/entry/instrument/detector/count_time",
		ResultGroup:       beam.DefaultResultGroup,
	}
}

// Load reads a YAML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	c := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return c, c.Validate()
}

// ApplyKeyVals overlays command-line key=value overrides. Recognized keys:
// roi_size, vmax, threshold_fraction. Unknown keys are an error so typos
// do not silently leave a default in place.
func (c *Config) ApplyKeyVals(kvs map[string]string) error {
	for k, v := range kvs {
		switch k {
		case "roi_size":
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("roi_size: %w", err)
			}
			c.ROISize = n
		case "vmax":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("vmax: %w", err)
			}
			c.VMax = f
		case "threshold_fraction":
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("threshold_fraction: %w", err)
			}
			c.ThresholdFraction = f
		default:
			return fmt.Errorf("unknown parameter %q", k)
		}
	}
	return c.Validate()
}

// Validate does sanity checks on the tunables.
func (c *Config) Validate() error {
	if c.ROISize < 0 {
		return fmt.Errorf("roi_size must be >= 0, got %d", c.ROISize)
	}
	if c.VMax <= 0 {
		return fmt.Errorf("vmax must be > 0, got %g", c.VMax)
	}
	if c.ThresholdFraction <= 0 {
		return fmt.Errorf("threshold_fraction must be > 0, got %g", c.ThresholdFraction)
	}
	if c.DataPath == "" || c.ExposurePath == "" {
		return fmt.Errorf("data_path and exposure_path must be set")
	}
	return nil
}

// Params extracts the pipeline tunables.
func (c *Config) Params() beam.Params {
	return beam.Params{
		ROISize:           c.ROISize,
		VMax:              c.VMax,
		ThresholdFraction: c.ThresholdFraction,
	}
}
