package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beamtools/beamtrace/internal/beam"
	"github.com/beamtools/beamtrace/internal/frame"
	"github.com/beamtools/beamtrace/internal/render"
	"github.com/beamtools/beamtrace/internal/store"
)

var (
	analyzeFile     string
	analyzeKeyVals  []string
	analyzeOverlay  string
	analyzeDryRun   bool
	analyzeExposure float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Derive beam center and flux from one measurement and write the results back",
	RunE: func(cmd *cobra.Command, args []string) error {
		kvs, err := parseKeyVals(analyzeKeyVals)
		if err != nil {
			return err
		}
		if err := cfg.ApplyKeyVals(kvs); err != nil {
			return err
		}

		infof("processing input file: %s", analyzeFile)

		result, tree, err := analyzeOne(analyzeFile)
		if err != nil {
			return err
		}

		log.Printf("center of mass (row, col) = (%.3f, %.3f) px", result.CenterOfMass[0], result.CenterOfMass[1])
		log.Printf("weighted center (row, col) = (%.3f, %.3f) px", result.WeightedCenterOfMass[0], result.WeightedCenterOfMass[1])
		log.Printf("flux = %.6g counts/s (integrated %.6g over %.3g s)",
			result.Flux, result.IntegratedIntensity, result.ExposureTime)
		debugf("threshold %.4g, region area %d px, %d region(s)",
			result.Threshold, result.RegionArea, result.RegionCount)

		if analyzeOverlay != "" {
			img, err := render.Overlay(result, 0)
			if err != nil {
				return err
			}
			if err := render.Save(img, analyzeOverlay); err != nil {
				return err
			}
			infof("wrote overlay to %s", analyzeOverlay)
		}

		if analyzeDryRun {
			infof("dry run, skipping write-back")
			return nil
		}
		if tree == nil {
			infof("image input, no measurement tree to write back to")
			return nil
		}

		for _, e := range result.Elements(cfg.ResultGroup) {
			if err := tree.Attach(e); err != nil {
				return fmt.Errorf("write-back of %s failed: %w", e.Destination, err)
			}
		}
		if err := tree.Save(); err != nil {
			return fmt.Errorf("write-back failed: %w", err)
		}

		infof("results written back to %s", analyzeFile)
		return nil
	},
}

// analyzeOne runs the full pipeline on a single input. Image files
// (detector snapshots without a measurement tree) need an exposure time
// from the --exposure flag and have nowhere to write results back to, so
// they return a nil tree.
func analyzeOne(file string) (*beam.Result, *store.Tree, error) {
	if isImage(file) {
		f, err := frame.LoadImage(file)
		if err != nil {
			return nil, nil, err
		}
		stack, err := frame.NewStack([]int{f.Rows, f.Cols}, f.Data)
		if err != nil {
			return nil, nil, err
		}
		result, err := beam.NewAnalyzer(cfg.Params()).Run(stack, analyzeExposure)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", file, err)
		}
		return result, nil, nil
	}

	tree, err := store.Open(file)
	if err != nil {
		return nil, nil, err
	}
	stack, err := tree.Dataset(cfg.DataPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	exposure, err := tree.Scalar(cfg.ExposurePath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}

	result, err := beam.NewAnalyzer(cfg.Params()).Run(stack, exposure)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	return result, tree, nil
}

// isImage reports whether the input is a bare detector snapshot rather
// than a measurement tree.
func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".png", ".tif", ".tiff", ".jpg", ".jpeg":
		return true
	}
	return false
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "filename", "f", "", "input measurement file")
	analyzeCmd.Flags().StringSliceVarP(&analyzeKeyVals, "keyval", "k", nil, "parameter override as key=value (roi_size, vmax, threshold_fraction)")
	analyzeCmd.Flags().StringVar(&analyzeOverlay, "overlay", "", "write a diagnostic overlay PNG to this path")
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "analyze without writing results back")
	analyzeCmd.Flags().Float64Var(&analyzeExposure, "exposure", 0, "exposure time in seconds for bare image inputs")
	analyzeCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(analyzeCmd)
}
