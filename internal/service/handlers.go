package service

import (
	"encoding/json"
	"errors"

	"github.com/beamtools/beamtrace/internal/beam"
	"github.com/beamtools/beamtrace/internal/frame"
	"github.com/beamtools/beamtrace/internal/store"
)

// AnalyzeParams are the parameters of a beam/analyze request.
type AnalyzeParams struct {
	// File is the measurement file to analyze.
	File string `json:"file"`

	// ROISize overrides the configured flux-window half-width when > 0.
	ROISize int `json:"roi_size,omitempty"`

	// Exposure overrides the exposure time stored in the measurement
	// when > 0. Useful for files whose count_time was not translated.
	Exposure float64 `json:"exposure,omitempty"`

	// WriteBack attaches the derived values to the measurement file.
	WriteBack bool `json:"write_back,omitempty"`
}

// InfoParams are the parameters of a beam/info request.
type InfoParams struct {
	File string `json:"file"`
}

// InfoResult describes the reduced frame of a measurement.
type InfoResult struct {
	Rows  int          `json:"rows"`
	Cols  int          `json:"cols"`
	Rank  int          `json:"rank"`
	Stats *frame.Stats `json:"stats"`
}

func (s *Service) handleAnalyze(req *Request) *Response {
	var params AnalyzeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if params.File == "" {
		return errorResponse(req.ID, -32602, "Invalid params", "file is required")
	}

	tree, stack, exposure, err := s.open(params.File)
	if err != nil {
		return errorResponse(req.ID, -32000, "Analysis failed", errData(err))
	}
	if params.Exposure > 0 {
		exposure = params.Exposure
	}

	p := s.cfg.Params()
	if params.ROISize > 0 {
		p.ROISize = params.ROISize
	}

	result, err := beam.NewAnalyzer(p).Run(stack, exposure)
	if err != nil {
		return errorResponse(req.ID, -32000, "Analysis failed", errData(err))
	}

	if params.WriteBack {
		for _, e := range result.Elements(s.cfg.ResultGroup) {
			if err := tree.Attach(e); err != nil {
				return errorResponse(req.ID, -32000, "Write-back failed", errData(err))
			}
		}
		if err := tree.Save(); err != nil {
			return errorResponse(req.ID, -32000, "Write-back failed", errData(err))
		}
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
	}
}

func (s *Service) handleInfo(req *Request) *Response {
	var params InfoParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
	if params.File == "" {
		return errorResponse(req.ID, -32602, "Invalid params", "file is required")
	}

	tree, err := store.Open(params.File)
	if err != nil {
		return errorResponse(req.ID, -32000, "Info failed", errData(err))
	}
	stack, err := tree.Dataset(s.cfg.DataPath)
	if err != nil {
		return errorResponse(req.ID, -32000, "Info failed", errData(err))
	}
	reduced, err := frame.Reduce(stack)
	if err != nil {
		return errorResponse(req.ID, -32000, "Info failed", errData(err))
	}
	stats, err := reduced.Stats()
	if err != nil {
		return errorResponse(req.ID, -32000, "Info failed", errData(err))
	}

	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: &InfoResult{
			Rows:  reduced.Rows,
			Cols:  reduced.Cols,
			Rank:  stack.Rank(),
			Stats: stats,
		},
	}
}

// open reads the detector stack and exposure time from a measurement file.
func (s *Service) open(file string) (*store.Tree, *frame.Stack, float64, error) {
	tree, err := store.Open(file)
	if err != nil {
		return nil, nil, 0, err
	}
	stack, err := tree.Dataset(s.cfg.DataPath)
	if err != nil {
		return nil, nil, 0, err
	}
	exposure, err := tree.Scalar(s.cfg.ExposurePath)
	if err != nil {
		return nil, nil, 0, err
	}
	return tree, stack, exposure, nil
}

// errData maps an analysis error to its JSON-RPC error payload, keeping
// the failure kind machine-readable for orchestrators.
func errData(err error) map[string]interface{} {
	kind := "internal"
	var shapeErr *frame.ShapeError
	switch {
	case errors.Is(err, beam.ErrNoRegionFound):
		kind = "no_region_found"
	case errors.Is(err, beam.ErrInvalidExposureTime):
		kind = "invalid_exposure_time"
	case errors.As(err, &shapeErr):
		kind = "shape_error"
	}
	return map[string]interface{}{
		"kind":    kind,
		"message": err.Error(),
	}
}
