package dto

import (
	"encoding/json"
	"math"
)

// Number is a float64 that encodes NaN and infinities as JSON null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

type PlotRequest struct {
	XValues      *string  `json:"x_values"`
	YValues      *string  `json:"y_values"`
	CanvasWidth  *float64 `json:"canvas_width"`
	CanvasHeight *float64 `json:"canvas_height"`
}

type PointResponse struct {
	X     Number `json:"x"`
	Y     Number `json:"y"`
	OrigX Number `json:"orig_x"`
	OrigY Number `json:"orig_y"`
}

type PlotResponse struct {
	CanvasWidth  float64         `json:"canvas_width"`
	CanvasHeight float64         `json:"canvas_height"`
	ScaleX       Number          `json:"scale_x"`
	ScaleY       Number          `json:"scale_y"`
	SummaryX     string          `json:"summary_x"`
	SummaryY     string          `json:"summary_y"`
	Points       []PointResponse `json:"points"`
}
