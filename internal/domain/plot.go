package domain

// Represents a fully scaled plot, ready for a renderer.
// A Plot is created per request and is never mutated after it is built.
type Plot struct {
	Canvas       CanvasSpec
	ScaleX       float64
	ScaleY       float64
	MajorPitchCM float64
	MinorPitchCM float64
	Points       []ScaledPoint
}

// Human-readable description of the per-axis scale.
type ScaleSummary struct {
	X string
	Y string
}
