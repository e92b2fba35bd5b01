package domain

// Accepted range for each canvas dimension, in centimeters.
const (
	MinCanvasCM = 1.0
	MaxCanvasCM = 100.0
)

// Grid pitches of the millimeter paper, in centimeters.
const (
	MajorPitchCM = 1.0
	MinorPitchCM = 0.1
)

// MaxPixelsPerCM bounds raster resolution so the largest canvas stays
// around 5000 pixels per side.
const MaxPixelsPerCM = 50.0

// Physical drawing area in centimeters.
type CanvasSpec struct {
	WidthCM  float64
	HeightCM float64
}

// Validate checks both dimensions against [MinCanvasCM, MaxCanvasCM].
func (c CanvasSpec) Validate() error {
	if err := checkDimension("width", c.WidthCM); err != nil {
		return err
	}
	return checkDimension("height", c.HeightCM)
}

func checkDimension(field string, v float64) error {
	// Written so NaN fails the check.
	if !(v >= MinCanvasCM && v <= MaxCanvasCM) {
		return &CanvasError{Field: field, Value: v}
	}
	return nil
}
