package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCountMismatch is returned when X and Y lists differ in length.
	ErrCountMismatch = errors.New("X/Y count mismatch")

	// ErrNoData is returned when there is nothing to plot.
	ErrNoData = errors.New("no data")
)

// CanvasError reports a canvas dimension outside the accepted range.
type CanvasError struct {
	Field string
	Value float64
}

func (e *CanvasError) Error() string {
	return fmt.Sprintf("canvas %s must be between %g and %g cm (got %g)", e.Field, MinCanvasCM, MaxCanvasCM, e.Value)
}
