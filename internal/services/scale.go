package services

import (
	"fmt"
	"graph-paper-service/internal/domain"
)

// Compute the scale factor that maps the largest value onto the canvas dimension.
//
// The maximum uses natural ordering, not absolute value: a list of only
// negative numbers produces a negative factor. A maximum of exactly zero
// yields 1.0 so the data is drawn unscaled.
func ComputeScale(values []float64, canvasDimension float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("compute scale: %w", domain.ErrNoData)
	}

	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}

	if m == 0 {
		return 1.0, nil
	}
	return canvasDimension / m, nil
}

// Scale each (x, y) pair into canvas units, keeping the original values.
func ScalePoints(xs, ys []float64, scaleX, scaleY float64) ([]domain.ScaledPoint, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("scale points: %d x values, %d y values: %w", len(xs), len(ys), domain.ErrCountMismatch)
	}

	points := make([]domain.ScaledPoint, 0, len(xs))
	for i := range xs {
		points = append(points, domain.ScaledPoint{
			X:     xs[i] * scaleX,
			Y:     ys[i] * scaleY,
			OrigX: xs[i],
			OrigY: ys[i],
		})
	}
	return points, nil
}

// Describe both scale factors as "1 cm = ... unit(s) → 1 unit = ... cm".
func Summarize(scaleX, scaleY float64) domain.ScaleSummary {
	return domain.ScaleSummary{
		X: fmt.Sprintf("1 cm = %.4f unit(s) → 1 unit = %.3f cm", 1/scaleX, scaleX),
		Y: fmt.Sprintf("1 cm = %.4f unit(s) → 1 unit = %.2f cm", 1/scaleY, scaleY),
	}
}
