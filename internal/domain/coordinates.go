package domain

// A data point mapped onto the canvas.
// X and Y are in centimeters; OrigX and OrigY keep the values the user
// entered so the point can be labeled with them.
type ScaledPoint struct {
	X     float64
	Y     float64
	OrigX float64
	OrigY float64
}
