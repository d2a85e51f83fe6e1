package graveyard

import "math"

// Isometric tile half-extents in pixels at scale 1.
const (
	TileHalfW = 64
	TileHalfH = 32
)

// The grid center where the tower stands.
const (
	CenterGX = 5.0
	CenterGY = 5.0
)

// Ring radii in grid units. Agents sit on the inner ring, categories on the
// outer. OuterMaxDiagH and OuterMaxDiagV in scale.go must be re-derived if
// these change.
const (
	InnerRadiusX = 3.5
	InnerRadiusY = 2.5
	OuterRadiusX = 7.0
	OuterRadiusY = 4.8
)

// GridPosition is a real-valued position on the abstract grid.
type GridPosition struct {
	GX float64
	GY float64
}

// ScreenPosition is an integer pixel coordinate. Y doubles as the isometric
// depth key.
type ScreenPosition struct {
	X int
	Y int
}

// ProjectToScreen maps a grid position to screen pixels for the given spread
// scale and viewport. Coordinates are rounded to whole pixels: fractional
// values must never reach style assignment because rendering engines
// sub-pixel-round differently.
func ProjectToScreen(gx, gy, spreadScale float64, viewportW, viewportH int) ScreenPosition {
	x := (gx-gy)*TileHalfW*spreadScale + float64(viewportW)/2
	y := (gx+gy)*TileHalfH*spreadScale + float64(viewportH)*0.22
	return ScreenPosition{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// RingPositions places count points evenly on an ellipse of the given radii,
// starting at 12 o'clock and proceeding clockwise. count <= 0 yields an
// empty sequence.
func RingPositions(count int, radiusX, radiusY, centerGX, centerGY float64) []GridPosition {
	if count <= 0 {
		return nil
	}
	positions := make([]GridPosition, count)
	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		angle := -math.Pi/2 + float64(i)*step
		positions[i] = GridPosition{
			GX: centerGX + radiusX*math.Cos(angle),
			GY: centerGY + radiusY*math.Sin(angle),
		}
	}
	return positions
}
