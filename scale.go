package graveyard

import "math"

// Maximum |gx-gy| and (gx+gy) reachable by any point on the outer ring,
// premultiplied by the tile half-extents. Derived from the outer ring radii;
// re-derive if those change.
const (
	OuterMaxDiagH = 8.34 * TileHalfW
	OuterMaxDiagV = 18.49 * TileHalfH
)

// Horizontal and vertical pixel margins reserved at the viewport edges when
// clamping grid spread.
const (
	spreadMarginH = 80
	spreadMarginV = 30
)

// ScaleState carries the two independent scale factors for one layout pass.
// SpriteScale grows unclamped with the viewport so sprite detail stays
// legible on large displays; SpreadScale is clamped per axis so the outer
// ring never leaves the visible area.
type ScaleState struct {
	SpriteScale float64
	SpreadScale float64
}

// ResolveScale computes the scale state for a viewport. SpreadScale is
// always <= SpriteScale, and clamped independently on both axes: clamping
// only one would reintroduce clipping on the other.
func ResolveScale(viewportW, viewportH int) ScaleState {
	refSize := math.Min(float64(viewportW), float64(viewportH)*1.6)
	spriteScale := refSize / 1000

	maxSpreadH := (float64(viewportW)/2 - spreadMarginH) / OuterMaxDiagH
	maxSpreadV := (float64(viewportH)*0.78 - spreadMarginV) / OuterMaxDiagV
	spreadScale := math.Min(spriteScale, math.Min(maxSpreadH, maxSpreadV))

	return ScaleState{SpriteScale: spriteScale, SpreadScale: spreadScale}
}
