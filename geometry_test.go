package graveyard

import (
	"math"
	"testing"
)

func TestProjectToScreen(t *testing.T) {
	tests := []struct {
		name   string
		gx, gy float64
		spread float64
		w, h   int
		want   ScreenPosition
	}{
		{"center at unit spread", 5, 5, 1.0, 1200, 900, ScreenPosition{X: 600, Y: 518}},
		{"origin", 0, 0, 1.0, 1200, 900, ScreenPosition{X: 600, Y: 198}},
		{"east of center", 6, 5, 1.0, 1200, 900, ScreenPosition{X: 664, Y: 550}},
		{"half spread shrinks offsets", 6, 5, 0.5, 1200, 900, ScreenPosition{X: 632, Y: 374}},
		{"negative diagonal", 3, 7, 1.0, 800, 600, ScreenPosition{X: 144, Y: 452}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectToScreen(tt.gx, tt.gy, tt.spread, tt.w, tt.h)
			if got != tt.want {
				t.Errorf("ProjectToScreen(%v, %v, %v, %d, %d) = %+v, want %+v",
					tt.gx, tt.gy, tt.spread, tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestProjectToScreenRounds(t *testing.T) {
	// A fractional spread produces fractional raw coordinates; the result
	// must still be whole pixels that round-trip through the formula.
	got := ProjectToScreen(5.3, 4.1, 0.77, 1366, 768)
	rawX := (5.3-4.1)*TileHalfW*0.77 + 1366.0/2
	rawY := (5.3+4.1)*TileHalfH*0.77 + 768.0*0.22
	if got.X != int(math.Round(rawX)) || got.Y != int(math.Round(rawY)) {
		t.Errorf("got %+v, want rounded (%v, %v)", got, rawX, rawY)
	}
}

func TestRingPositionsStartsAtTop(t *testing.T) {
	pos := RingPositions(6, InnerRadiusX, InnerRadiusY, CenterGX, CenterGY)
	if len(pos) != 6 {
		t.Fatalf("got %d positions, want 6", len(pos))
	}
	// Index 0 sits at 12 o'clock: centered horizontally, lifted by the
	// vertical radius.
	const eps = 1e-9
	if math.Abs(pos[0].GX-CenterGX) > eps {
		t.Errorf("position 0 GX = %v, want %v", pos[0].GX, CenterGX)
	}
	if math.Abs(pos[0].GY-(CenterGY-InnerRadiusY)) > eps {
		t.Errorf("position 0 GY = %v, want %v", pos[0].GY, CenterGY-InnerRadiusY)
	}
}

func TestRingPositionsOnEllipse(t *testing.T) {
	const eps = 1e-9
	for _, count := range []int{1, 2, 3, 8, 17} {
		pos := RingPositions(count, OuterRadiusX, OuterRadiusY, CenterGX, CenterGY)
		if len(pos) != count {
			t.Fatalf("count %d: got %d positions", count, len(pos))
		}
		for i, p := range pos {
			dx := (p.GX - CenterGX) / OuterRadiusX
			dy := (p.GY - CenterGY) / OuterRadiusY
			if r := dx*dx + dy*dy; math.Abs(r-1) > eps {
				t.Errorf("count %d position %d off ellipse: %v", count, i, r)
			}
		}
	}
}

func TestRingPositionsEmpty(t *testing.T) {
	if got := RingPositions(0, 1, 1, 0, 0); got != nil {
		t.Errorf("count 0: got %v, want nil", got)
	}
	if got := RingPositions(-3, 1, 1, 0, 0); got != nil {
		t.Errorf("negative count: got %v, want nil", got)
	}
}
