package graveyard

import (
	"reflect"
	"testing"
)

func testFeed(agents, categories int) *StatusFeed {
	var items []StatusItem
	for i := 0; i < agents; i++ {
		name := string(rune('a' + i))
		items = append(items, StatusItem{
			ID:       ItemID(TypeAgent, name),
			Name:     name,
			Type:     TypeAgent,
			Model:    "vendor/model-" + name,
			Status:   StatusAlive,
			Severity: SeverityOK,
		})
	}
	for i := 0; i < categories; i++ {
		name := "cat" + string(rune('a'+i))
		items = append(items, StatusItem{
			ID:       ItemID(TypeCategory, name),
			Name:     name,
			Type:     TypeCategory,
			Model:    "vendor/model-" + name,
			Status:   StatusAlive,
			Severity: SeverityOK,
		})
	}
	return &StatusFeed{GeneratedAt: "2026-01-01T00:00:00Z", SchemaVersion: 1, Items: items}
}

func TestBuildSceneCounts(t *testing.T) {
	feed := testFeed(6, 8)
	scale := ResolveScale(1200, 900)
	scene := BuildScene(feed, scale, Viewport{W: 1200, H: 900})

	if len(scene.Sprites) != 14 {
		t.Fatalf("got %d ring sprites, want 14", len(scene.Sprites))
	}
	if !scene.Tower.Tower || scene.Tower.ID != TowerID {
		t.Errorf("tower descriptor not built: %+v", scene.Tower)
	}
	if len(scene.Labels) != 14 {
		t.Errorf("got %d labels, want 14", len(scene.Labels))
	}
	if scene.HUD.Total != 14 || scene.HUD.OK != 14 {
		t.Errorf("HUD = %+v, want 14 total all OK", scene.HUD)
	}
}

func TestBuildSceneDeterministic(t *testing.T) {
	feed := testFeed(6, 8)
	scale := ResolveScale(1366, 768)
	vp := Viewport{W: 1366, H: 768}

	a := BuildScene(feed, scale, vp)
	b := BuildScene(feed, scale, vp)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different scenes")
	}
}

func TestBuildSceneZOrder(t *testing.T) {
	feed := testFeed(7, 9)
	scale := ResolveScale(1600, 1000)
	scene := BuildScene(feed, scale, Viewport{W: 1600, H: 1000})

	for i := 1; i < len(scene.Sprites); i++ {
		prev, cur := scene.Sprites[i-1], scene.Sprites[i]
		if cur.ZIndex < prev.ZIndex {
			t.Fatalf("sprite %d z %d precedes %d", i, prev.ZIndex, cur.ZIndex)
		}
		if cur.ZIndex == prev.ZIndex && cur.Seq < prev.Seq {
			t.Fatalf("z tie at %d broken against insertion order", i)
		}
	}
	for _, s := range scene.Sprites {
		if s.ZIndex != s.Foot.Y {
			t.Errorf("sprite %s z %d != foot y %d", s.ID, s.ZIndex, s.Foot.Y)
		}
	}
}

func TestBuildSceneFootBounds(t *testing.T) {
	// Foot points of every ring sprite stay inside the spread margins for
	// any reasonable viewport; the tower box stays fully visible.
	viewports := []Viewport{
		{600, 400}, {800, 600}, {1024, 768}, {1200, 900},
		{1366, 768}, {1920, 1080}, {2560, 1440}, {3000, 500},
	}
	feed := testFeed(6, 8)
	for _, vp := range viewports {
		scale := ResolveScale(vp.W, vp.H)
		scene := BuildScene(feed, scale, vp)
		for _, s := range scene.Sprites {
			if s.Foot.X < spreadMarginH-1 || s.Foot.X > vp.W-spreadMarginH+1 {
				t.Errorf("viewport %dx%d: %s foot x %d outside margin", vp.W, vp.H, s.ID, s.Foot.X)
			}
			if s.Foot.Y > vp.H-spreadMarginV+1 {
				t.Errorf("viewport %dx%d: %s foot y %d below band", vp.W, vp.H, s.ID, s.Foot.Y)
			}
		}
		tower := scene.Tower.Box
		if tower.X < 0 || tower.Y < 0 || tower.Right() > vp.W || tower.Bottom() > vp.H {
			t.Errorf("viewport %dx%d: tower box %+v clipped", vp.W, vp.H, tower)
		}
	}
}

func TestBuildSceneSpriteBox(t *testing.T) {
	feed := testFeed(1, 0)
	scale := ScaleState{SpriteScale: 1.0, SpreadScale: 1.0}
	scene := BuildScene(feed, scale, Viewport{W: 1200, H: 900})
	if len(scene.Sprites) != 1 {
		t.Fatalf("got %d sprites", len(scene.Sprites))
	}
	s := scene.Sprites[0]
	if s.Box.W != 140 || s.Box.H != 210 {
		t.Errorf("box size %dx%d, want 140x210", s.Box.W, s.Box.H)
	}
	// Bottom-center anchored at the foot.
	if s.Box.X != s.Foot.X-70 || s.Box.Bottom() != s.Foot.Y {
		t.Errorf("box %+v not anchored at foot %+v", s.Box, s.Foot)
	}
}

func TestBuildSceneSingleAgentAtTop(t *testing.T) {
	feed := testFeed(6, 0)
	scale := ScaleState{SpriteScale: 1.0, SpreadScale: 1.0}
	vp := Viewport{W: 1200, H: 900}
	scene := BuildScene(feed, scale, vp)

	first := scene.SpriteByID(ItemID(TypeAgent, "a"))
	if first == nil {
		t.Fatal("agent a missing from scene")
	}
	// First agent sits at 12 o'clock on the inner ring.
	want := ProjectToScreen(CenterGX, CenterGY-InnerRadiusY, 1.0, vp.W, vp.H)
	if first.Foot != want {
		t.Errorf("first agent foot %+v, want %+v", first.Foot, want)
	}
}

func TestBuildSceneVisuals(t *testing.T) {
	tests := []struct {
		status StatusCode
		want   VisualClass
	}{
		{StatusAlive, VisualAlive},
		{StatusRateLimit, VisualAlive},
		{StatusTimeout, VisualAlive},
		{StatusProviderError, VisualAlive},
		{StatusUnauthorized, VisualTombstone},
		{StatusModelNotFound, VisualTombstone},
		{StatusBadRequest, VisualAlive},
		{StatusInvalidConfig, VisualAlive},
		{StatusCode("SOMETHING_NEW"), VisualAlive},
		{StatusCode(""), VisualAlive},
	}
	for _, tt := range tests {
		if got := VisualFor(tt.status); got != tt.want {
			t.Errorf("VisualFor(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStyleClassFor(t *testing.T) {
	if got := StyleClassFor(StatusAlive); got != "status-alive" {
		t.Errorf("got %q", got)
	}
	if got := StyleClassFor(StatusCode("BOGUS")); got != "status-invalid" {
		t.Errorf("unknown status got %q, want status-invalid", got)
	}
	if got := StyleClassFor(StatusCode("")); got != "status-invalid" {
		t.Errorf("empty status got %q, want status-invalid", got)
	}
}

func TestBuildSceneToleratesSparseItems(t *testing.T) {
	feed := &StatusFeed{Items: []StatusItem{
		{ID: "agent:x", Type: TypeAgent},
		{Type: TypeCategory, Name: "orphan"},
	}}
	scene := BuildScene(feed, ResolveScale(800, 600), Viewport{W: 800, H: 600})
	if len(scene.Sprites) != 2 {
		t.Fatalf("got %d sprites, want 2", len(scene.Sprites))
	}
	if scene.Labels[0].Text != "unknown" {
		t.Errorf("nameless item label %q, want unknown", scene.Labels[0].Text)
	}
}

func TestBuildSceneNilFeed(t *testing.T) {
	scene := BuildScene(nil, ResolveScale(800, 600), Viewport{W: 800, H: 600})
	if len(scene.Sprites) != 0 {
		t.Errorf("nil feed produced %d sprites", len(scene.Sprites))
	}
	if !scene.Tower.Tower {
		t.Error("nil feed dropped the tower")
	}
}

func TestBuildSceneLeftLabelHint(t *testing.T) {
	feed := &StatusFeed{Items: []StatusItem{
		{ID: "agent:gondwana", Name: "gondwana", Type: TypeAgent, Status: StatusAlive, Severity: SeverityOK},
		{ID: "agent:laurasia", Name: "laurasia", Type: TypeAgent, Status: StatusAlive, Severity: SeverityOK},
	}}
	scene := BuildScene(feed, ResolveScale(1200, 900), Viewport{W: 1200, H: 900})

	var gondwana, laurasia *LabelDescriptor
	for i := range scene.Labels {
		switch scene.Labels[i].SpriteID {
		case "agent:gondwana":
			gondwana = &scene.Labels[i]
		case "agent:laurasia":
			laurasia = &scene.Labels[i]
		}
	}
	if gondwana == nil || laurasia == nil {
		t.Fatal("labels missing")
	}
	if gondwana.Side != LabelLeft {
		t.Errorf("gondwana label side %q, want left", gondwana.Side)
	}
	if laurasia.Side != LabelBelow {
		t.Errorf("laurasia label side %q, want below", laurasia.Side)
	}

	// The override replaces the default set entirely.
	scene = BuildScene(feed, ResolveScale(1200, 900), Viewport{W: 1200, H: 900}, WithLeftLabels("laurasia"))
	for _, l := range scene.Labels {
		if l.SpriteID == "agent:gondwana" && l.Side != LabelBelow {
			t.Errorf("gondwana side %q after override", l.Side)
		}
		if l.SpriteID == "agent:laurasia" && l.Side != LabelLeft {
			t.Errorf("laurasia side %q after override", l.Side)
		}
	}
}
