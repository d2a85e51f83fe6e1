package graveyard

import (
	"strings"
	"testing"
)

func TestRenderFullReplace(t *testing.T) {
	d := NewDisplay()
	scale := ResolveScale(1200, 900)
	vp := Viewport{W: 1200, H: 900}

	Render(BuildScene(testFeed(6, 8), scale, vp), d)
	if len(d.Sprites.Nodes) != 15 {
		t.Fatalf("got %d sprite nodes, want 15", len(d.Sprites.Nodes))
	}
	if len(d.Labels.Nodes) != 14 {
		t.Fatalf("got %d label nodes, want 14", len(d.Labels.Nodes))
	}

	// A smaller feed fully replaces the previous nodes, nothing lingers.
	Render(BuildScene(testFeed(2, 1), scale, vp), d)
	if len(d.Sprites.Nodes) != 4 {
		t.Errorf("after re-render got %d sprite nodes, want 4", len(d.Sprites.Nodes))
	}
	if len(d.Labels.Nodes) != 3 {
		t.Errorf("after re-render got %d label nodes, want 3", len(d.Labels.Nodes))
	}
}

func TestRenderStackingOrder(t *testing.T) {
	d := NewDisplay()
	scale := ResolveScale(1600, 1000)
	Render(BuildScene(testFeed(5, 7), scale, Viewport{W: 1600, H: 1000}), d)

	for i := 1; i < len(d.Sprites.Nodes); i++ {
		if d.Sprites.Nodes[i].ZIndex < d.Sprites.Nodes[i-1].ZIndex {
			t.Fatalf("node %d z %d precedes %d",
				i, d.Sprites.Nodes[i-1].ZIndex, d.Sprites.Nodes[i].ZIndex)
		}
	}
	var sawTower bool
	for _, n := range d.Sprites.Nodes {
		if n.Tower {
			sawTower = true
		}
	}
	if !sawTower {
		t.Error("tower node missing")
	}
}

func TestRenderHUD(t *testing.T) {
	feed := testFeed(3, 2)
	feed.Items[0].Severity = SeverityCritical
	feed.Items[1].Severity = SeverityWarn

	d := NewDisplay()
	Render(BuildScene(feed, ResolveScale(800, 600), Viewport{W: 800, H: 600}), d)

	want := "5 items | OK=3 WARN=1 ERROR=0 CRITICAL=1"
	if d.HUD.Text != want {
		t.Errorf("HUD %q, want %q", d.HUD.Text, want)
	}
}

func TestRenderNilMounts(t *testing.T) {
	// A display with no mounts is a no-op, not a panic.
	d := &Display{}
	Render(BuildScene(testFeed(2, 2), ResolveScale(800, 600), Viewport{W: 800, H: 600}), d)

	Render(nil, NewDisplay())
	Render(nil, nil)
}

func TestSceneToJSON(t *testing.T) {
	scene := BuildScene(testFeed(2, 3), ResolveScale(1200, 900), Viewport{W: 1200, H: 900})
	data, err := SceneToJSONBytes(scene)
	if err != nil {
		t.Fatalf("SceneToJSONBytes: %v", err)
	}
	body := string(data)
	for _, want := range []string{`"sprites"`, `"labels"`, `"hud"`, `"tower"`, `"viewport_w"`, `"spread_scale"`} {
		if !strings.Contains(body, want) {
			t.Errorf("payload missing %s", want)
		}
	}
}
