package graveyard

import (
	"sort"
)

// Sprite footprints in pixels at scale 1, anchored bottom-center.
const (
	spriteBaseW = 140
	spriteBaseH = 210
	towerBaseW  = 360
	towerBaseH  = 360
)

// TowerID identifies the single fixed-center sprite.
const TowerID = "tower"

// VisualClass selects the rendering variant for a sprite.
type VisualClass string

// The two sprite variants. Statuses UNAUTHORIZED and MODEL_NOT_FOUND render
// as tombstones; everything else, including unrecognized statuses, renders
// alive.
const (
	VisualAlive     VisualClass = "alive"
	VisualTombstone VisualClass = "tombstone"
)

// VisualFor maps a status code to its rendering variant. The mapping is
// total: unknown codes fall through to the alive variant.
func VisualFor(status StatusCode) VisualClass {
	switch status {
	case StatusUnauthorized, StatusModelNotFound:
		return VisualTombstone
	default:
		return VisualAlive
	}
}

// StyleClassFor maps a status code to the presentation class applied to its
// sprite node. Unrecognized or missing codes get the invalid class.
func StyleClassFor(status StatusCode) string {
	switch status {
	case StatusAlive:
		return "status-alive"
	case StatusRateLimit:
		return "status-rate-limit"
	case StatusTimeout:
		return "status-timeout"
	case StatusProviderError:
		return "status-provider-error"
	case StatusUnauthorized:
		return "status-unauthorized"
	case StatusModelNotFound:
		return "status-model-not-found"
	case StatusBadRequest:
		return "status-bad-request"
	default:
		return "status-invalid"
	}
}

// LabelSide says where an item's label renders relative to its sprite.
type LabelSide string

// Label placements.
const (
	LabelBelow LabelSide = "below"
	LabelLeft  LabelSide = "left"
)

// Viewport is the visible pixel area a scene is built for.
type Viewport struct {
	W int
	H int
}

// PixelBox is an axis-aligned pixel rectangle, top-left anchored.
type PixelBox struct {
	X int
	Y int
	W int
	H int
}

// Right returns the x coordinate just past the box.
func (b PixelBox) Right() int { return b.X + b.W }

// Bottom returns the y coordinate just past the box.
func (b PixelBox) Bottom() int { return b.Y + b.H }

// SpriteDescriptor is the renderable form of one entity. Foot is the
// projected grid point; the box extends upward from it.
type SpriteDescriptor struct {
	ID     string
	Item   StatusItem
	Foot   ScreenPosition
	Box    PixelBox
	ZIndex int
	Seq    int
	Visual VisualClass
	Style  string
	Tower  bool
}

// LabelDescriptor places one entity label.
type LabelDescriptor struct {
	SpriteID string
	Text     string
	Pos      ScreenPosition
	Side     LabelSide
	ZIndex   int
}

// HUDSummary aggregates the feed for the HUD mount.
type HUDSummary struct {
	GeneratedAt string
	Total       int
	OK          int
	Warn        int
	Error       int
	Critical    int
}

// Scene is one full set of renderable descriptors for a feed and viewport.
type Scene struct {
	Viewport Viewport
	Scale    ScaleState
	Tower    SpriteDescriptor
	Sprites  []SpriteDescriptor
	Labels   []LabelDescriptor
	HUD      HUDSummary
}

// SpriteByID finds a ring sprite or the tower by id.
func (s *Scene) SpriteByID(id string) *SpriteDescriptor {
	if id == s.Tower.ID {
		return &s.Tower
	}
	for i := range s.Sprites {
		if s.Sprites[i].ID == id {
			return &s.Sprites[i]
		}
	}
	return nil
}

// SceneOption adjusts scene building.
type SceneOption func(*sceneConfig)

type sceneConfig struct {
	leftLabels map[string]bool
}

// Entity names whose labels render to the left of the sprite instead of
// beneath it.
var defaultLeftLabels = []string{"gondwana"}

// WithLeftLabels overrides the set of entity names that carry the left-label
// layout hint.
func WithLeftLabels(names ...string) SceneOption {
	return func(c *sceneConfig) {
		c.leftLabels = make(map[string]bool, len(names))
		for _, n := range names {
			c.leftLabels[n] = true
		}
	}
}

// BuildScene converts a feed into renderable descriptors for the given scale
// and viewport. It tolerates missing optional fields and unknown enum values
// and never fails.
func BuildScene(feed *StatusFeed, scale ScaleState, vp Viewport, opts ...SceneOption) *Scene {
	cfg := sceneConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.leftLabels == nil {
		cfg.leftLabels = make(map[string]bool, len(defaultLeftLabels))
		for _, n := range defaultLeftLabels {
			cfg.leftLabels[n] = true
		}
	}

	scene := &Scene{Viewport: vp, Scale: scale}

	var items []StatusItem
	if feed != nil {
		items = feed.Items
		scene.HUD = summarize(feed)
	}

	// Partition by type, preserving feed order.
	var agents, categories []StatusItem
	for _, it := range items {
		switch it.Type {
		case TypeCategory:
			categories = append(categories, it)
		default:
			agents = append(agents, it)
		}
	}

	scene.Tower = towerDescriptor(scale, vp)

	inner := RingPositions(len(agents), InnerRadiusX, InnerRadiusY, CenterGX, CenterGY)
	outer := RingPositions(len(categories), OuterRadiusX, OuterRadiusY, CenterGX, CenterGY)

	seq := 0
	for i, it := range agents {
		scene.addItem(it, inner[i], &cfg, seq)
		seq++
	}
	for i, it := range categories {
		scene.addItem(it, outer[i], &cfg, seq)
		seq++
	}

	// Z-order is a total order by screen y; insertion order breaks the
	// geometrically near-impossible ties.
	sort.SliceStable(scene.Sprites, func(a, b int) bool {
		if scene.Sprites[a].ZIndex != scene.Sprites[b].ZIndex {
			return scene.Sprites[a].ZIndex < scene.Sprites[b].ZIndex
		}
		return scene.Sprites[a].Seq < scene.Sprites[b].Seq
	})

	return scene
}

func (s *Scene) addItem(it StatusItem, pos GridPosition, cfg *sceneConfig, seq int) {
	foot := ProjectToScreen(pos.GX, pos.GY, s.Scale.SpreadScale, s.Viewport.W, s.Viewport.H)
	w := scalePx(spriteBaseW, s.Scale.SpriteScale)
	h := scalePx(spriteBaseH, s.Scale.SpriteScale)

	sprite := SpriteDescriptor{
		ID:     it.ID,
		Item:   it,
		Foot:   foot,
		Box:    PixelBox{X: foot.X - w/2, Y: foot.Y - h, W: w, H: h},
		ZIndex: foot.Y,
		Seq:    seq,
		Visual: VisualFor(it.Status),
		Style:  StyleClassFor(it.Status),
	}
	s.Sprites = append(s.Sprites, sprite)

	label := LabelDescriptor{
		SpriteID: it.ID,
		Text:     it.DisplayName(),
		Side:     LabelBelow,
		ZIndex:   foot.Y,
	}
	if cfg.leftLabels[it.Name] {
		label.Side = LabelLeft
		label.Pos = ScreenPosition{
			X: foot.X - w/2 - scalePx(10, s.Scale.SpriteScale),
			Y: foot.Y - h/2,
		}
	} else {
		label.Pos = ScreenPosition{
			X: foot.X,
			Y: foot.Y + scalePx(6, s.Scale.SpriteScale),
		}
	}
	s.Labels = append(s.Labels, label)
}

func towerDescriptor(scale ScaleState, vp Viewport) SpriteDescriptor {
	foot := ProjectToScreen(CenterGX, CenterGY, scale.SpreadScale, vp.W, vp.H)
	w := scalePx(towerBaseW, scale.SpriteScale)
	h := scalePx(towerBaseH, scale.SpriteScale)
	return SpriteDescriptor{
		ID:     TowerID,
		Foot:   foot,
		Box:    PixelBox{X: foot.X - w/2, Y: foot.Y - h, W: w, H: h},
		ZIndex: foot.Y,
		Visual: VisualAlive,
		Style:  "tower",
		Tower:  true,
	}
}

func summarize(feed *StatusFeed) HUDSummary {
	hud := HUDSummary{GeneratedAt: feed.GeneratedAt, Total: len(feed.Items)}
	for _, it := range feed.Items {
		switch it.Severity {
		case SeverityOK:
			hud.OK++
		case SeverityWarn:
			hud.Warn++
		case SeverityError:
			hud.Error++
		case SeverityCritical:
			hud.Critical++
		}
	}
	return hud
}

func scalePx(base int, scale float64) int {
	return int(float64(base)*scale + 0.5)
}
