package graveyard

import "encoding/json"

// SceneJSON is the JSON representation of a rendered scene for web clients.
type SceneJSON struct {
	ViewportW   int          `json:"viewport_w"`
	ViewportH   int          `json:"viewport_h"`
	SpriteScale float64      `json:"sprite_scale"`
	SpreadScale float64      `json:"spread_scale"`
	HUD         HUDJSON      `json:"hud"`
	Sprites     []SpriteJSON `json:"sprites"`
	Labels      []LabelJSON  `json:"labels"`
}

// SpriteJSON is the JSON representation of one sprite node.
type SpriteJSON struct {
	ID     string `json:"id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	W      int    `json:"w"`
	H      int    `json:"h"`
	ZIndex int    `json:"z_index"`
	Visual string `json:"visual"`
	Style  string `json:"style"`
	Tower  bool   `json:"tower,omitempty"`
}

// LabelJSON is the JSON representation of one label node.
type LabelJSON struct {
	SpriteID string `json:"sprite_id"`
	Text     string `json:"text"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Side     string `json:"side"`
	ZIndex   int    `json:"z_index"`
}

// HUDJSON is the JSON representation of the summary readout.
type HUDJSON struct {
	GeneratedAt string `json:"generated_at"`
	Total       int    `json:"total"`
	OK          int    `json:"ok"`
	Warn        int    `json:"warn"`
	Error       int    `json:"error"`
	Critical    int    `json:"critical"`
}

// SceneToJSON runs a render pass over the scene and returns the mounted node
// tree in wire form.
func SceneToJSON(scene *Scene) SceneJSON {
	if scene == nil {
		return SceneJSON{}
	}

	display := NewDisplay()
	Render(scene, display)

	out := SceneJSON{
		ViewportW:   scene.Viewport.W,
		ViewportH:   scene.Viewport.H,
		SpriteScale: scene.Scale.SpriteScale,
		SpreadScale: scene.Scale.SpreadScale,
		HUD: HUDJSON{
			GeneratedAt: scene.HUD.GeneratedAt,
			Total:       scene.HUD.Total,
			OK:          scene.HUD.OK,
			Warn:        scene.HUD.Warn,
			Error:       scene.HUD.Error,
			Critical:    scene.HUD.Critical,
		},
		Sprites: make([]SpriteJSON, 0, len(display.Sprites.Nodes)),
		Labels:  make([]LabelJSON, 0, len(display.Labels.Nodes)),
	}

	for _, n := range display.Sprites.Nodes {
		out.Sprites = append(out.Sprites, SpriteJSON{
			ID:     n.ID,
			X:      n.X,
			Y:      n.Y,
			W:      n.W,
			H:      n.H,
			ZIndex: n.ZIndex,
			Visual: string(n.Visual),
			Style:  n.Style,
			Tower:  n.Tower,
		})
	}
	for _, n := range display.Labels.Nodes {
		out.Labels = append(out.Labels, LabelJSON{
			SpriteID: n.SpriteID,
			Text:     n.Text,
			X:        n.X,
			Y:        n.Y,
			Side:     string(n.Side),
			ZIndex:   n.ZIndex,
		})
	}
	return out
}

// SceneToJSONBytes renders the scene to JSON bytes.
func SceneToJSONBytes(scene *Scene) ([]byte, error) {
	return json.Marshal(SceneToJSON(scene))
}
