package graveyard

// SpriteNode is one mounted sprite element.
type SpriteNode struct {
	ID     string
	X      int
	Y      int
	W      int
	H      int
	ZIndex int
	Visual VisualClass
	Style  string
	Tower  bool
}

// LabelNode is one mounted label element.
type LabelNode struct {
	SpriteID string
	Text     string
	X        int
	Y        int
	Side     LabelSide
	ZIndex   int
}

// SpriteLayer is the mount point holding sprite nodes in stacking order.
type SpriteLayer struct {
	Nodes []SpriteNode
}

// Clear removes all sprite nodes.
func (l *SpriteLayer) Clear() { l.Nodes = l.Nodes[:0] }

// LabelLayer is the mount point holding label nodes.
type LabelLayer struct {
	Nodes []LabelNode
}

// Clear removes all label nodes.
func (l *LabelLayer) Clear() { l.Nodes = l.Nodes[:0] }

// TooltipMount is the mount point for the hover tooltip.
type TooltipMount struct {
	Visible     bool
	X           int
	Y           int
	Lines       []string
	Interactive bool
	Suggestion  string
}

// Hide resets the tooltip to its empty state.
func (t *TooltipMount) Hide() {
	*t = TooltipMount{}
}

// HUDMount is the mount point for the summary readout.
type HUDMount struct {
	Text string
}

// DialogMount is the mount point for the replacement confirmation dialog.
type DialogMount struct {
	Visible  bool
	AgentID  string
	OldModel string
	NewModel string
	Error    string
}

// Hide resets the dialog to its empty state.
func (d *DialogMount) Hide() {
	*d = DialogMount{}
}

// Display is the render surface: a fixed set of named mount points. Any
// mount may be nil, in which case the feature that writes to it silently
// degrades rather than failing.
type Display struct {
	Sprites *SpriteLayer
	Labels  *LabelLayer
	Tooltip *TooltipMount
	HUD     *HUDMount
	Dialog  *DialogMount
}

// NewDisplay returns a display with every mount point present.
func NewDisplay() *Display {
	return &Display{
		Sprites: &SpriteLayer{},
		Labels:  &LabelLayer{},
		Tooltip: &TooltipMount{},
		HUD:     &HUDMount{},
		Dialog:  &DialogMount{},
	}
}
