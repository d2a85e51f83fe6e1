package graveyard

import (
	"context"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// EbitenTarget renders the dashboard in a resizable desktop window and feeds
// pointer events into the interaction controller. Scene rebuilds, hover
// transitions, and input all happen on the ebiten tick; the tooltip and
// dialog mounts are also written by the controller's background
// continuations, so the tick reads them through snapshot copies only.
type EbitenTarget struct {
	mu          sync.Mutex
	feed        *StatusFeed
	scene       *Scene
	display     *Display
	interaction *Interaction
	vp          Viewport
	dirty       bool

	hoveredID string
	inTooltip bool
	onRefresh func()
}

// EbitenOption configures an EbitenTarget.
type EbitenOption func(*EbitenTarget)

// WithRefreshAction registers the handler for the manual refresh key (R).
func WithRefreshAction(fn func()) EbitenOption {
	return func(t *EbitenTarget) {
		t.onRefresh = fn
	}
}

// NewEbitenTarget creates a desktop target. The backend serves the
// interaction controller's suggestion and replacement requests; onConfirmed
// runs after a confirmed replacement (typically the coordinator's refresh).
func NewEbitenTarget(backend interface {
	SuggestionSource
	Replacer
}, onConfirmed func(), opts ...EbitenOption) *EbitenTarget {
	t := &EbitenTarget{
		display: NewDisplay(),
		vp:      Viewport{W: 1280, H: 800},
		dirty:   true,
	}
	t.interaction = NewInteraction(t.display, backend, WithOnConfirmed(onConfirmed))
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements Target.
func (t *EbitenTarget) Name() string {
	return "EbitenTarget"
}

// Update implements Target.
func (t *EbitenTarget) Update(ctx context.Context, feed *StatusFeed) error {
	t.mu.Lock()
	t.feed = feed
	t.dirty = true
	t.mu.Unlock()
	return nil
}

// Close implements Target.
func (t *EbitenTarget) Close() error {
	return nil
}

// Run opens the window and blocks until it is closed.
func (t *EbitenTarget) Run() error {
	ebiten.SetWindowSize(t.vp.W, t.vp.H)
	ebiten.SetWindowTitle("graveyard dashboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&ebitenGame{t: t})
}

// ebitenGame adapts the target to ebiten.Game; the Target interface already
// claims the Update method name.
type ebitenGame struct {
	t *EbitenTarget
}

func (g *ebitenGame) Update() error                { return g.t.tick() }
func (g *ebitenGame) Draw(screen *ebiten.Image)    { g.t.draw(screen) }
func (g *ebitenGame) Layout(ow, oh int) (int, int) { return g.t.layout(ow, oh) }

// layout receives window resizes; the scene is rebuilt from the
// already-held feed on the next tick, never re-fetched.
func (t *EbitenTarget) layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth < 1 {
		outsideWidth = 1
	}
	if outsideHeight < 1 {
		outsideHeight = 1
	}
	t.mu.Lock()
	if t.vp.W != outsideWidth || t.vp.H != outsideHeight {
		t.vp = Viewport{W: outsideWidth, H: outsideHeight}
		t.dirty = true
	}
	t.mu.Unlock()
	return outsideWidth, outsideHeight
}

// tick runs one event-loop turn.
func (t *EbitenTarget) tick() error {
	t.rebuildIfDirty()

	cx, cy := ebiten.CursorPosition()
	t.trackHover(cx, cy)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		t.handleClick(cx, cy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) && t.interaction.State() == StateDialogOpen {
		go t.interaction.Confirm(context.Background())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && t.interaction.State() == StateDialogOpen {
		t.interaction.Cancel()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && t.onRefresh != nil {
		go t.onRefresh()
	}
	return nil
}

func (t *EbitenTarget) rebuildIfDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.dirty {
		return
	}
	t.scene = BuildScene(t.feed, ResolveScale(t.vp.W, t.vp.H), t.vp)
	Render(t.scene, t.display)
	t.interaction.SetViewport(t.vp)
	t.dirty = false
}

func (t *EbitenTarget) trackHover(cx, cy int) {
	sp := t.spriteAt(cx, cy)

	if tip := t.interaction.Tooltip(); tip.Visible && tooltipContains(tip, cx, cy) {
		if !t.inTooltip {
			t.inTooltip = true
			t.interaction.TooltipEnter()
		}
		return
	}
	if t.inTooltip {
		t.inTooltip = false
		if sp == nil {
			t.interaction.TooltipLeave()
		}
	}

	switch {
	case sp == nil && t.hoveredID != "":
		t.hoveredID = ""
		t.interaction.PointerLeave()
	case sp != nil && sp.ID != t.hoveredID:
		t.hoveredID = sp.ID
		t.interaction.PointerEnter(context.Background(), sp, cx, cy)
	case sp != nil:
		t.interaction.PointerMove(cx, cy)
	}
}

func (t *EbitenTarget) handleClick(cx, cy int) {
	if t.interaction.State() != StateTooltipInteractive {
		return
	}
	if tooltipContains(t.interaction.Tooltip(), cx, cy) {
		t.interaction.AcceptSuggestion()
	}
}

// spriteAt returns the topmost non-tower sprite under the point.
func (t *EbitenTarget) spriteAt(cx, cy int) *SpriteDescriptor {
	t.mu.Lock()
	scene := t.scene
	t.mu.Unlock()
	if scene == nil {
		return nil
	}
	for i := len(scene.Sprites) - 1; i >= 0; i-- {
		sp := &scene.Sprites[i]
		b := sp.Box
		if cx >= b.X && cx < b.Right() && cy >= b.Y && cy < b.Bottom() {
			return sp
		}
	}
	return nil
}

func tooltipContains(tip TooltipMount, cx, cy int) bool {
	if !tip.Visible {
		return false
	}
	h := tooltipH
	if tip.Interactive {
		h = tooltipInteractiveH
	}
	return cx >= tip.X && cx < tip.X+tooltipW && cy >= tip.Y && cy < tip.Y+h
}

// Severity fill colors.
var (
	colorBackground = color.RGBA{0x10, 0x10, 0x18, 0xff}
	colorTower      = color.RGBA{0x7a, 0x6a, 0xd0, 0xff}
	colorTombstone  = color.RGBA{0x6b, 0x6b, 0x6b, 0xff}
	colorOK         = color.RGBA{0x4a, 0xde, 0x80, 0xff}
	colorWarn       = color.RGBA{0xfa, 0xcc, 0x15, 0xff}
	colorError      = color.RGBA{0xfb, 0x92, 0x3c, 0xff}
	colorCritical   = color.RGBA{0xef, 0x44, 0x44, 0xff}
	colorPanel      = color.RGBA{0x1c, 0x1c, 0x2c, 0xf0}
)

func spriteColor(n SpriteNode, scene *Scene) color.RGBA {
	if n.Tower {
		return colorTower
	}
	if n.Visual == VisualTombstone {
		return colorTombstone
	}
	sp := scene.SpriteByID(n.ID)
	if sp == nil {
		return colorOK
	}
	switch sp.Item.Severity {
	case SeverityWarn:
		return colorWarn
	case SeverityError:
		return colorError
	case SeverityCritical:
		return colorCritical
	default:
		return colorOK
	}
}

func (t *EbitenTarget) draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	t.mu.Lock()
	scene := t.scene
	t.mu.Unlock()
	if scene == nil {
		ebitenutil.DebugPrintAt(screen, "loading feed...", 20, 20)
		return
	}

	// Sprite layer nodes are already in stacking order.
	for _, n := range t.display.Sprites.Nodes {
		vector.DrawFilledRect(screen,
			float32(n.X), float32(n.Y), float32(n.W), float32(n.H),
			spriteColor(n, scene), false)
	}
	for _, n := range t.display.Labels.Nodes {
		x := n.X
		if n.Side == LabelBelow {
			x -= len(n.Text) * 3 // center the debug font
		}
		ebitenutil.DebugPrintAt(screen, n.Text, x, n.Y)
	}

	if t.display.HUD.Text != "" {
		ebitenutil.DebugPrintAt(screen, t.display.HUD.Text, 12, 8)
	}

	t.drawTooltip(screen, t.interaction.Tooltip())
	t.drawDialog(screen, t.interaction.Dialog())
}

func (t *EbitenTarget) drawTooltip(screen *ebiten.Image, tip TooltipMount) {
	if !tip.Visible {
		return
	}
	h := tooltipH
	if tip.Interactive {
		h = tooltipInteractiveH
	}
	vector.DrawFilledRect(screen,
		float32(tip.X), float32(tip.Y), float32(tooltipW), float32(h),
		colorPanel, false)
	for i, line := range tip.Lines {
		ebitenutil.DebugPrintAt(screen, line, tip.X+8, tip.Y+8+i*16)
	}
	if tip.Interactive {
		ebitenutil.DebugPrintAt(screen, "[click to replace]", tip.X+8, tip.Y+h-20)
	}
}

func (t *EbitenTarget) drawDialog(screen *ebiten.Image, dlg DialogMount) {
	if !dlg.Visible {
		return
	}
	t.mu.Lock()
	vp := t.vp
	t.mu.Unlock()

	const dlgW, dlgH = 420, 120
	x := vp.W/2 - dlgW/2
	y := vp.H/2 - dlgH/2
	vector.DrawFilledRect(screen, float32(x), float32(y), dlgW, dlgH, colorPanel, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Replace model for %s?", dlg.AgentID), x+12, y+12)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s -> %s", dlg.OldModel, dlg.NewModel), x+12, y+32)
	ebitenutil.DebugPrintAt(screen, "[Enter] confirm   [Esc] cancel", x+12, y+56)
	if dlg.Error != "" {
		ebitenutil.DebugPrintAt(screen, "error: "+dlg.Error, x+12, y+80)
	}
}
