package graveyard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pkt.systems/pslog"
)

// InteractionState is the tooltip lifecycle state.
type InteractionState int

// Tooltip lifecycle states. DialogOpen suppresses tooltip hide/show
// transitions while the confirmation dialog is up.
const (
	StateIdle InteractionState = iota
	StateTooltipShown
	StateTooltipInteractive
	StateDialogOpen
)

// DefaultGracePeriod is how long the tooltip survives after the pointer
// leaves a sprite, so the pointer can transit from sprite to tooltip.
const DefaultGracePeriod = 400 * time.Millisecond

// Estimated tooltip extents used for anchoring.
const (
	tooltipW            = 260
	tooltipH            = 120
	tooltipInteractiveH = 168
	tooltipEdgeMargin   = 10
)

// Timer is a cancelable delayed task.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed tasks. The system clock is used outside tests.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// SuggestionSource fetches a replacement suggestion for a failed model.
type SuggestionSource interface {
	Suggest(ctx context.Context, model string) (string, error)
}

// Replacer applies a model replacement.
type Replacer interface {
	ReplaceModel(ctx context.Context, agentID, newModel string) (*ReplaceResult, error)
}

// PendingReplacement is a suggested remediation awaiting confirmation.
type PendingReplacement struct {
	AgentID  string
	OldModel string
	NewModel string
}

// Interaction manages the hover tooltip, the asynchronous suggestion
// sub-flow, and the replacement confirmation dialog. All long-lived mutable
// state lives here, guarded by a single mutex; pointer events and network
// continuations never touch it concurrently.
type Interaction struct {
	mu      sync.Mutex
	display *Display
	backend interface {
		SuggestionSource
		Replacer
	}
	clock       Clock
	grace       time.Duration
	log         pslog.Logger
	onConfirmed func()

	state      InteractionState
	hovered    *SpriteDescriptor
	viewport   Viewport
	gen        int
	suggestion string
	hideTimer  Timer
	hideGen    int
	pending    *PendingReplacement
}

// InteractionOption configures an Interaction.
type InteractionOption func(*Interaction)

// WithClock overrides the timer clock.
func WithClock(c Clock) InteractionOption {
	return func(i *Interaction) {
		i.clock = c
	}
}

// WithGracePeriod overrides the tooltip hide grace period.
func WithGracePeriod(d time.Duration) InteractionOption {
	return func(i *Interaction) {
		i.grace = d
	}
}

// WithOnConfirmed registers a hook run after a replacement is confirmed and
// applied. The refresh coordinator hangs its re-fetch here.
func WithOnConfirmed(fn func()) InteractionOption {
	return func(i *Interaction) {
		i.onConfirmed = fn
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(log pslog.Logger) InteractionOption {
	return func(i *Interaction) {
		i.log = log
	}
}

// NewInteraction wires the interaction controller to a display and backend.
func NewInteraction(display *Display, backend interface {
	SuggestionSource
	Replacer
}, opts ...InteractionOption) *Interaction {
	i := &Interaction{
		display: display,
		backend: backend,
		clock:   systemClock{},
		grace:   DefaultGracePeriod,
		log:     pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// State returns the current lifecycle state.
func (i *Interaction) State() InteractionState {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Pending returns the replacement awaiting confirmation, or nil.
func (i *Interaction) Pending() *PendingReplacement {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.pending
}

// Tooltip returns a copy of the tooltip mount. Render loops on other
// goroutines read through this instead of the mount itself, which the
// controller's background continuations mutate under its own lock.
func (i *Interaction) Tooltip() TooltipMount {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.display.Tooltip == nil {
		return TooltipMount{}
	}
	tip := *i.display.Tooltip
	tip.Lines = append([]string(nil), tip.Lines...)
	return tip
}

// Dialog returns a copy of the dialog mount, see Tooltip.
func (i *Interaction) Dialog() DialogMount {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.display.Dialog == nil {
		return DialogMount{}
	}
	return *i.display.Dialog
}

// SetViewport tells the controller the viewport for tooltip anchoring.
func (i *Interaction) SetViewport(vp Viewport) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.viewport = vp
}

// PointerEnter handles the pointer entering a sprite's hover region. The
// tooltip content is populated synchronously from the sprite's status data;
// if the item is unhealthy and has a known model, a suggestion fetch is
// issued in the background.
func (i *Interaction) PointerEnter(ctx context.Context, sp *SpriteDescriptor, px, py int) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if sp == nil || i.state == StateDialogOpen {
		return
	}
	// An interactive tooltip owns pointer focus until dismissed.
	if i.state == StateTooltipInteractive && i.hovered != nil && i.hovered.ID != sp.ID {
		return
	}
	i.cancelHideLocked()

	if i.hovered != nil && i.hovered.ID == sp.ID && i.state != StateIdle {
		return
	}

	i.hovered = sp
	i.state = StateTooltipShown
	i.suggestion = ""
	i.gen++
	i.showTooltipLocked(px, py)

	if !sp.Tower && sp.Item.Severity != SeverityOK && sp.Item.Model != "" {
		gen := i.gen
		id := sp.ID
		model := sp.Item.Model
		go i.fetchSuggestion(ctx, gen, id, model)
	}
}

// PointerMove keeps a pointer-anchored tooltip tracking the pointer.
// Interactive tooltips are sprite-anchored and do not move.
func (i *Interaction) PointerMove(px, py int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != StateTooltipShown {
		return
	}
	if i.display.Tooltip != nil {
		i.display.Tooltip.X = px + 14
		i.display.Tooltip.Y = py + 14
	}
}

// PointerLeave starts the deferred hide. Scheduling always cancels any
// previously pending hide so a stale timer can never fire after a later
// state change.
func (i *Interaction) PointerLeave() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state == StateIdle || i.state == StateDialogOpen {
		return
	}
	i.cancelHideLocked()
	gen := i.hideGen
	i.hideTimer = i.clock.AfterFunc(i.grace, func() { i.hideNow(gen) })
}

// TooltipEnter cancels a pending hide when the pointer reaches the tooltip.
func (i *Interaction) TooltipEnter() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cancelHideLocked()
}

// TooltipLeave schedules the deferred hide, same as leaving the sprite.
func (i *Interaction) TooltipLeave() {
	i.PointerLeave()
}

// AcceptSuggestion opens the confirmation dialog for the current suggestion,
// locking tooltip transitions and recording the pending replacement.
func (i *Interaction) AcceptSuggestion() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != StateTooltipInteractive || i.hovered == nil || i.suggestion == "" {
		return
	}
	i.cancelHideLocked()
	i.pending = &PendingReplacement{
		AgentID:  i.hovered.ID,
		OldModel: i.hovered.Item.Model,
		NewModel: i.suggestion,
	}
	i.state = StateDialogOpen
	if i.display.Dialog != nil {
		*i.display.Dialog = DialogMount{
			Visible:  true,
			AgentID:  i.pending.AgentID,
			OldModel: i.pending.OldModel,
			NewModel: i.pending.NewModel,
		}
	}
}

// Confirm issues the replacement write. On success the dialog and tooltip
// are torn down and the confirmed hook runs; on failure the dialog stays up
// with the error and nothing else changes.
func (i *Interaction) Confirm(ctx context.Context) error {
	i.mu.Lock()
	if i.state != StateDialogOpen || i.pending == nil {
		i.mu.Unlock()
		return fmt.Errorf("no pending replacement")
	}
	pending := *i.pending
	i.mu.Unlock()

	result, err := i.backend.ReplaceModel(ctx, pending.AgentID, pending.NewModel)
	if err == nil && result == nil {
		err = fmt.Errorf("replace returned no result")
	}
	if err == nil && !result.OK {
		err = fmt.Errorf("replace rejected: %s", result.Error)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if err != nil {
		i.log.Warn("model replacement failed", "agent", pending.AgentID, "err", err)
		if i.display.Dialog != nil {
			i.display.Dialog.Error = err.Error()
		}
		return err
	}

	i.log.Info("model replaced", "agent", pending.AgentID,
		"old", pending.OldModel, "new", pending.NewModel)
	i.pending = nil
	i.resetLocked()
	if i.onConfirmed != nil {
		go i.onConfirmed()
	}
	return nil
}

// Cancel dismisses the dialog without issuing any request.
func (i *Interaction) Cancel() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != StateDialogOpen {
		return
	}
	i.pending = nil
	i.resetLocked()
}

func (i *Interaction) fetchSuggestion(ctx context.Context, gen int, spriteID, model string) {
	suggestion, err := i.backend.Suggest(ctx, model)

	i.mu.Lock()
	defer i.mu.Unlock()

	// A slow response for a sprite the pointer has left is discarded, not
	// applied; the generation counter also covers re-entry on the same id.
	if gen != i.gen || i.hovered == nil || i.hovered.ID != spriteID {
		return
	}
	if i.state != StateTooltipShown {
		return
	}
	if err != nil {
		i.log.Warn("suggestion fetch failed", "model", model, "err", err)
		if i.display.Tooltip != nil {
			i.display.Tooltip.Lines = append(i.display.Tooltip.Lines, "suggestion: unavailable")
		}
		return
	}
	if suggestion == "" {
		// No remediation available; the tooltip stays informational.
		return
	}

	i.suggestion = suggestion
	i.state = StateTooltipInteractive

	// Content height changed; re-anchor to the sprite box so the tooltip
	// cannot drift off-sprite.
	if i.display.Tooltip != nil {
		pos := AnchorTooltip(i.hovered.Box, tooltipW, tooltipInteractiveH, i.viewport)
		i.display.Tooltip.X = pos.X
		i.display.Tooltip.Y = pos.Y
		i.display.Tooltip.Interactive = true
		i.display.Tooltip.Suggestion = suggestion
		i.display.Tooltip.Lines = append(i.display.Tooltip.Lines,
			fmt.Sprintf("suggested: %s", suggestion))
	}
}

// hideNow runs when the grace period elapses. Stop on an AfterFunc timer can
// fail after the callback is already dispatched, so canceling alone is not
// enough: the hide generation check drops a callback whose scheduling has
// since been superseded.
func (i *Interaction) hideNow(gen int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if gen != i.hideGen {
		return
	}
	i.hideTimer = nil
	if i.state == StateDialogOpen || i.state == StateIdle {
		return
	}
	i.resetLocked()
}

func (i *Interaction) resetLocked() {
	i.cancelHideLocked()
	i.state = StateIdle
	i.hovered = nil
	i.suggestion = ""
	i.gen++
	if i.display.Tooltip != nil {
		i.display.Tooltip.Hide()
	}
	if i.display.Dialog != nil {
		i.display.Dialog.Hide()
	}
}

func (i *Interaction) cancelHideLocked() {
	i.hideGen++
	if i.hideTimer != nil {
		i.hideTimer.Stop()
		i.hideTimer = nil
	}
}

func (i *Interaction) showTooltipLocked(px, py int) {
	if i.display.Tooltip == nil {
		return
	}
	it := &i.hovered.Item
	lines := []string{
		it.DisplayName(),
		fmt.Sprintf("model: %s", it.DisplayModel()),
		fmt.Sprintf("status: %s (%s)", it.Status, it.Severity),
		fmt.Sprintf("latency: %s", it.DisplayLatency()),
	}
	if it.ErrorMessage != "" {
		lines = append(lines, fmt.Sprintf("error: %s", it.ErrorMessage))
	}
	*i.display.Tooltip = TooltipMount{
		Visible: true,
		X:       px + 14,
		Y:       py + 14,
		Lines:   lines,
	}
}

// AnchorTooltip places an interactive tooltip against a sprite box: the
// sprite's right edge when it fits, otherwise the left edge, vertically
// centered on the sprite and clamped to a fixed margin from the nearest
// viewport edge.
func AnchorTooltip(sprite PixelBox, tipW, tipH int, vp Viewport) ScreenPosition {
	x := sprite.Right() + tooltipEdgeMargin
	if x+tipW > vp.W {
		x = sprite.X - tooltipEdgeMargin - tipW
	}

	y := sprite.Y + sprite.H/2 - tipH/2
	if y < tooltipEdgeMargin {
		y = tooltipEdgeMargin
	}
	if max := vp.H - tooltipEdgeMargin - tipH; y > max {
		y = max
	}
	return ScreenPosition{X: x, Y: y}
}
