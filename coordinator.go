package graveyard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pkt.systems/pslog"
)

// Coordinator owns the current status feed and drives scene rebuilds across
// all registered targets. The feed cell has exactly one writer: every
// mutation happens here, and targets only ever see whole snapshots. Each
// pass is idempotent for a given feed, so racing refreshes and resizes only
// decide which snapshot paints last.
type Coordinator struct {
	mu       sync.RWMutex
	source   FeedSource
	targets  []Target
	feed     *StatusFeed
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	log      pslog.Logger
}

// CoordinatorOption configures the Coordinator.
type CoordinatorOption func(*Coordinator)

// WithRefreshInterval enables periodic background refresh. Zero disables it.
func WithRefreshInterval(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.interval = d
	}
}

// WithCoordinatorLogger sets the diagnostic logger.
func WithCoordinatorLogger(log pslog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		c.log = log
	}
}

// NewCoordinator creates a Coordinator reading from the given source.
func NewCoordinator(source FeedSource, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		source: source,
		done:   make(chan struct{}),
		log:    pslog.Ctx(context.Background()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddTarget adds an output target.
func (c *Coordinator) AddTarget(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.targets = append(c.targets, t)
}

// RemoveTarget removes a target by reference.
func (c *Coordinator) RemoveTarget(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, target := range c.targets {
		if target == t {
			c.targets = append(c.targets[:i], c.targets[i+1:]...)
			return
		}
	}
}

// Feed returns the current feed snapshot.
func (c *Coordinator) Feed() *StatusFeed {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.feed
}

// LoadInitial fetches the feed for the first time and renders it everywhere.
func (c *Coordinator) LoadInitial(ctx context.Context) error {
	feed, err := c.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("initial feed load: %w", err)
	}
	c.apply(ctx, feed)
	return nil
}

// ManualRefresh asks the source to re-probe and renders the fresh feed. A
// failed refresh leaves the previous feed and the last good render intact.
func (c *Coordinator) ManualRefresh(ctx context.Context) error {
	var feed *StatusFeed
	var err error
	if r, ok := c.source.(Refresher); ok {
		feed, err = r.Refresh(ctx)
	} else {
		feed, err = c.source.Fetch(ctx)
	}
	if err != nil {
		c.log.Warn("refresh failed, keeping previous feed", "err", err)
		return fmt.Errorf("manual refresh: %w", err)
	}
	c.apply(ctx, feed)
	return nil
}

// OnResize re-renders the already-held feed; it never re-fetches.
func (c *Coordinator) OnResize(ctx context.Context) {
	c.mu.RLock()
	feed := c.feed
	c.mu.RUnlock()
	if feed == nil {
		return
	}
	c.broadcast(ctx, feed)
}

func (c *Coordinator) apply(ctx context.Context, feed *StatusFeed) {
	c.mu.Lock()
	c.feed = feed
	c.mu.Unlock()
	c.broadcast(ctx, feed)
}

func (c *Coordinator) broadcast(ctx context.Context, feed *StatusFeed) {
	c.mu.RLock()
	targets := make([]Target, len(c.targets))
	copy(targets, c.targets)
	c.mu.RUnlock()

	for _, target := range targets {
		if err := target.Update(ctx, feed); err != nil {
			c.log.Warn("target update failed", "target", target.Name(), "err", err)
		}
	}
}

// Start begins periodic refreshes at the configured interval.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return fmt.Errorf("coordinator already started")
	}
	if c.interval <= 0 {
		c.mu.Unlock()
		return fmt.Errorf("no refresh interval configured")
	}
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	if err := c.LoadInitial(ctx); err != nil {
		c.mu.Lock()
		c.cancel()
		c.cancel = nil
		c.mu.Unlock()
		return err
	}

	go c.run(ctx)
	return nil
}

func (c *Coordinator) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ManualRefresh(ctx); err != nil {
				c.log.Warn("periodic refresh failed", "err", err)
			}
		}
	}
}

// Stop stops periodic refreshes.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-c.done
}

// Close stops the coordinator and closes all targets.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	targets := c.targets
	c.targets = nil
	c.mu.Unlock()

	var lastErr error
	for _, target := range targets {
		if err := target.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
