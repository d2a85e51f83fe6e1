package graveyard

import "context"

// Target is a dashboard output destination. Each target owns its own
// viewport and runs its own scene build + render pass per update.
type Target interface {
	// Update hands the target a fresh status feed.
	Update(ctx context.Context, feed *StatusFeed) error

	// Close cleans up the target.
	Close() error

	// Name returns a descriptive name for logging.
	Name() string
}
