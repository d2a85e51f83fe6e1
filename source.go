package graveyard

import "context"

// FeedSource provides the current status feed.
type FeedSource interface {
	// Fetch returns the current feed.
	Fetch(ctx context.Context) (*StatusFeed, error)
}

// Refresher is a FeedSource that can re-probe on demand. Sources without
// re-probing fall back to a plain Fetch.
type Refresher interface {
	Refresh(ctx context.Context) (*StatusFeed, error)
}

// StaticFeedSource wraps a fixed feed.
type StaticFeedSource struct {
	feed *StatusFeed
}

// NewStaticFeedSource creates a FeedSource from a fixed feed.
func NewStaticFeedSource(feed *StatusFeed) *StaticFeedSource {
	return &StaticFeedSource{feed: feed}
}

// Fetch implements FeedSource.
func (s *StaticFeedSource) Fetch(ctx context.Context) (*StatusFeed, error) {
	return s.feed, nil
}

// CallbackFeedSource calls a function to get the feed.
type CallbackFeedSource struct {
	fn func(ctx context.Context) (*StatusFeed, error)
}

// NewCallbackFeedSource creates a FeedSource from a callback function.
func NewCallbackFeedSource(fn func(ctx context.Context) (*StatusFeed, error)) *CallbackFeedSource {
	return &CallbackFeedSource{fn: fn}
}

// Fetch implements FeedSource.
func (s *CallbackFeedSource) Fetch(ctx context.Context) (*StatusFeed, error) {
	return s.fn(ctx)
}

var _ FeedSource = (*Client)(nil)
var _ Refresher = (*Client)(nil)
