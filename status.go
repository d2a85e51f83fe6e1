// Package graveyard renders a model status roster as sprites on an isometric
// grid and serves the dashboard that displays it.
package graveyard

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity classifies how bad an item's status is.
type Severity string

// Known severities, ordered from healthy to dead.
const (
	SeverityOK       Severity = "OK"
	SeverityWarn     Severity = "WARN"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// Valid reports whether s is one of the documented severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityOK, SeverityWarn, SeverityError, SeverityCritical:
		return true
	}
	return false
}

// StatusCode is the probe outcome for a roster item.
type StatusCode string

// Known status codes.
const (
	StatusAlive         StatusCode = "ALIVE"
	StatusRateLimit     StatusCode = "RATE_LIMIT"
	StatusTimeout       StatusCode = "TIMEOUT"
	StatusProviderError StatusCode = "PROVIDER_ERROR"
	StatusUnauthorized  StatusCode = "UNAUTHORIZED"
	StatusModelNotFound StatusCode = "MODEL_NOT_FOUND"
	StatusBadRequest    StatusCode = "BAD_REQUEST"
	StatusInvalidConfig StatusCode = "INVALID_CONFIG"
)

// ItemType partitions the roster into the two rings.
type ItemType string

// Known item types.
const (
	TypeAgent    ItemType = "agent"
	TypeCategory ItemType = "category"
)

// StatusItem is one probed roster entry. Items are immutable once received;
// a new feed fully replaces the previous set.
type StatusItem struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         ItemType   `json:"type"`
	Model        string     `json:"model,omitempty"`
	Status       StatusCode `json:"status"`
	Severity     Severity   `json:"severity"`
	HTTPStatus   int        `json:"http_status"`
	ErrorType    string     `json:"error_type,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	LatencyMS    int        `json:"latency_ms"`
}

// ItemID formats the canonical "type:name" identity.
func ItemID(itemType ItemType, name string) string {
	return fmt.Sprintf("%s:%s", itemType, name)
}

// ParseItemID splits a "type:name" identity. It returns an error for
// malformed ids or unknown types.
func ParseItemID(id string) (ItemType, string, error) {
	parts := strings.SplitN(id, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid item id %q", id)
	}
	itemType := ItemType(parts[0])
	if itemType != TypeAgent && itemType != TypeCategory {
		return "", "", fmt.Errorf("invalid item id %q: unknown type %q", id, parts[0])
	}
	return itemType, parts[1], nil
}

// Placeholder used when an optional field is absent.
const notApplicable = "n/a"

// DisplayName returns the item name, or a literal placeholder when missing.
func (it *StatusItem) DisplayName() string {
	if it.Name == "" {
		return "unknown"
	}
	return it.Name
}

// DisplayModel returns the model, or a placeholder when missing.
func (it *StatusItem) DisplayModel() string {
	if it.Model == "" {
		return notApplicable
	}
	return it.Model
}

// DisplayLatency formats the probe latency, or a placeholder when absent.
func (it *StatusItem) DisplayLatency() string {
	if it.LatencyMS <= 0 {
		return notApplicable
	}
	return fmt.Sprintf("%dms", it.LatencyMS)
}

// DisplayError returns the probe error message, or a placeholder when absent.
func (it *StatusItem) DisplayError() string {
	if it.ErrorMessage == "" {
		return notApplicable
	}
	return it.ErrorMessage
}

// StatusFeed is one complete probe snapshot. The scene is only ever built
// from a whole feed, never a partially updated one.
type StatusFeed struct {
	GeneratedAt   string       `json:"generated_at"`
	SchemaVersion int          `json:"schema_version"`
	Items         []StatusItem `json:"items"`
}

// CurrentSchemaVersion is the feed schema this package produces.
const CurrentSchemaVersion = 1

// NewStatusFeed stamps a feed around the given items.
func NewStatusFeed(items []StatusItem) *StatusFeed {
	return &StatusFeed{
		GeneratedAt:   time.Now().Format(time.RFC3339),
		SchemaVersion: CurrentSchemaVersion,
		Items:         items,
	}
}

// Find returns the item with the given id, or nil.
func (f *StatusFeed) Find(id string) *StatusItem {
	for i := range f.Items {
		if f.Items[i].ID == id {
			return &f.Items[i]
		}
	}
	return nil
}

// Replace swaps the item with newItem's id and bumps the generated-at stamp.
// It reports whether a matching item was found.
func (f *StatusFeed) Replace(newItem StatusItem) bool {
	for i := range f.Items {
		if f.Items[i].ID == newItem.ID {
			f.Items[i] = newItem
			f.GeneratedAt = time.Now().Format(time.RFC3339)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the feed.
func (f *StatusFeed) Clone() *StatusFeed {
	out := &StatusFeed{
		GeneratedAt:   f.GeneratedAt,
		SchemaVersion: f.SchemaVersion,
		Items:         make([]StatusItem, len(f.Items)),
	}
	copy(out.Items, f.Items)
	return out
}

// DecodeFeed parses a feed document. Validation is non-destructive: items
// with missing optional fields are kept as-is, and an unrecognized status or
// severity never rejects the document.
func DecodeFeed(data []byte) (*StatusFeed, error) {
	var feed StatusFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("decode status feed: %w", err)
	}
	for i := range feed.Items {
		it := &feed.Items[i]
		if it.ID == "" {
			it.ID = ItemID(it.Type, it.DisplayName())
		}
	}
	return &feed, nil
}
