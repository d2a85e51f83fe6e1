package graveyard

import (
	"testing"
)

func TestItemIDRoundTrip(t *testing.T) {
	id := ItemID(TypeAgent, "laurasia")
	if id != "agent:laurasia" {
		t.Fatalf("id %q", id)
	}
	itemType, name, err := ParseItemID(id)
	if err != nil {
		t.Fatalf("ParseItemID: %v", err)
	}
	if itemType != TypeAgent || name != "laurasia" {
		t.Errorf("parsed (%s, %s)", itemType, name)
	}

	// Names may contain colons; only the first one splits.
	_, name, err = ParseItemID("category:ns:sub")
	if err != nil {
		t.Fatalf("ParseItemID: %v", err)
	}
	if name != "ns:sub" {
		t.Errorf("name %q", name)
	}
}

func TestParseItemIDErrors(t *testing.T) {
	for _, id := range []string{"", "nocolom", "robot:x"} {
		if _, _, err := ParseItemID(id); err == nil {
			t.Errorf("ParseItemID(%q) accepted", id)
		}
	}
}

func TestDisplayHelpers(t *testing.T) {
	empty := StatusItem{}
	if got := empty.DisplayName(); got != "unknown" {
		t.Errorf("DisplayName %q", got)
	}
	if got := empty.DisplayModel(); got != "n/a" {
		t.Errorf("DisplayModel %q", got)
	}
	if got := empty.DisplayLatency(); got != "n/a" {
		t.Errorf("DisplayLatency %q", got)
	}
	if got := empty.DisplayError(); got != "n/a" {
		t.Errorf("DisplayError %q", got)
	}

	full := StatusItem{Name: "x", Model: "vendor/m", LatencyMS: 120, ErrorMessage: "boom"}
	if full.DisplayName() != "x" || full.DisplayModel() != "vendor/m" {
		t.Error("populated fields replaced by placeholders")
	}
	if got := full.DisplayLatency(); got != "120ms" {
		t.Errorf("DisplayLatency %q", got)
	}
	if got := full.DisplayError(); got != "boom" {
		t.Errorf("DisplayError %q", got)
	}
}

func TestSeverityValid(t *testing.T) {
	for _, s := range []Severity{SeverityOK, SeverityWarn, SeverityError, SeverityCritical} {
		if !s.Valid() {
			t.Errorf("%s not valid", s)
		}
	}
	if Severity("FATAL").Valid() || Severity("").Valid() {
		t.Error("unknown severity accepted")
	}
}

func TestDecodeFeed(t *testing.T) {
	data := []byte(`{
		"generated_at": "2026-01-01T00:00:00Z",
		"schema_version": 1,
		"items": [
			{"id": "agent:a", "name": "a", "type": "agent", "status": "ALIVE", "severity": "OK"},
			{"name": "b", "type": "category", "status": "WEIRD_NEW_STATE", "severity": "OK"},
			{"type": "agent"}
		]
	}`)
	feed, err := DecodeFeed(data)
	if err != nil {
		t.Fatalf("DecodeFeed: %v", err)
	}
	if len(feed.Items) != 3 {
		t.Fatalf("got %d items", len(feed.Items))
	}
	// Missing ids are backfilled from type and name.
	if feed.Items[1].ID != "category:b" {
		t.Errorf("backfilled id %q", feed.Items[1].ID)
	}
	if feed.Items[2].ID != "agent:unknown" {
		t.Errorf("nameless id %q", feed.Items[2].ID)
	}
	// Unknown statuses survive decoding untouched.
	if feed.Items[1].Status != StatusCode("WEIRD_NEW_STATE") {
		t.Errorf("status %q", feed.Items[1].Status)
	}
}

func TestDecodeFeedMalformed(t *testing.T) {
	if _, err := DecodeFeed([]byte(`{broken`)); err == nil {
		t.Error("malformed feed accepted")
	}
}

func TestFeedFindAndReplace(t *testing.T) {
	feed := testFeed(2, 1)
	id := feed.Items[0].ID

	if found := feed.Find(id); found == nil || found.ID != id {
		t.Fatalf("Find(%q) = %+v", id, found)
	}
	if feed.Find("agent:nobody") != nil {
		t.Error("Find matched a missing id")
	}

	before := feed.GeneratedAt
	replacement := feed.Items[0]
	replacement.Model = "vendor/other"
	replacement.Status = StatusTimeout
	if !feed.Replace(replacement) {
		t.Fatal("Replace did not match")
	}
	if feed.Items[0].Model != "vendor/other" {
		t.Error("item not replaced")
	}
	if feed.GeneratedAt == before {
		t.Error("generated-at not bumped")
	}
	if feed.Replace(StatusItem{ID: "agent:nobody"}) {
		t.Error("Replace matched a missing id")
	}
}

func TestFeedClone(t *testing.T) {
	feed := testFeed(2, 1)
	clone := feed.Clone()
	clone.Items[0].Status = StatusTimeout
	if feed.Items[0].Status == StatusTimeout {
		t.Error("clone shares item storage with the original")
	}
	if clone.GeneratedAt != feed.GeneratedAt || len(clone.Items) != len(feed.Items) {
		t.Error("clone header diverged")
	}
}
