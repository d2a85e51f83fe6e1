package graveyard

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Errorf("Addr %q", cfg.HTTP.Addr)
	}
	if cfg.Data.RosterPath != filepath.Join("data", "roster.json") {
		t.Errorf("RosterPath %q", cfg.Data.RosterPath)
	}
	if cfg.Data.HistoryDB != filepath.Join("data", "graveyard_history.db") {
		t.Errorf("HistoryDB %q", cfg.Data.HistoryDB)
	}
	if !cfg.Probe.Simulate || cfg.Probe.Workers != 3 || cfg.Probe.Seed != 42 {
		t.Errorf("probe config %+v", cfg.Probe)
	}
	if cfg.Probe.Timeout != 60*time.Second {
		t.Errorf("probe timeout %v", cfg.Probe.Timeout)
	}
	if cfg.Refresh.Interval != 0 {
		t.Errorf("refresh interval %v", cfg.Refresh.Interval)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GRAVEYARD_HTTP_ADDR", ":9999")
	t.Setenv("GRAVEYARD_DATA_DIR", "/tmp/gy")
	t.Setenv("GRAVEYARD_DATA_ROSTER_PATH", "/etc/roster.json")
	t.Setenv("GRAVEYARD_REFRESH_INTERVAL", "5m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTP.Addr != ":9999" {
		t.Errorf("Addr %q", cfg.HTTP.Addr)
	}
	// An explicit roster path wins over the derived one.
	if cfg.Data.RosterPath != "/etc/roster.json" {
		t.Errorf("RosterPath %q", cfg.Data.RosterPath)
	}
	// The history path still derives from the overridden data dir.
	if cfg.Data.HistoryDB != filepath.Join("/tmp/gy", "graveyard_history.db") {
		t.Errorf("HistoryDB %q", cfg.Data.HistoryDB)
	}
	if cfg.Refresh.Interval != 5*time.Minute {
		t.Errorf("refresh interval %v", cfg.Refresh.Interval)
	}
}
