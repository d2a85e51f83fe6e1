package graveyard

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the dashboard runtime configuration, read from GRAVEYARD_*
// environment variables.
type Config struct {
	HTTP    HTTPConfig
	Data    DataConfig
	Probe   ProbeConfig
	Refresh RefreshConfig
}

// HTTPConfig configures the HTTP listener.
type HTTPConfig struct {
	Addr   string `default:":8080"`
	WebDir string `envconfig:"WEB_DIR"`
}

// DataConfig locates the roster and history files.
type DataConfig struct {
	Dir        string `default:"data"`
	RosterPath string `envconfig:"ROSTER_PATH"`
	HistoryDB  string `envconfig:"HISTORY_DB"`
}

// ProbeConfig controls roster probing.
type ProbeConfig struct {
	Simulate bool          `default:"true"`
	Workers  int           `default:"3"`
	Timeout  time.Duration `default:"60s"`
	Seed     int64         `default:"42"`
}

// RefreshConfig controls background refresh. A zero interval disables it.
type RefreshConfig struct {
	Interval time.Duration `default:"0"`
}

// LoadConfig reads configuration from the environment, filling in derived
// defaults for unset paths.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("GRAVEYARD_HTTP", &cfg.HTTP); err != nil {
		return cfg, fmt.Errorf("load http config: %w", err)
	}
	if err := envconfig.Process("GRAVEYARD_DATA", &cfg.Data); err != nil {
		return cfg, fmt.Errorf("load data config: %w", err)
	}
	if err := envconfig.Process("GRAVEYARD_PROBE", &cfg.Probe); err != nil {
		return cfg, fmt.Errorf("load probe config: %w", err)
	}
	if err := envconfig.Process("GRAVEYARD_REFRESH", &cfg.Refresh); err != nil {
		return cfg, fmt.Errorf("load refresh config: %w", err)
	}

	if cfg.Data.RosterPath == "" {
		cfg.Data.RosterPath = filepath.Join(cfg.Data.Dir, "roster.json")
	}
	if cfg.Data.HistoryDB == "" {
		cfg.Data.HistoryDB = filepath.Join(cfg.Data.Dir, "graveyard_history.db")
	}
	return cfg, nil
}
