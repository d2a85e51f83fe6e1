package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	graveyard "github.com/geomingical/Graveyard-Dashboard"
	"pkt.systems/pslog"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard backend and web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			cfg, err := graveyard.LoadConfig()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}

			prober := graveyard.NewProber(
				graveyard.WithWorkers(cfg.Probe.Workers),
				graveyard.WithSeed(cfg.Probe.Seed),
				graveyard.WithProberLogger(logger),
			)

			history, err := graveyard.OpenHistory(cfg.Data.HistoryDB)
			if err != nil {
				return err
			}
			defer history.Close()

			server := graveyard.NewServer(cfg.Data.RosterPath, prober,
				graveyard.WithHistory(history),
				graveyard.WithServerLogger(logger),
			)

			web, err := graveyard.NewWebTarget(cfg.HTTP.Addr,
				graveyard.WithWebDir(cfg.HTTP.WebDir),
				graveyard.WithBackend(server),
			)
			if err != nil {
				return err
			}

			coord := graveyard.NewCoordinator(server,
				graveyard.WithRefreshInterval(cfg.Refresh.Interval),
				graveyard.WithCoordinatorLogger(logger),
			)
			coord.AddTarget(web)

			if cfg.Refresh.Interval > 0 {
				if err := coord.Start(ctx); err != nil {
					return err
				}
			} else if err := coord.LoadInitial(ctx); err != nil {
				return err
			}

			logger.Info("dashboard serving",
				"addr", cfg.HTTP.Addr, "roster", cfg.Data.RosterPath)
			<-ctx.Done()
			return coord.Close()
		},
	}
}
