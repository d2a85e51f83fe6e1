package main

import (
	"context"

	"github.com/spf13/cobra"

	graveyard "github.com/geomingical/Graveyard-Dashboard"
	"pkt.systems/pslog"
)

func newViewCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the desktop dashboard window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			client := graveyard.NewClient(serverURL)
			coord := graveyard.NewCoordinator(client,
				graveyard.WithCoordinatorLogger(logger))

			refresh := func() {
				if err := coord.ManualRefresh(context.Background()); err != nil {
					logger.Warn("manual refresh failed", "err", err)
				}
			}
			window := graveyard.NewEbitenTarget(client, refresh,
				graveyard.WithRefreshAction(refresh))
			coord.AddTarget(window)

			if err := coord.LoadInitial(ctx); err != nil {
				return err
			}
			defer coord.Close()

			logger.Info("desktop viewer connected", "server", serverURL)
			return window.Run()
		},
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "dashboard backend URL")
	return cmd
}
