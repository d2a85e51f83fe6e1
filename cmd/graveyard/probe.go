package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	graveyard "github.com/geomingical/Graveyard-Dashboard"
	"pkt.systems/pslog"
)

func newProbeCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe the roster once and write a status snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)

			cfg, err := graveyard.LoadConfig()
			if err != nil {
				return err
			}
			roster, err := graveyard.LoadRoster(cfg.Data.RosterPath)
			if err != nil {
				return err
			}

			prober := graveyard.NewProber(
				graveyard.WithWorkers(cfg.Probe.Workers),
				graveyard.WithSeed(cfg.Probe.Seed),
				graveyard.WithProberLogger(logger),
			)
			feed := graveyard.NewStatusFeed(prober.ProbeAll(ctx, roster))

			if outputPath == "" {
				outputPath = filepath.Join(cfg.Data.Dir, "graveyard_status.json")
			}
			if err := writeFeed(outputPath, feed); err != nil {
				return err
			}

			if history, err := graveyard.OpenHistory(cfg.Data.HistoryDB); err == nil {
				defer history.Close()
				if _, err := history.Append(feed); err != nil {
					logger.Warn("history append failed", "err", err)
				}
			} else {
				logger.Warn("history unavailable", "err", err)
			}

			printSummary(outputPath, feed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "status snapshot path")
	return cmd
}

func writeFeed(path string, feed *graveyard.StatusFeed) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("encode feed: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	return nil
}

func printSummary(path string, feed *graveyard.StatusFeed) {
	counts := map[graveyard.Severity]int{}
	for _, it := range feed.Items {
		counts[it.Severity]++
	}

	green := color.New(color.FgGreen).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()
	bold := color.New(color.Bold).SprintfFunc()

	fmt.Printf("Generated %d items -> %s | %s %s %s %s\n",
		len(feed.Items), bold("%s", path),
		green("OK=%d", counts[graveyard.SeverityOK]),
		yellow("WARN=%d", counts[graveyard.SeverityWarn]),
		red("ERROR=%d", counts[graveyard.SeverityError]),
		red("CRITICAL=%d", counts[graveyard.SeverityCritical]),
	)
}
