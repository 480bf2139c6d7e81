package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"logpeek/internal/config"
	"logpeek/internal/export"
	"logpeek/internal/loader"
	"logpeek/internal/settings"
	"logpeek/internal/ui"
	"logpeek/internal/util/logx"
	"logpeek/internal/version"
)

func main() {
	logx.SetLevelFromEnv()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(2)
	}

	if cfg.ShowVersion {
		fmt.Println(version.String())
		return
	}

	st, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		logx.Warnf("settings: %v (using defaults)", err)
	}
	cfg.Merge(st)

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.ExportFormat != "" {
		if err := runExport(ctx, cfg); err != nil {
			fmt.Fprintln(os.Stderr, "export error:", err)
			os.Exit(1)
		}
		return
	}

	logx.Infof("starting %s: %s", version.String(), cfg.String())
	if err := ui.Run(ctx, cfg, st); err != nil {
		logx.Errorf("%s exited with error: %v", version.Name, err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// runExport loads the given files and writes them without starting the UI.
func runExport(ctx context.Context, cfg *config.Config) error {
	res, err := loader.LoadFiles(ctx, cfg.Files, loader.Options{Format: cfg.ForceFormat, TimeLayout: cfg.TimeLayout, NoCache: cfg.NoCache})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
	meta := export.Meta{DataSource: res.DataSource, DateFormat: cfg.DateFormat, Session: res.Session}
	if err := export.Write(cfg.ExportFormat, cfg.ExportOut, res.Messages, meta); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported %d messages to %s (session %s)\n", len(res.Messages), cfg.ExportOut, res.Session)
	return nil
}
