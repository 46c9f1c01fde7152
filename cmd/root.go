package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"navisync/internal/config"
	"navisync/internal/metrics"
	"navisync/internal/session"
)

var (
	sess    *session.Session
	cmdRoot = &cobra.Command{
		Use:               "navisync",
		Short:             "Reconcile local M3U playlists with a Subsonic server",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

func init() {
	cmdRoot.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/navisync/config.yaml)")
	cmdRoot.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmdRoot.PersistentFlags().String("metrics-file", "", "Write prometheus metrics to this textfile on exit")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmdRoot.ExecuteContext(ctx)
	stop()

	if sess != nil {
		sess.Close()
	}
	if path, _ := cmdRoot.PersistentFlags().GetString("metrics-file"); path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			slog.Warn("Could not write metrics", "error", err)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("locate config file: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	metrics.InitializeMetrics()
	sess = session.Open(cfg, path)
	return nil
}
