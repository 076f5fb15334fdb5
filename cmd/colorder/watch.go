package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"colorder/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directories...]",
		Short: "Reformat new exports as they appear in the given directories",
		Long: `watch reformats every export saved into the watched directories once it has
stopped changing. Directories default to watch.directories from the
configuration file. Press Ctrl-C to stop and print a session summary.`,
		RunE: runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, reformatter, out, err := setup(cmd)
	if err != nil {
		return err
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = cfg.Watch.Directories
	}
	if len(dirs) == 0 {
		return errors.New("no directories to watch: pass them as arguments or set watch.directories")
	}

	ctx, stop := signalContext()
	defer stop()

	watchCfg := &watcher.WatchConfig{
		DebounceSeconds:   cfg.Watch.DebounceSeconds,
		StableThresholdMs: cfg.Watch.StableThresholdMs,
		IgnorePatterns:    cfg.Watch.IgnorePatterns,
		Naming:            cfg.Naming(),
	}

	handler := func(path string) error {
		summary, err := reformatter.Run(ctx, path)
		if err != nil {
			return err
		}
		summary.Report(out)
		return nil
	}
	onError := func(path string, err error) {
		if path == "" {
			out.Warn("watch: %v", err)
			return
		}
		out.Error("Error: %v", err)
	}

	w := watcher.New(watchCfg, handler, onError)
	if err := w.Start(dirs); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	out.Info("Watching %v for new exports (Ctrl-C to stop)", dirs)

	<-ctx.Done()
	summary := w.Stop()

	out.Info("Watch session: %d reformatted, %d failed, %d skipped in %s",
		summary.FilesReformatted, summary.FilesFailed, summary.FilesSkipped,
		summary.Duration.Round(time.Second))
	return nil
}
