package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shaderlint/internal/analysis"
	"shaderlint/internal/shaderpack"
)

// watchCmd reruns the analysis whenever shaderpacks change
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the shaderpacks directory and reanalyze on changes",
	Long: `Runs a full analysis, then keeps watching the shaderpacks directory
and reruns the analysis once changes settle. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	runner := analysis.NewRunner(cfg, store)
	runAll := func(ctx context.Context) {
		err := runner.Run(ctx)
		if err != nil && !errors.Is(err, analysis.ErrAlreadyRunning) && !errors.Is(err, context.Canceled) {
			logger.Error("Analysis run failed", zap.Error(err))
		}
	}

	watcher, err := shaderpack.NewWatcher(cfg.Paths.ShaderpacksDir, cfg.GetWatchDebounce(), runAll)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Printf("Watching %s (debounce %s), press Ctrl-C to stop\n",
		cfg.Paths.ShaderpacksDir, cfg.GetWatchDebounce())

	// Initial pass so reports exist before the first change arrives.
	runAll(ctx)

	<-ctx.Done()
	watcher.Stop()

	stats := watcher.Stats()
	fmt.Printf("Stopped after %d events, %d analysis runs\n", stats.EventsSeen, stats.RunsTriggered)
	return nil
}
