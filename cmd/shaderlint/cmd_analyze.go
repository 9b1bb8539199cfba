package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"shaderlint/internal/analysis"
)

// analyzeCmd runs one analysis pass over every shaderpack
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze all shaderpacks and write reports",
	Long: `Scans the shaderpacks directory, analyzes each pack's
shaders/block.properties against the block catalog and writes one text
report per pack to the reports directory.`,
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	runner := analysis.NewRunner(cfg, store)
	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Printf("Reports written to %s\n", cfg.Report.Dir)
	return nil
}
