// Package main implements the shaderlint CLI: shaderpack block mapping
// analysis against an imported copy of the game's block registry.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shaderlint/internal/catalog"
	"shaderlint/internal/config"
	"shaderlint/internal/logging"
)

const appVersion = "1.0.0"

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Set by PersistentPreRunE for every command that needs them
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shaderlint",
	Short: "Shaderpack block mapping analyzer",
	Long: `shaderlint checks Minecraft shaderpacks against the game's block
registry: which blocks a pack's block.properties maps, which are missing
(grouped by mod and category), whether tag references expand, whether
blockstate definitions cover every property value, and whether declared
render layers match the game's.

The registry is imported once from a JSON dump into a local SQLite
catalog ("shaderlint catalog import"), after that analysis runs fully
offline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version and config init must work without a loadable config.
		switch cmd.Name() {
		case "version", "init":
			return nil
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(configFilePath())
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configFilePath(), err)
		}

		// Anchor relative paths in the workspace so commands can use
		// them as-is no matter where shaderlint runs from.
		cfg.Paths.ShaderpacksDir = resolvePath(cfg.Paths.ShaderpacksDir)
		cfg.Paths.LogsDir = resolvePath(cfg.Paths.LogsDir)
		cfg.Report.Dir = resolvePath(cfg.Report.Dir)
		cfg.Catalog.Database = resolvePath(cfg.Catalog.Database)
		cfg.Catalog.Dump = resolvePath(cfg.Catalog.Dump)

		if err := logging.Initialize(logging.Options{
			Dir:        cfg.Paths.LogsDir,
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			return fmt.Errorf("failed to initialize category logging: %w", err)
		}
		if err := logging.InitAudit(); err != nil {
			return fmt.Errorf("failed to initialize audit log: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAudit()
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// versionCmd prints the tool version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the shaderlint version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shaderlint %s\n", appVersion)
	},
}

// configFilePath returns the active config file location: --config when
// given, shaderlint.yaml in the workspace otherwise.
func configFilePath() string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(workspaceDir(), "shaderlint.yaml")
}

func workspaceDir() string {
	if workspace != "" {
		return workspace
	}
	return "."
}

// resolvePath anchors a relative config path in the workspace. Absolute
// paths and empty values pass through untouched.
func resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspaceDir(), p)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// openCatalog opens the configured block catalog, refusing one that has
// never been imported.
func openCatalog() (*catalog.Store, error) {
	store, err := catalog.Open(cfg.Catalog.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if store.GameVersion() == "" {
		store.Close()
		return nil, fmt.Errorf("catalog %s is empty, run \"shaderlint catalog import <dump.json>\" first", cfg.Catalog.Database)
	}
	return store, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/shaderlint.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	// Add commands to root
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
