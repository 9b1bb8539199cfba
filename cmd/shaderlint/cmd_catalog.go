package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"shaderlint/internal/catalog"
	"shaderlint/internal/logging"
)

// catalogCmd groups block catalog maintenance
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the block catalog",
}

// catalogImportCmd fills the catalog from a registry dump
var catalogImportCmd = &cobra.Command{
	Use:   "import [dump.json]",
	Short: "Import a game registry dump into the catalog",
	Long: `Reads a JSON registry dump produced by the companion data generator
mod and replaces the catalog contents with it. Without an argument the
dump path from the config is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCatalogImport,
}

// catalogInfoCmd shows what the catalog holds
var catalogInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show catalog contents",
	RunE:  runCatalogInfo,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	dumpPath := cfg.Catalog.Dump
	if len(args) > 0 {
		// Command line paths are relative to the caller, not the workspace.
		dumpPath = args[0]
	}
	if dumpPath == "" {
		return fmt.Errorf("no dump file given and catalog.dump is not configured")
	}

	start := time.Now()
	dump, err := catalog.ReadDump(dumpPath)
	if err != nil {
		return fmt.Errorf("failed to read dump: %w", err)
	}

	store, err := catalog.Open(cfg.Catalog.Database)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	if err := store.Import(dump); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	logging.Audit().CatalogLoaded(dumpPath, len(dump.Blocks), time.Since(start).Milliseconds())

	fmt.Printf("Imported %d blocks, %d tags, %d entities (game %s) into %s\n",
		len(dump.Blocks), len(dump.Tags), len(dump.Entities), dump.GameVersion, cfg.Catalog.Database)
	return nil
}

func runCatalogInfo(cmd *cobra.Command, args []string) error {
	store, err := catalog.Open(cfg.Catalog.Database)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer store.Close()

	version := store.GameVersion()
	if version == "" {
		fmt.Printf("Catalog %s is empty, run \"shaderlint catalog import <dump.json>\" to fill it.\n", cfg.Catalog.Database)
		return nil
	}

	fmt.Printf("Catalog: %s\n", cfg.Catalog.Database)
	fmt.Printf("Game version: %s\n", version)

	stats := store.Stats()
	tables := make([]string, 0, len(stats))
	for table := range stats {
		tables = append(tables, table)
	}
	sort.Strings(tables)
	for _, table := range tables {
		fmt.Printf("  %-16s %d\n", table, stats[table])
	}
	return nil
}

func init() {
	catalogCmd.AddCommand(catalogImportCmd, catalogInfoCmd)
}
