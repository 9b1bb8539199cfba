package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"shaderlint/internal/gamever"
)

// Scan modes for blockstate analysis.
const (
	ScanQuick = "quick" // default state only (fast)
	ScanDeep  = "deep"  // all block states (slow but thorough)
)

// Tag support modes.
const (
	TagSupportDetect = "detect" // enable when the configured Iris version is 1.8+
	TagSupportTrue   = "true"   // force enable
	TagSupportFalse  = "false"  // force disable
)

// Config holds all shaderlint configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Analysis behavior
	Analysis AnalysisConfig `yaml:"analysis"`

	// Category checks and render layer validation
	Checks ChecksConfig `yaml:"checks"`

	// Host game environment the shaderpacks target
	Game GameConfig `yaml:"game"`

	// Filesystem locations
	Paths PathsConfig `yaml:"paths"`

	// Block catalog storage
	Catalog CatalogConfig `yaml:"catalog"`

	// Report output
	Report ReportConfig `yaml:"report"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AnalysisConfig configures how shaderpacks are analyzed.
type AnalysisConfig struct {
	ScanMode   string `yaml:"scan_mode"`   // quick, deep
	TagSupport string `yaml:"tag_support"` // detect, true, false
	Workers    int    `yaml:"workers"`     // shaderpacks analyzed in parallel
}

// ChecksConfig toggles the individual category checks. A disabled check
// falls through to the next one in priority order.
type ChecksConfig struct {
	BlockEntity          bool `yaml:"block_entity"`
	LightEmitting        bool `yaml:"light_emitting"`
	Translucent          bool `yaml:"translucent"`
	NonFull              bool `yaml:"non_full"`
	Full                 bool `yaml:"full"`
	ValidateRenderLayers bool `yaml:"validate_render_layers"`
}

// GameConfig describes the game environment block.properties conditionals
// are evaluated against. Empty version strings mean "not installed".
type GameConfig struct {
	Version                string          `yaml:"version"`
	IrisVersion            string          `yaml:"iris_version"`
	OculusVersion          string          `yaml:"oculus_version"`
	EuphoriaPatchesVersion string          `yaml:"euphoria_patches_version"`
	ExtraDefines           map[string]bool `yaml:"extra_defines,omitempty"`
	ExtraVariables         map[string]int  `yaml:"extra_variables,omitempty"`
}

// PathsConfig configures filesystem locations.
type PathsConfig struct {
	ShaderpacksDir string `yaml:"shaderpacks_dir"`
	LogsDir        string `yaml:"logs_dir"`
}

// CatalogConfig configures block catalog storage.
type CatalogConfig struct {
	Database string `yaml:"database"` // SQLite database path
	Dump     string `yaml:"dump"`     // JSON catalog dump to import from
}

// ReportConfig configures report output.
type ReportConfig struct {
	Dir                string `yaml:"dir"`
	GenerateEntityList bool   `yaml:"generate_entity_list"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // quiet period before reanalysis
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "shaderlint",
		Version: "1.0.0",

		Analysis: AnalysisConfig{
			ScanMode:   ScanDeep,
			TagSupport: TagSupportDetect,
			Workers:    4,
		},

		Checks: ChecksConfig{
			BlockEntity:          true,
			LightEmitting:        true,
			Translucent:          true,
			NonFull:              true,
			Full:                 true,
			ValidateRenderLayers: true,
		},

		Game: GameConfig{
			Version: "1.21.1",
		},

		Paths: PathsConfig{
			ShaderpacksDir: "shaderpacks",
			LogsDir:        "logs",
		},

		Catalog: CatalogConfig{
			Database: "data/catalog.db",
		},

		Report: ReportConfig{
			Dir:                "reports",
			GenerateEntityList: true,
		},

		Watch: WatchConfig{
			Debounce: "2s",
		},

		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Analysis.ScanMode = strings.ToLower(strings.TrimSpace(cfg.Analysis.ScanMode))
	cfg.Analysis.TagSupport = strings.ToLower(strings.TrimSpace(cfg.Analysis.TagSupport))

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("SHADERLINT_SHADERPACKS_DIR"); dir != "" {
		c.Paths.ShaderpacksDir = dir
	}
	if dir := os.Getenv("SHADERLINT_REPORTS_DIR"); dir != "" {
		c.Report.Dir = dir
	}
	if db := os.Getenv("SHADERLINT_CATALOG_DB"); db != "" {
		c.Catalog.Database = db
	}
	if v := os.Getenv("SHADERLINT_MC_VERSION"); v != "" {
		c.Game.Version = v
	}
	if mode := os.Getenv("SHADERLINT_SCAN_MODE"); mode != "" {
		c.Analysis.ScanMode = strings.ToLower(mode)
	}
	if debug := os.Getenv("SHADERLINT_DEBUG"); debug == "1" || strings.EqualFold(debug, "true") {
		c.Logging.DebugMode = true
	}
}

// IsDeepScan returns whether all block states should be scanned.
func (c *Config) IsDeepScan() bool {
	return c.Analysis.ScanMode == ScanDeep
}

// TagSupportEnabled resolves the tag support mode against the configured
// Iris version. Detect mode enables tags only for Iris 1.8+.
func (c *Config) TagSupportEnabled() bool {
	switch c.Analysis.TagSupport {
	case TagSupportTrue:
		return true
	case TagSupportFalse:
		return false
	default:
		return gamever.IrisHasTagSupport(c.Game.IrisVersion)
	}
}

// DefinesEnabled returns whether the companion preprocessor defines are
// available, which requires Euphoria Patches 1.7.8+.
func (c *Config) DefinesEnabled() bool {
	return gamever.EuphoriaPatchesHasDefines(c.Game.EuphoriaPatchesVersion)
}

// GameVersionInt returns the configured game version in comparable
// integer form.
func (c *Config) GameVersionInt() (int, error) {
	return gamever.ParseGameVersion(c.Game.Version)
}

// GetWatchDebounce returns the watch debounce as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Analysis.ScanMode {
	case ScanQuick, ScanDeep:
	default:
		return fmt.Errorf("invalid scan mode: %q (valid: quick, deep)", c.Analysis.ScanMode)
	}

	switch c.Analysis.TagSupport {
	case TagSupportDetect, TagSupportTrue, TagSupportFalse:
	default:
		return fmt.Errorf("invalid tag support mode: %q (valid: detect, true, false)", c.Analysis.TagSupport)
	}

	if c.Analysis.Workers < 1 {
		return fmt.Errorf("analysis workers must be at least 1, got %d", c.Analysis.Workers)
	}

	if _, err := gamever.ParseGameVersion(c.Game.Version); err != nil {
		return fmt.Errorf("invalid game version: %w", err)
	}

	if c.Paths.ShaderpacksDir == "" {
		return fmt.Errorf("shaderpacks directory not configured")
	}

	return nil
}
