// Package analysis orchestrates shaderpack compatibility analysis:
// parsing block.properties, resolving tag coverage, categorizing
// missing blocks and validating blockstates and render layers against
// the block catalog.
package analysis

import (
	"fmt"
	"io"
	"time"

	"shaderlint/internal/catalog"
	"shaderlint/internal/config"
	"shaderlint/internal/logging"
	"shaderlint/internal/props"
	"shaderlint/internal/report"
)

// slowAnalysisThreshold flags packs whose analysis takes long enough to
// matter in watch mode.
const slowAnalysisThreshold = 5 * time.Second

// Analyzer analyzes shaderpacks against one fixed configuration and
// catalog. Safe for concurrent use.
type Analyzer struct {
	cfg        *config.Config
	catalog    catalog.Catalog
	defines    props.Defines
	tagSupport bool
	log        *logging.Logger
}

// New builds an analyzer, deriving the preprocessor environment from
// the configured game setup.
func New(cfg *config.Config, cat catalog.Catalog) (*Analyzer, error) {
	gameVersion, err := cfg.GameVersionInt()
	if err != nil {
		return nil, fmt.Errorf("resolving game version: %w", err)
	}

	tagSupport := cfg.TagSupportEnabled()
	defines := props.BuildDefines(props.Environment{
		GameVersion:            gameVersion,
		IrisVersion:            cfg.Game.IrisVersion,
		OculusVersion:          cfg.Game.OculusVersion,
		EuphoriaPatchesVersion: cfg.Game.EuphoriaPatchesVersion,
		TagSupport:             tagSupport,
		ExtraFlags:             cfg.Game.ExtraDefines,
		ExtraVariables:         cfg.Game.ExtraVariables,
	})

	return &Analyzer{
		cfg:        cfg,
		catalog:    cat,
		defines:    defines,
		tagSupport: tagSupport,
		log:        logging.Get(logging.CategoryAnalysis),
	}, nil
}

// TagSupport reports whether tag resolution is active for this analyzer.
func (a *Analyzer) TagSupport() bool { return a.tagSupport }

// Analyze parses one pack's block.properties and builds its report.
func (a *Analyzer) Analyze(packName string, r io.Reader) (*report.Report, error) {
	timer := logging.StartTimer(logging.CategoryPerformance, "analyze "+packName)
	defer timer.StopWithThreshold(slowAnalysisThreshold)

	parsed, err := props.NewParser(a.defines, a.tagSupport).Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", packName, err)
	}
	a.log.Info("%s: %d block definitions, %d render layer entries, %d tags defined",
		packName, len(parsed.Blocks), len(parsed.RenderLayers), parsed.TagDefs.Len())

	return a.buildReport(packName, parsed), nil
}

func (a *Analyzer) buildReport(packName string, parsed *props.Result) *report.Report {
	rep := report.New(packName)
	rep.TagSupportEnabled = a.tagSupport
	rep.TagDefs = parsed.TagDefs
	rep.TagAssignments = parsed.TagAssignments
	rep.Duplicates = parsed.Duplicates

	coverage, covered := a.resolveTags(parsed)
	rep.TagCoverage = coverage
	rep.MissingBlocks = a.categorizeMissing(covered)
	rep.IncompleteStates = a.validateBlockStates(parsed.Blocks)
	rep.LayerMismatches = a.validateRenderLayers(parsed.RenderLayers)

	rep.TotalBlocksInGame = len(a.catalog.AllBlockIDs())
	rep.TotalBlocksInShader = len(covered)

	a.log.Info("%s: %d/%d blocks covered, %d missing",
		packName, rep.TotalBlocksInShader, rep.TotalBlocksInGame, rep.TotalMissing())
	return rep
}
