package analysis

import (
	"strings"

	"shaderlint/internal/logging"
	"shaderlint/internal/props"
	"shaderlint/internal/report"
)

// validateRenderLayers compares declared layer assignments against the
// catalog's layer for each block's default state. Tripwire counts as
// translucent, matching how shaders bucket it. Runs only in deep mode
// with the check enabled; blocks the catalog does not know are skipped.
func (a *Analyzer) validateRenderLayers(declared map[string]string) map[string]report.LayerMismatch {
	mismatches := make(map[string]report.LayerMismatch)
	if !a.cfg.IsDeepScan() || !a.cfg.Checks.ValidateRenderLayers {
		return mismatches
	}

	for entry, layer := range declared {
		blockID := props.BaseID(entry)
		state, ok := a.catalog.DefaultState(blockID)
		if !ok {
			logging.LayersDebug("Skipping layer check for unknown block %s", blockID)
			continue
		}

		actual := state.ShaderLayer()
		if !strings.EqualFold(layer, actual) {
			mismatches[blockID] = report.LayerMismatch{Expected: layer, Actual: actual}
			logging.Layers("Block %s declared layer %s but renders %s", blockID, layer, actual)
		}
	}

	return mismatches
}
