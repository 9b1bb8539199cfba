package analysis

import (
	"shaderlint/internal/catalog"
)

// Missing-block categories, in priority order.
const (
	CategoryBlockEntity   = "Block Entity"
	CategoryLightEmitting = "Light Emitting"
	CategoryTranslucent   = "Translucent"
	CategoryNonFull       = "Non-Full"
	CategoryFull          = "Full"
)

// categorizeMissing walks the whole block registry and buckets every
// uncovered block into namespace -> category -> IDs. Blocks matching no
// enabled category are left out of the report.
func (a *Analyzer) categorizeMissing(covered map[string]bool) map[string]map[string][]string {
	missing := make(map[string]map[string][]string)
	for _, blockID := range a.catalog.AllBlockIDs() {
		if covered[blockID] {
			continue
		}
		category, ok := a.categorize(blockID)
		if !ok {
			continue
		}
		namespace := catalog.Namespace(blockID)
		if missing[namespace] == nil {
			missing[namespace] = make(map[string][]string)
		}
		missing[namespace][category] = append(missing[namespace][category], blockID)
	}
	return missing
}

func (a *Analyzer) categorize(blockID string) (string, bool) {
	if a.cfg.IsDeepScan() {
		return a.categorizeDeep(blockID)
	}
	return a.categorizeQuick(blockID)
}

// categorizeQuick checks only the default state.
func (a *Analyzer) categorizeQuick(blockID string) (string, bool) {
	checks := a.cfg.Checks
	if checks.BlockEntity && a.catalog.HasBlockEntity(blockID) {
		return CategoryBlockEntity, true
	}

	state, ok := a.catalog.DefaultState(blockID)
	if !ok {
		return "", false
	}

	switch {
	case checks.LightEmitting && state.Luminance > 0:
		return CategoryLightEmitting, true
	case checks.Translucent && state.Translucent():
		return CategoryTranslucent, true
	case checks.NonFull && !state.OpaqueFullCube:
		return CategoryNonFull, true
	case checks.Full:
		return CategoryFull, true
	}
	return "", false
}

// categorizeDeep scans every state: a block is light emitting if any
// state emits, translucent if any state is, non-full if any state is,
// and full only when every state is an opaque full cube.
func (a *Analyzer) categorizeDeep(blockID string) (string, bool) {
	checks := a.cfg.Checks
	if checks.BlockEntity && a.catalog.HasBlockEntity(blockID) {
		return CategoryBlockEntity, true
	}

	states := a.catalog.States(blockID)
	if len(states) == 0 {
		return "", false
	}

	var anyLight, anyTranslucent, anyNonFull bool
	allFull := true
	for _, state := range states {
		if checks.LightEmitting && state.Luminance > 0 {
			anyLight = true
		}
		if checks.Translucent && state.Translucent() {
			anyTranslucent = true
		}
		if checks.NonFull && !state.OpaqueFullCube {
			anyNonFull = true
		}
		if !state.OpaqueFullCube {
			allFull = false
		}
	}

	switch {
	case anyLight:
		return CategoryLightEmitting, true
	case anyTranslucent:
		return CategoryTranslucent, true
	case anyNonFull:
		return CategoryNonFull, true
	case checks.Full && allFull:
		return CategoryFull, true
	}
	return "", false
}
