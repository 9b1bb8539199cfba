package analysis

import (
	"sort"
	"strings"

	"shaderlint/internal/logging"
	"shaderlint/internal/props"
)

// BlockStateSpec is a block entry carrying state qualifiers, e.g.
// minecraft:furnace:lit=true.
type BlockStateSpec struct {
	Namespace  string
	Name       string
	Properties map[string]string
}

// BlockID returns the namespace:name form without qualifiers.
func (s *BlockStateSpec) BlockID() string {
	return s.Namespace + ":" + s.Name
}

// ParseBlockState splits a block entry into namespace, name and state
// properties. Entries without any property qualifier return nil; so do
// entries with fewer than two colon segments. A first segment that
// already contains "=" means the namespace was omitted.
func ParseBlockState(entry string) *BlockStateSpec {
	segments := strings.Split(entry, ":")
	if len(segments) < 2 {
		return nil
	}

	namespace := segments[0]
	name := segments[1]
	propsStart := 2
	if strings.Contains(segments[1], "=") {
		namespace = props.DefaultNamespace
		name = segments[0]
		propsStart = 1
	}

	properties := make(map[string]string)
	for _, segment := range segments[propsStart:] {
		kv := strings.SplitN(segment, "=", 2)
		if len(kv) == 2 {
			properties[kv[0]] = kv[1]
		}
	}
	if len(properties) == 0 {
		return nil
	}

	return &BlockStateSpec{Namespace: namespace, Name: name, Properties: properties}
}

// validateBlockStates finds blocks whose state-qualified definitions
// cover only part of a property's value range. Declared values
// accumulate across all entries for a block; properties the block does
// not actually have are ignored, and a block whose qualifiers name no
// real property at all is skipped entirely.
func (a *Analyzer) validateBlockStates(blockEntries map[string]int) map[string]map[string][]string {
	declared := make(map[string]map[string]map[string]bool)
	for entry := range blockEntries {
		spec := ParseBlockState(entry)
		if spec == nil {
			continue
		}
		blockID := spec.BlockID()
		if declared[blockID] == nil {
			declared[blockID] = make(map[string]map[string]bool)
		}
		for property, value := range spec.Properties {
			if declared[blockID][property] == nil {
				declared[blockID][property] = make(map[string]bool)
			}
			declared[blockID][property][strings.ToLower(value)] = true
		}
	}

	incomplete := make(map[string]map[string][]string)
	for blockID, properties := range declared {
		if !a.catalog.BlockExists(blockID) {
			logging.StatesDebug("Skipping state check for unregistered block %s", blockID)
			continue
		}

		possible := make(map[string][]string)
		for property := range properties {
			if values := a.catalog.PossibleValues(blockID, property); len(values) > 0 {
				possible[property] = values
			}
		}
		if len(possible) == 0 {
			logging.StatesDebug("Block %s qualifiers name no real property, skipping", blockID)
			continue
		}

		for property, values := range possible {
			declaredValues := properties[property]
			var missing []string
			for _, value := range values {
				if !declaredValues[strings.ToLower(value)] {
					missing = append(missing, value)
				}
			}
			if len(missing) == 0 {
				continue
			}
			sort.Strings(missing)
			if incomplete[blockID] == nil {
				incomplete[blockID] = make(map[string][]string)
			}
			incomplete[blockID][property] = missing
			logging.States("Block %s property %s missing values: %s",
				blockID, property, strings.Join(missing, ", "))
		}
	}

	return incomplete
}
