package analysis

import (
	"sort"
	"strings"

	"shaderlint/internal/logging"
	"shaderlint/internal/props"
)

// resolveTags expands tag aliases into block coverage. Blocks already
// claimed by direct definitions, or by an earlier-assigned tag, are not
// credited again: a tag only covers the blocks it is the first to
// claim, in assignment order. Returns the per-alias coverage and the
// full covered set (direct bases plus tag members).
func (a *Analyzer) resolveTags(parsed *props.Result) (map[string][]string, map[string]bool) {
	covered := make(map[string]bool)
	for entry := range parsed.Blocks {
		covered[props.BaseID(entry)] = true
	}

	coverage := make(map[string][]string)
	if !a.tagSupport {
		return coverage, covered
	}

	for _, alias := range parsed.TagAssignments.Keys() {
		definition, ok := parsed.TagDefs.Get(alias)
		if !ok {
			logging.Tags("Tag %s assigned to property but not defined", alias)
			continue
		}

		members := a.resolveTagReferences(alias, definition)

		var remaining []string
		for member := range members {
			if !covered[member] {
				remaining = append(remaining, member)
			}
		}
		if len(remaining) == 0 {
			logging.TagsDebug("Tag %s adds no blocks beyond earlier definitions", alias)
			continue
		}

		sort.Strings(remaining)
		coverage[alias] = remaining
		for _, member := range remaining {
			covered[member] = true
		}
		logging.Tags("Tag %s covers %d blocks", alias, len(remaining))
	}

	return coverage, covered
}

// resolveTagReferences unions the members of every %namespace:tag
// reference in a definition. References must start with %; anything
// else is not a tag reference and is reported.
func (a *Analyzer) resolveTagReferences(alias, definition string) map[string]bool {
	members := make(map[string]bool)
	for _, ref := range strings.Fields(definition) {
		if !strings.HasPrefix(ref, "%") {
			logging.Tags("Tag %s has invalid reference %q, expected %%namespace:tag", alias, ref)
			continue
		}
		ref = ref[1:]

		namespace := props.DefaultNamespace
		name := ref
		if idx := strings.Index(ref, ":"); idx >= 0 {
			namespace = ref[:idx]
			name = ref[idx+1:]
		}

		resolved := a.catalog.TagMembers(namespace, name)
		if len(resolved) == 0 {
			logging.TagsDebug("Tag reference %%%s:%s matches no blocks", namespace, name)
		}
		for _, member := range resolved {
			members[member] = true
		}
	}
	return members
}
