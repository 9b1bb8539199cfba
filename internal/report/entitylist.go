package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"shaderlint/internal/catalog"
	"shaderlint/internal/logging"
)

// WriteEntityList writes every entity the catalog knows about, grouped
// by namespace, to path. Written atomically like the analysis reports.
func WriteEntityList(cat catalog.Catalog, path string) error {
	entities := cat.AllEntityIDs()

	byNamespace := make(map[string][]string)
	for _, id := range entities {
		ns := catalog.Namespace(id)
		byNamespace[ns] = append(byNamespace[ns], id)
	}

	var b strings.Builder
	b.WriteString("=== ENTITY LIST ===\n")
	b.WriteString("All entities registered in the game, sorted by mod.\n\n")

	for _, namespace := range sortedKeys(byNamespace) {
		ids := byNamespace[namespace]
		b.WriteString(sectionSeparator)
		fmt.Fprintf(&b, "%s (%d entities):\n\n", namespace, len(ids))
		for _, id := range ids {
			fmt.Fprintf(&b, " %s\n", id)
		}
		b.WriteString("\n")
	}

	b.WriteString("========================================\n")
	fmt.Fprintf(&b, "TOTAL ENTITIES: %d\n", len(entities))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating entity list directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing entity list: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalizing entity list: %w", err)
	}

	logging.Report("Entity list with %d entities written to %s", len(entities), path)
	return nil
}
