// Package report renders analysis results into the text reports written
// next to the analyzed shader packs, plus the optional entity list.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"shaderlint/internal/logging"
	"shaderlint/internal/props"
)

const sectionSeparator = "----------------------------------------\n"

var filenameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// LayerMismatch records a declared render layer that disagrees with the
// catalog's actual layer for the block.
type LayerMismatch struct {
	Expected string
	Actual   string
}

// Report holds everything one pack analysis produced.
type Report struct {
	PackName    string
	RunID       string
	GeneratedAt time.Time

	// MissingBlocks is namespace -> category -> block IDs.
	MissingBlocks map[string]map[string][]string

	// TagCoverage is alias -> block IDs it contributes after
	// first-claim-wins resolution.
	TagCoverage    map[string][]string
	TagDefs        *props.TagDefinitionMap
	TagAssignments *props.TagAssignmentMap

	LayerMismatches map[string]LayerMismatch

	// IncompleteStates is block ID -> property -> missing values.
	IncompleteStates map[string]map[string][]string

	Duplicates map[string][]int

	TotalBlocksInGame   int
	TotalBlocksInShader int
	TagSupportEnabled   bool
}

// New returns an empty report for a pack.
func New(packName string) *Report {
	return &Report{
		PackName:         packName,
		GeneratedAt:      time.Now(),
		MissingBlocks:    make(map[string]map[string][]string),
		TagCoverage:      make(map[string][]string),
		TagDefs:          props.NewTagDefinitionMap(),
		TagAssignments:   props.NewTagAssignmentMap(),
		LayerMismatches:  make(map[string]LayerMismatch),
		IncompleteStates: make(map[string]map[string][]string),
		Duplicates:       make(map[string][]int),
	}
}

// TotalMissing counts missing blocks across all namespaces and
// categories.
func (r *Report) TotalMissing() int {
	total := 0
	for _, categories := range r.MissingBlocks {
		for _, blocks := range categories {
			total += len(blocks)
		}
	}
	return total
}

// Filename returns the report filename for a pack: the pack name with
// any ".zip" removed and unsafe characters replaced.
func Filename(packName string) string {
	name := strings.ReplaceAll(packName, ".zip", "")
	return filenameSanitizer.ReplaceAllString(name, "_") + "_analysis.txt"
}

// Write renders the report into dir, writing a temp file first and
// renaming so the report only ever appears complete. Returns the final
// path.
func (r *Report) Write(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	path := filepath.Join(dir, Filename(r.PackName))
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, []byte(r.Render()), 0644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("finalizing report: %w", err)
	}

	logging.Report("Report for %s written to %s", r.PackName, path)
	return path, nil
}

// Render produces the full text report.
func (r *Report) Render() string {
	var b strings.Builder
	r.writeHeader(&b)
	r.writeMissingBlocks(&b)
	r.writeTagCoverage(&b)
	r.writeUnusedTags(&b)
	r.writeIncompleteStates(&b)
	r.writeDuplicates(&b)
	r.writeLayerMismatches(&b)
	return b.String()
}

func (r *Report) writeHeader(b *strings.Builder) {
	fmt.Fprintf(b, "=== SHADER ANALYSIS: %s ===\n", r.PackName)
	fmt.Fprintf(b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.RunID != "" {
		fmt.Fprintf(b, "Run: %s\n", r.RunID)
	}
	b.WriteString("\n")

	totalMissing := r.TotalMissing()
	b.WriteString("STATISTICS:\n")
	fmt.Fprintf(b, "  Total blocks in game: %d\n", r.TotalBlocksInGame)
	fmt.Fprintf(b, "  Blocks defined in shader: %d\n", r.TotalBlocksInShader)
	fmt.Fprintf(b, "  Missing blocks: %d\n", totalMissing)

	coverage := 0.0
	if r.TotalBlocksInGame > 0 {
		coverage = 100.0 * (1.0 - float64(totalMissing)/float64(r.TotalBlocksInGame))
	}
	fmt.Fprintf(b, "  Coverage: %.2f%%\n\n", coverage)
}

func (r *Report) writeMissingBlocks(b *strings.Builder) {
	b.WriteString(sectionSeparator)
	b.WriteString("MISSING BLOCKS BY MOD:\n\n")

	if len(r.MissingBlocks) == 0 {
		b.WriteString("No missing blocks found.\n\n")
		return
	}

	for _, namespace := range sortedKeys(r.MissingBlocks) {
		categories := r.MissingBlocks[namespace]

		totalBlocks := 0
		for _, blocks := range categories {
			totalBlocks += len(blocks)
		}
		fmt.Fprintf(b, "%s (%d blocks):\n", namespace, totalBlocks)

		for _, category := range sortedKeys(categories) {
			blocks := sortedCopy(categories[category])
			fmt.Fprintf(b, "  %s (%d):\n", category, len(blocks))
			for _, block := range blocks {
				fmt.Fprintf(b, " %s\n", block)
			}
			b.WriteString("\n")
		}
	}
}

func (r *Report) writeTagCoverage(b *strings.Builder) {
	b.WriteString(sectionSeparator)
	b.WriteString("COVERED BY TAGS:\n\n")

	if len(r.TagCoverage) == 0 {
		if r.TagSupportEnabled {
			b.WriteString("No tag coverage.\n\n")
		} else {
			b.WriteString("Tag support is disabled.\n\n")
		}
		return
	}

	// Assignment order, the same order resolution claimed blocks in.
	for _, alias := range r.TagAssignments.Keys() {
		blocks, ok := r.TagCoverage[alias]
		if !ok {
			continue
		}
		definition, _ := r.TagDefs.Get(alias)
		propertyID, _ := r.TagAssignments.Get(alias)

		fmt.Fprintf(b, "Tag: %s = %s (block.%d) - %d blocks\n", alias, definition, propertyID, len(blocks))
		for _, block := range sortedCopy(blocks) {
			fmt.Fprintf(b, "%s\n", block)
		}
		b.WriteString("\n")
	}
}

func (r *Report) writeUnusedTags(b *strings.Builder) {
	var unused []string
	for _, alias := range r.TagDefs.Keys() {
		if !r.TagAssignments.Has(alias) {
			unused = append(unused, alias)
		}
	}
	if len(unused) == 0 {
		return
	}
	sort.Strings(unused)

	b.WriteString(sectionSeparator)
	b.WriteString("UNUSED TAG DEFINITIONS:\n\n")
	b.WriteString("WARNING: The following tags are defined but not assigned to any block.XX property.\n")
	b.WriteString("These tags will not affect shader behavior.\n\n")

	for _, alias := range unused {
		definition, _ := r.TagDefs.Get(alias)
		fmt.Fprintf(b, "  %s = %s\n", alias, definition)
	}
	b.WriteString("\n")
}

func (r *Report) writeIncompleteStates(b *strings.Builder) {
	b.WriteString(sectionSeparator)
	b.WriteString("INCOMPLETE BLOCKSTATE DEFINITIONS:\n\n")

	if len(r.IncompleteStates) == 0 {
		b.WriteString("All blockstate definitions are complete.\n\n")
		return
	}

	for _, blockID := range sortedKeys(r.IncompleteStates) {
		fmt.Fprintf(b, "%s:\n", blockID)
		missingByProperty := r.IncompleteStates[blockID]
		for _, property := range sortedKeys(missingByProperty) {
			fmt.Fprintf(b, "  %s - Missing values: %s\n",
				property, strings.Join(missingByProperty[property], ", "))
		}
		b.WriteString("\n")
	}
}

func (r *Report) writeDuplicates(b *strings.Builder) {
	b.WriteString(sectionSeparator)
	b.WriteString("DUPLICATE DEFINITIONS:\n\n")

	if len(r.Duplicates) == 0 {
		b.WriteString("No duplicate definitions found.\n\n")
		return
	}

	for _, blockID := range sortedKeys(r.Duplicates) {
		ids := append([]int(nil), r.Duplicates[blockID]...)
		sort.Ints(ids)

		labels := make([]string, len(ids))
		for i, id := range ids {
			labels[i] = fmt.Sprintf("block.%d", id)
		}

		fmt.Fprintf(b, "%s is defined multiple times:\n", blockID)
		fmt.Fprintf(b, "  Properties: %s\n\n", strings.Join(labels, ", "))
	}
}

func (r *Report) writeLayerMismatches(b *strings.Builder) {
	b.WriteString(sectionSeparator)
	fmt.Fprintf(b, "RENDER LAYER MISMATCHES (%d):\n\n", len(r.LayerMismatches))

	b.WriteString("NOTE: Render layer truth comes from the imported catalog dump, which\n")
	b.WriteString("reflects the game's default classification. Packs that override render\n")
	b.WriteString("layers at runtime may be flagged here even though they behave correctly\n")
	b.WriteString("in game.\n\n")

	if len(r.LayerMismatches) == 0 {
		b.WriteString("No render layer mismatches found.\n\n")
		return
	}

	for _, blockID := range sortedKeys(r.LayerMismatches) {
		mismatch := r.LayerMismatches[blockID]
		fmt.Fprintf(b, "%s\n", blockID)
		fmt.Fprintf(b, "Expected: %s | Actual: %s\n\n", mismatch.Expected, mismatch.Actual)
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCopy(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}
