package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	cases := []struct {
		pack string
		want string
	}{
		{"ComplementaryReimagined", "ComplementaryReimagined_analysis.txt"},
		{"BSL_v8.2.zip", "BSL_v8.2_analysis.txt"},
		{"My Pack (v1)", "My_Pack__v1__analysis.txt"},
		{"pack+extras!.zip", "pack_extras__analysis.txt"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Filename(tc.pack), "pack %q", tc.pack)
	}
}

func TestRenderHeader(t *testing.T) {
	r := New("TestPack")
	r.GeneratedAt = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	r.TotalBlocksInGame = 200
	r.TotalBlocksInShader = 150
	r.MissingBlocks["minecraft"] = map[string][]string{
		"Full": {"minecraft:stone", "minecraft:dirt"},
	}

	out := r.Render()
	assert.True(t, strings.HasPrefix(out, "=== SHADER ANALYSIS: TestPack ===\n"))
	assert.Contains(t, out, "Generated: 2026-03-14 09:26:53\n")
	assert.Contains(t, out, "  Total blocks in game: 200\n")
	assert.Contains(t, out, "  Blocks defined in shader: 150\n")
	assert.Contains(t, out, "  Missing blocks: 2\n")
	assert.Contains(t, out, "  Coverage: 99.00%\n")
	assert.NotContains(t, out, "Run:")
}

func TestRenderRunID(t *testing.T) {
	r := New("TestPack")
	r.RunID = "7f3a2c1e"
	assert.Contains(t, r.Render(), "Run: 7f3a2c1e\n")
}

func TestRenderCoverageZeroBlocks(t *testing.T) {
	r := New("TestPack")
	assert.Contains(t, r.Render(), "  Coverage: 0.00%\n")
}

func TestRenderEmptySections(t *testing.T) {
	out := New("TestPack").Render()

	assert.Contains(t, out, "No missing blocks found.\n")
	assert.Contains(t, out, "Tag support is disabled.\n")
	assert.NotContains(t, out, "UNUSED TAG DEFINITIONS")
	assert.Contains(t, out, "All blockstate definitions are complete.\n")
	assert.Contains(t, out, "No duplicate definitions found.\n")
	assert.Contains(t, out, "RENDER LAYER MISMATCHES (0):\n")
	assert.Contains(t, out, "No render layer mismatches found.\n")
}

func TestRenderMissingBlocks(t *testing.T) {
	r := New("TestPack")
	r.MissingBlocks["zcorp"] = map[string][]string{
		"Full": {"zcorp:widget"},
	}
	r.MissingBlocks["minecraft"] = map[string][]string{
		"Light Emitting": {"minecraft:torch", "minecraft:glowstone"},
		"Full":           {"minecraft:stone"},
	}

	out := r.Render()
	assert.Contains(t, out, "minecraft (3 blocks):\n")
	assert.Contains(t, out, "  Full (1):\n")
	assert.Contains(t, out, "  Light Emitting (2):\n")
	assert.Contains(t, out, " minecraft:glowstone\n")
	assert.Contains(t, out, "zcorp (1 blocks):\n")

	// Namespaces sorted, categories sorted, blocks sorted.
	assert.Less(t, strings.Index(out, "minecraft (3 blocks)"), strings.Index(out, "zcorp (1 blocks)"))
	assert.Less(t, strings.Index(out, "  Full (1):"), strings.Index(out, "  Light Emitting (2):"))
	assert.Less(t, strings.Index(out, " minecraft:glowstone"), strings.Index(out, " minecraft:torch"))
}

func TestRenderTagCoverage(t *testing.T) {
	r := New("TestPack")
	r.TagDefs.Set("SPARKLY", "%minecraft:ores %c:gems")
	r.TagDefs.Set("LEAFY", "%minecraft:leaves")
	r.TagAssignments.Set("LEAFY", 120)
	r.TagAssignments.Set("SPARKLY", 107)
	r.TagCoverage["SPARKLY"] = []string{"minecraft:iron_ore", "minecraft:coal_ore"}
	r.TagCoverage["LEAFY"] = []string{"minecraft:oak_leaves"}

	out := r.Render()
	assert.Contains(t, out, "Tag: SPARKLY = %minecraft:ores %c:gems (block.107) - 2 blocks\n")
	assert.Contains(t, out, "Tag: LEAFY = %minecraft:leaves (block.120) - 1 blocks\n")

	// Assignment order wins over definition order.
	assert.Less(t, strings.Index(out, "Tag: LEAFY"), strings.Index(out, "Tag: SPARKLY"))

	// Member blocks are sorted and carry no indent.
	assert.Contains(t, out, "\nminecraft:coal_ore\nminecraft:iron_ore\n")
}

func TestRenderNoTagCoverage(t *testing.T) {
	enabled := New("TestPack")
	enabled.TagSupportEnabled = true
	assert.Contains(t, enabled.Render(), "No tag coverage.\n")
	assert.NotContains(t, enabled.Render(), "Tag support is disabled.\n")

	disabled := New("TestPack")
	assert.Contains(t, disabled.Render(), "Tag support is disabled.\n")
	assert.NotContains(t, disabled.Render(), "No tag coverage.\n")
}

func TestRenderUnusedTags(t *testing.T) {
	r := New("TestPack")
	r.TagDefs.Set("UNUSED_B", "%minecraft:beds")
	r.TagDefs.Set("USED", "%minecraft:ores")
	r.TagDefs.Set("UNUSED_A", "%minecraft:doors")
	r.TagAssignments.Set("USED", 50)
	r.TagCoverage["USED"] = []string{"minecraft:iron_ore"}

	out := r.Render()
	assert.Contains(t, out, "UNUSED TAG DEFINITIONS:\n")
	assert.Contains(t, out, "defined but not assigned to any block.XX property")
	assert.Contains(t, out, "  UNUSED_A = %minecraft:doors\n")
	assert.Contains(t, out, "  UNUSED_B = %minecraft:beds\n")
	assert.NotContains(t, out, "  USED = ")
	assert.Less(t, strings.Index(out, "UNUSED_A ="), strings.Index(out, "UNUSED_B ="))
}

func TestRenderIncompleteStates(t *testing.T) {
	r := New("TestPack")
	r.IncompleteStates["minecraft:redstone_lamp"] = map[string][]string{
		"lit": {"false"},
	}
	r.IncompleteStates["minecraft:furnace"] = map[string][]string{
		"facing": {"south", "west"},
		"lit":    {"true"},
	}

	out := r.Render()
	assert.Contains(t, out, "minecraft:furnace:\n")
	assert.Contains(t, out, "  facing - Missing values: south, west\n")
	assert.Contains(t, out, "  lit - Missing values: true\n")
	assert.Contains(t, out, "minecraft:redstone_lamp:\n")
	assert.Contains(t, out, "  lit - Missing values: false\n")
	assert.Less(t, strings.Index(out, "minecraft:furnace:"), strings.Index(out, "minecraft:redstone_lamp:"))
}

func TestRenderDuplicates(t *testing.T) {
	r := New("TestPack")
	r.Duplicates["minecraft:stone"] = []int{6, 5}

	out := r.Render()
	assert.Contains(t, out, "minecraft:stone is defined multiple times:\n")
	assert.Contains(t, out, "  Properties: block.5, block.6\n")
}

func TestRenderLayerMismatches(t *testing.T) {
	r := New("TestPack")
	r.LayerMismatches["minecraft:water"] = LayerMismatch{Expected: "solid", Actual: "translucent"}

	out := r.Render()
	assert.Contains(t, out, "RENDER LAYER MISMATCHES (1):\n")
	assert.Contains(t, out, "minecraft:water\nExpected: solid | Actual: translucent\n")
	assert.NotContains(t, out, "No render layer mismatches found.")
}

func TestRenderIsStable(t *testing.T) {
	r := New("TestPack")
	r.MissingBlocks["minecraft"] = map[string][]string{
		"Full": {"minecraft:stone", "minecraft:andesite", "minecraft:dirt"},
	}
	r.TagDefs.Set("ORES", "%minecraft:ores")
	r.TagAssignments.Set("ORES", 8)
	r.TagCoverage["ORES"] = []string{"minecraft:iron_ore", "minecraft:coal_ore"}

	first := r.Render()
	second := r.Render()
	assert.Equal(t, first, second)

	// Rendering sorts copies, not the report's own slices.
	assert.Equal(t, []string{"minecraft:stone", "minecraft:andesite", "minecraft:dirt"},
		r.MissingBlocks["minecraft"]["Full"])
	assert.Equal(t, []string{"minecraft:iron_ore", "minecraft:coal_ore"}, r.TagCoverage["ORES"])
}

func TestTotalMissing(t *testing.T) {
	r := New("TestPack")
	assert.Equal(t, 0, r.TotalMissing())

	r.MissingBlocks["minecraft"] = map[string][]string{
		"Full":         {"a", "b"},
		"Block Entity": {"c"},
	}
	r.MissingBlocks["create"] = map[string][]string{
		"Translucent": {"d"},
	}
	assert.Equal(t, 4, r.TotalMissing())
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()

	r := New("GlimmerPack.zip")
	r.TotalBlocksInGame = 10
	path, err := r.Write(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "GlimmerPack_analysis.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, r.Render(), string(data))

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "GlimmerPack_analysis.txt", entries[0].Name())
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "nested")

	r := New("pack")
	path, err := r.Write(dir)
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteOverwritesPrevious(t *testing.T) {
	dir := t.TempDir()

	r := New("pack")
	_, err := r.Write(dir)
	require.NoError(t, err)

	r.TotalBlocksInGame = 42
	path, err := r.Write(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total blocks in game: 42")
}
