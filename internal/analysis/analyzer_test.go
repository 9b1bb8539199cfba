package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shaderlint/internal/catalog"
	"shaderlint/internal/config"
	"shaderlint/internal/props"
	"shaderlint/internal/report"
)

// testDump builds a small registry with one block per category quirk:
// plain full cubes, a light emitter, translucents, a block entity and a
// state-dependent emitter.
func testDump() *catalog.Dump {
	return &catalog.Dump{
		GameVersion: "1.21.1",
		Blocks: []catalog.BlockRecord{
			{
				ID: "minecraft:stone",
				States: []catalog.StateRecord{
					{OpaqueCube: true, RenderLayer: "solid", Default: true},
				},
			},
			{
				ID: "minecraft:glass",
				States: []catalog.StateRecord{
					{OpaqueCube: false, RenderLayer: "cutout", Default: true},
				},
			},
			{
				ID: "minecraft:water",
				States: []catalog.StateRecord{
					{OpaqueCube: false, RenderLayer: "translucent", Default: true},
				},
			},
			{
				ID: "minecraft:glowstone",
				States: []catalog.StateRecord{
					{Luminance: 15, OpaqueCube: true, RenderLayer: "solid", Default: true},
				},
			},
			{
				ID:        "minecraft:furnace",
				HasEntity: true,
				Properties: []catalog.PropertyRecord{
					{Name: "lit", Values: []string{"true", "false"}},
					{Name: "facing", Values: []string{"north", "south", "west", "east"}},
				},
				States: []catalog.StateRecord{
					{Properties: map[string]string{"lit": "false", "facing": "north"}, OpaqueCube: true, RenderLayer: "solid", Default: true},
					{Properties: map[string]string{"lit": "true", "facing": "north"}, Luminance: 13, OpaqueCube: true, RenderLayer: "solid"},
				},
			},
			{
				ID: "minecraft:redstone_lamp",
				Properties: []catalog.PropertyRecord{
					{Name: "lit", Values: []string{"true", "false"}},
				},
				States: []catalog.StateRecord{
					{Properties: map[string]string{"lit": "false"}, OpaqueCube: true, RenderLayer: "solid", Default: true},
					{Properties: map[string]string{"lit": "true"}, Luminance: 15, OpaqueCube: true, RenderLayer: "solid"},
				},
			},
			{
				ID: "minecraft:tripwire",
				States: []catalog.StateRecord{
					{OpaqueCube: false, RenderLayer: "tripwire", Default: true},
				},
			},
			{
				ID: "minecraft:iron_ore",
				States: []catalog.StateRecord{
					{OpaqueCube: true, RenderLayer: "solid", Default: true},
				},
			},
			{
				ID: "minecraft:coal_ore",
				States: []catalog.StateRecord{
					{OpaqueCube: true, RenderLayer: "solid", Default: true},
				},
			},
			{
				ID: "create:casing",
				States: []catalog.StateRecord{
					{OpaqueCube: true, RenderLayer: "solid", Default: true},
				},
			},
		},
		Tags: map[string][]string{
			"minecraft:ores": {"minecraft:iron_ore", "minecraft:coal_ore"},
			"c:ores":         {"minecraft:iron_ore", "minecraft:coal_ore", "create:casing"},
		},
		Entities: []string{"minecraft:zombie", "create:contraption"},
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Analysis.TagSupport = config.TagSupportTrue
	cfg.Analysis.Workers = 2
	return cfg
}

func newTestAnalyzer(t *testing.T, cfg *config.Config) *Analyzer {
	t.Helper()
	a, err := New(cfg, catalog.NewMemory(testDump()))
	require.NoError(t, err)
	return a
}

func parseWith(t *testing.T, a *Analyzer, input string) *props.Result {
	t.Helper()
	parsed, err := props.NewParser(a.defines, a.tagSupport).Parse(strings.NewReader(input))
	require.NoError(t, err)
	return parsed
}

func TestAnalyzeEndToEnd(t *testing.T) {
	properties := `
#define ORES %minecraft:ores

block.1=minecraft:stone minecraft:glass
block.2=minecraft:water
block.3=ORES
block.4=minecraft:furnace:lit=true

layer.solid=minecraft:water

#ifdef UNKNOWN_FLAG
block.5=minecraft:glowstone
#endif
`
	a := newTestAnalyzer(t, testConfig())
	rep, err := a.Analyze("TestPack", strings.NewReader(properties))
	require.NoError(t, err)

	assert.Equal(t, "TestPack", rep.PackName)
	assert.True(t, rep.TagSupportEnabled)
	assert.Equal(t, 10, rep.TotalBlocksInGame)

	// stone, glass, water, furnace directly; iron and coal ore via ORES.
	assert.Equal(t, 6, rep.TotalBlocksInShader)
	assert.Equal(t, []string{"minecraft:coal_ore", "minecraft:iron_ore"}, rep.TagCoverage["ORES"])

	// The #ifdef on an unknown flag keeps glowstone out of coverage.
	assert.Equal(t, 4, rep.TotalMissing())
	assert.Equal(t, []string{"minecraft:glowstone", "minecraft:redstone_lamp"},
		rep.MissingBlocks["minecraft"][CategoryLightEmitting])
	assert.Equal(t, []string{"minecraft:tripwire"},
		rep.MissingBlocks["minecraft"][CategoryTranslucent])
	assert.Equal(t, []string{"create:casing"},
		rep.MissingBlocks["create"][CategoryFull])

	// Only lit=true was declared for the furnace.
	assert.Equal(t, map[string][]string{"lit": {"false"}}, rep.IncompleteStates["minecraft:furnace"])

	// Water declared solid but renders translucent.
	assert.Equal(t, report.LayerMismatch{Expected: "solid", Actual: "translucent"},
		rep.LayerMismatches["minecraft:water"])

	assert.Empty(t, rep.Duplicates)
	assert.Contains(t, rep.Render(), "Coverage: 60.00%")
}

func TestAnalyzeEmptyInput(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	rep, err := a.Analyze("BarePack", strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, 0, rep.TotalBlocksInShader)
	assert.Equal(t, 10, rep.TotalBlocksInGame)
	// Every block lands in some category: nothing is covered.
	assert.Equal(t, 10, rep.TotalMissing())
	assert.Contains(t, rep.Render(), "Coverage: 0.00%")
}

func TestAnalyzeDuplicatesSurface(t *testing.T) {
	properties := `
block.5=minecraft:stone
block.6=minecraft:stone
`
	a := newTestAnalyzer(t, testConfig())
	rep, err := a.Analyze("DupPack", strings.NewReader(properties))
	require.NoError(t, err)

	assert.Equal(t, map[string][]int{"minecraft:stone": {5, 6}}, rep.Duplicates)
}

func TestAnalyzeReadError(t *testing.T) {
	a := newTestAnalyzer(t, testConfig())
	_, err := a.Analyze("BrokenPack", &failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing BrokenPack")
}

func TestNewInvalidGameVersion(t *testing.T) {
	cfg := testConfig()
	cfg.Game.Version = "latest"
	_, err := New(cfg, catalog.NewMemory(testDump()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving game version")
}

func TestTagSupportFollowsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Analysis.TagSupport = config.TagSupportFalse
	a := newTestAnalyzer(t, cfg)
	assert.False(t, a.TagSupport())

	cfg = testConfig()
	cfg.Analysis.TagSupport = config.TagSupportDetect
	cfg.Game.IrisVersion = "1.8.1"
	a = newTestAnalyzer(t, cfg)
	assert.True(t, a.TagSupport())
}

type failingReader struct{}

func (f *failingReader) Read(p []byte) (int, error) {
	return 0, assert.AnError
}
