package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// The SQLite store must answer every catalog query exactly like the
// in-memory view of the same dump.
func TestStoreMatchesMemory(t *testing.T) {
	dump := testDump()
	s := openStore(t)
	require.NoError(t, s.Import(dump))
	m := NewMemory(dump)

	assert.Equal(t, m.AllBlockIDs(), s.AllBlockIDs())
	assert.Equal(t, m.AllEntityIDs(), s.AllEntityIDs())
	assert.Equal(t, m.GameVersion(), s.GameVersion())

	for _, id := range append(m.AllBlockIDs(), "minecraft:unobtainium") {
		assert.Equal(t, m.BlockExists(id), s.BlockExists(id), id)
		assert.Equal(t, m.HasBlockEntity(id), s.HasBlockEntity(id), id)
		assert.Equal(t, m.States(id), s.States(id), id)

		mDef, mOK := m.DefaultState(id)
		sDef, sOK := s.DefaultState(id)
		assert.Equal(t, mOK, sOK, id)
		assert.Equal(t, mDef, sDef, id)
	}

	assert.Equal(t, m.PossibleValues("minecraft:furnace", "facing"),
		s.PossibleValues("minecraft:furnace", "facing"))
	assert.Equal(t, m.TagMembers("minecraft", "ores"), s.TagMembers("minecraft", "ores"))
	assert.Empty(t, s.TagMembers("minecraft", "no_such_tag"))
}

func TestStoreReimportReplaces(t *testing.T) {
	s := openStore(t)
	require.NoError(t, s.Import(testDump()))

	smaller := &Dump{
		GameVersion: "1.21.4",
		Blocks: []BlockRecord{
			{ID: "minecraft:dirt", States: []StateRecord{{OpaqueCube: true, RenderLayer: LayerSolid, Default: true}}},
		},
	}
	require.NoError(t, s.Import(smaller))

	assert.Equal(t, []string{"minecraft:dirt"}, s.AllBlockIDs())
	assert.Empty(t, s.AllEntityIDs())
	assert.Equal(t, "1.21.4", s.GameVersion())

	stats := s.Stats()
	assert.Equal(t, int64(1), stats["blocks"])
	assert.Equal(t, int64(1), stats["block_states"])
	assert.Equal(t, int64(0), stats["block_tags"])
}

func TestStoreEmptyCatalog(t *testing.T) {
	s := openStore(t)

	assert.Empty(t, s.AllBlockIDs())
	assert.False(t, s.BlockExists("minecraft:stone"))
	assert.Equal(t, "", s.GameVersion())

	_, ok := s.DefaultState("minecraft:stone")
	assert.False(t, ok)
}

func TestStorePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Import(testDump()))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.BlockExists("minecraft:stone"))
	assert.Equal(t, "1.21.1", reopened.GameVersion())

	stats := reopened.Stats()
	assert.Equal(t, int64(4), stats["blocks"])
	assert.Equal(t, int64(5), stats["block_states"])
}
