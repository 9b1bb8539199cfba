package catalog

import "sort"

// Memory is an in-memory Catalog built directly from a registry dump.
type Memory struct {
	blocks      map[string]BlockRecord
	blockIDs    []string
	tags        map[string][]string
	entities    []string
	gameVersion string
}

// NewMemory indexes a dump for querying.
func NewMemory(d *Dump) *Memory {
	m := &Memory{
		blocks:      make(map[string]BlockRecord, len(d.Blocks)),
		tags:        make(map[string][]string, len(d.Tags)),
		gameVersion: d.GameVersion,
	}

	for _, b := range d.Blocks {
		if _, seen := m.blocks[b.ID]; !seen {
			m.blockIDs = append(m.blockIDs, b.ID)
		}
		m.blocks[b.ID] = b
	}
	sort.Strings(m.blockIDs)

	for tag, members := range d.Tags {
		sorted := append([]string(nil), members...)
		sort.Strings(sorted)
		m.tags[tag] = sorted
	}

	m.entities = append([]string(nil), d.Entities...)
	sort.Strings(m.entities)

	return m
}

// GameVersion returns the dump's game version string.
func (m *Memory) GameVersion() string { return m.gameVersion }

func (m *Memory) BlockExists(id string) bool {
	_, ok := m.blocks[id]
	return ok
}

func (m *Memory) AllBlockIDs() []string {
	return append([]string(nil), m.blockIDs...)
}

func (m *Memory) HasBlockEntity(id string) bool {
	return m.blocks[id].HasEntity
}

func (m *Memory) DefaultState(id string) (StateInfo, bool) {
	b, ok := m.blocks[id]
	if !ok || len(b.States) == 0 {
		return StateInfo{}, false
	}
	for _, s := range b.States {
		if s.Default {
			return s.info(), true
		}
	}
	// Dumps mark exactly one default; fall back to the first state for
	// ones that don't.
	return b.States[0].info(), true
}

func (m *Memory) States(id string) []StateInfo {
	b, ok := m.blocks[id]
	if !ok {
		return nil
	}
	out := make([]StateInfo, len(b.States))
	for i, s := range b.States {
		out[i] = s.info()
	}
	return out
}

func (m *Memory) PossibleValues(id, property string) []string {
	b, ok := m.blocks[id]
	if !ok {
		return nil
	}
	for _, p := range b.Properties {
		if p.Name == property {
			return append([]string(nil), p.Values...)
		}
	}
	return nil
}

func (m *Memory) TagMembers(namespace, name string) []string {
	members := m.tags[namespace+":"+name]
	return append([]string(nil), members...)
}

func (m *Memory) AllEntityIDs() []string {
	return append([]string(nil), m.entities...)
}
