package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Dump is the JSON registry export a companion data generator produces
// from a running game: every block with its states and properties, tag
// membership, and the entity registry.
type Dump struct {
	GameVersion string              `json:"game_version"`
	Blocks      []BlockRecord       `json:"blocks"`
	Tags        map[string][]string `json:"tags"`
	Entities    []string            `json:"entities"`
}

// BlockRecord is one block's registry entry.
type BlockRecord struct {
	ID         string           `json:"id"`
	HasEntity  bool             `json:"has_entity"`
	Properties []PropertyRecord `json:"properties"`
	States     []StateRecord    `json:"states"`
}

// PropertyRecord lists a block property's possible values in declaration
// order.
type PropertyRecord struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// StateRecord is one concrete blockstate of a block.
type StateRecord struct {
	Properties  map[string]string `json:"properties"`
	Luminance   int               `json:"luminance"`
	OpaqueCube  bool              `json:"opaque_cube"`
	RenderLayer string            `json:"render_layer"`
	Default     bool              `json:"default"`
}

// ReadDump loads a registry dump file.
func ReadDump(path string) (*Dump, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var d Dump
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}

	for i, b := range d.Blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("dump %s: block %d has no id", path, i)
		}
	}
	return &d, nil
}

func (s StateRecord) info() StateInfo {
	return StateInfo{
		Properties:     s.Properties,
		Luminance:      s.Luminance,
		OpaqueFullCube: s.OpaqueCube,
		RenderLayer:    s.RenderLayer,
		Default:        s.Default,
	}
}
