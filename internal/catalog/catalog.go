// Package catalog answers block registry queries for the analysis
// pipeline: block existence, blockstates and their render metadata, tag
// membership, and entity listings. Two implementations exist: a SQLite
// store fed by imported registry dumps, and an in-memory view used on
// the import path and in tests.
package catalog

import "strings"

// Render layer names as stored in the catalog.
const (
	LayerSolid       = "solid"
	LayerCutout      = "cutout"
	LayerTranslucent = "translucent"
	LayerTripwire    = "tripwire"
)

// StateInfo describes one concrete blockstate. Returned maps and slices
// are read-only views.
type StateInfo struct {
	Properties     map[string]string
	Luminance      int
	OpaqueFullCube bool
	RenderLayer    string
	Default        bool
}

// Translucent reports whether shaders treat the state as translucent.
// Tripwire renders on the translucent program.
func (s StateInfo) Translucent() bool {
	return s.RenderLayer == LayerTranslucent || s.RenderLayer == LayerTripwire
}

// ShaderLayer maps the state's render layer to the name shaders use for
// it. Tripwire collapses into translucent.
func (s StateInfo) ShaderLayer() string {
	if s.RenderLayer == LayerTripwire {
		return LayerTranslucent
	}
	return s.RenderLayer
}

// Namespace returns the namespace of a catalog ID, defaulting to
// "minecraft" for bare names.
func Namespace(id string) string {
	if i := strings.Index(id, ":"); i >= 0 {
		return id[:i]
	}
	return "minecraft"
}

// Catalog is the read-only registry view the analysis pipeline consumes.
type Catalog interface {
	// BlockExists reports whether the block ID is registered.
	BlockExists(id string) bool

	// AllBlockIDs returns every registered block ID, sorted.
	AllBlockIDs() []string

	// HasBlockEntity reports whether the block carries a block entity.
	HasBlockEntity(id string) bool

	// DefaultState returns the block's default state. ok is false for
	// unknown blocks.
	DefaultState(id string) (StateInfo, bool)

	// States returns every state of the block in dump order, empty for
	// unknown blocks.
	States(id string) []StateInfo

	// PossibleValues returns the declared values of one block property
	// in declaration order, empty when the block or property is unknown.
	PossibleValues(id, property string) []string

	// TagMembers returns the block IDs carrying namespace:name, empty
	// for unknown tags.
	TagMembers(namespace, name string) []string

	// AllEntityIDs returns every registered entity ID, sorted.
	AllEntityIDs() []string
}
