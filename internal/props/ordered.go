package props

// TagDefinitionMap is an insertion-ordered map from tag identifier to its
// raw definition string. Redefining an existing tag updates the value but
// keeps the tag's original position, matching first-definition ordering
// for everything downstream that iterates definitions.
type TagDefinitionMap struct {
	keys   []string
	values map[string]string
}

// NewTagDefinitionMap returns an empty TagDefinitionMap.
func NewTagDefinitionMap() *TagDefinitionMap {
	return &TagDefinitionMap{values: make(map[string]string)}
}

// Set inserts or updates a definition.
func (m *TagDefinitionMap) Set(key, value string) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the definition for key.
func (m *TagDefinitionMap) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is defined.
func (m *TagDefinitionMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of definitions.
func (m *TagDefinitionMap) Len() int {
	return len(m.keys)
}

// Keys returns the tag identifiers in insertion order.
func (m *TagDefinitionMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *TagDefinitionMap) Equal(other *TagDefinitionMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}

// TagAssignmentMap is an insertion-ordered map from tag identifier to the
// property ID it was assigned. Iteration order drives first-claim-wins
// tag resolution, so reassigning a tag keeps its original position.
type TagAssignmentMap struct {
	keys   []string
	values map[string]int
}

// NewTagAssignmentMap returns an empty TagAssignmentMap.
func NewTagAssignmentMap() *TagAssignmentMap {
	return &TagAssignmentMap{values: make(map[string]int)}
}

// Set inserts or updates an assignment.
func (m *TagAssignmentMap) Set(key string, propertyID int) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = propertyID
}

// Get returns the property ID assigned to key.
func (m *TagAssignmentMap) Get(key string) (int, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key was assigned.
func (m *TagAssignmentMap) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of assignments.
func (m *TagAssignmentMap) Len() int {
	return len(m.keys)
}

// Keys returns the tag identifiers in insertion order.
func (m *TagAssignmentMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Equal reports whether both maps hold the same entries in the same order.
func (m *TagAssignmentMap) Equal(other *TagAssignmentMap) bool {
	if m == nil || other == nil {
		return m == other
	}
	if len(m.keys) != len(other.keys) {
		return false
	}
	for i, k := range m.keys {
		if other.keys[i] != k || other.values[k] != m.values[k] {
			return false
		}
	}
	return true
}
