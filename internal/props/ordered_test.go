package props

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagDefinitionMapOrdering(t *testing.T) {
	m := NewTagDefinitionMap()
	m.Set("SPARKLY", "ores")
	m.Set("LEAFY", "leaves")
	m.Set("GLOWY", "lights")

	// Redefinition updates in place without moving the key.
	m.Set("LEAFY", "all_leaves")

	assert.Equal(t, []string{"SPARKLY", "LEAFY", "GLOWY"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("LEAFY")
	assert.True(t, ok)
	assert.Equal(t, "all_leaves", v)

	assert.True(t, m.Has("SPARKLY"))
	assert.False(t, m.Has("MISSING"))
	_, ok = m.Get("MISSING")
	assert.False(t, ok)
}

func TestTagDefinitionMapKeysIsACopy(t *testing.T) {
	m := NewTagDefinitionMap()
	m.Set("A", "1")
	m.Set("B", "2")

	keys := m.Keys()
	keys[0] = "MUTATED"

	assert.Equal(t, []string{"A", "B"}, m.Keys())
}

func TestTagAssignmentMapOrdering(t *testing.T) {
	m := NewTagAssignmentMap()
	m.Set("SPARKLY", 100)
	m.Set("LEAFY", 101)
	m.Set("SPARKLY", 200)

	assert.Equal(t, []string{"SPARKLY", "LEAFY"}, m.Keys())
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get("SPARKLY")
	assert.True(t, ok)
	assert.Equal(t, 200, v)
}

func TestOrderedMapEqual(t *testing.T) {
	a := NewTagAssignmentMap()
	a.Set("X", 1)
	a.Set("Y", 2)

	b := NewTagAssignmentMap()
	b.Set("X", 1)
	b.Set("Y", 2)
	assert.True(t, a.Equal(b))

	// Same entries in a different order are not equal.
	c := NewTagAssignmentMap()
	c.Set("Y", 2)
	c.Set("X", 1)
	assert.False(t, a.Equal(c))

	// Differing values are not equal.
	d := NewTagAssignmentMap()
	d.Set("X", 1)
	d.Set("Y", 3)
	assert.False(t, a.Equal(d))

	var nilMap *TagAssignmentMap
	assert.True(t, nilMap.Equal(nil))
	assert.False(t, a.Equal(nil))
}
