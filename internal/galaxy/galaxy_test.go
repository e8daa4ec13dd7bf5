package galaxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_CompleteOnlyOnce(t *testing.T) {
	m := NewMap()
	assert.True(t, m.Complete(Ocean))
	assert.False(t, m.Complete(Ocean))

	d, ok := m.Get(Ocean)
	require.True(t, ok)
	assert.True(t, d.Completed)
	assert.False(t, m.Complete("PLUTO"))
}

func TestMap_AllCompletedAndReset(t *testing.T) {
	m := NewMap()
	for _, id := range IDs() {
		assert.False(t, m.AllCompleted())
		m.Complete(id)
	}
	assert.True(t, m.AllCompleted())

	m.Reset()
	for _, d := range m.List() {
		assert.False(t, d.Completed)
	}
}

func TestMap_RestoreIgnoresUnknown(t *testing.T) {
	m := NewMap()
	m.Restore([]Completion{{ID: Art, Completed: true}, {ID: "PLUTO", Completed: true}, {ID: Space}})

	done := 0
	for _, c := range m.Completions() {
		if c.Completed {
			done++
			assert.Equal(t, Art, c.ID)
		}
	}
	assert.Equal(t, 1, done)
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" history ")
	require.NoError(t, err)
	assert.Equal(t, History, id)

	_, err = ParseID("pluto")
	assert.ErrorIs(t, err, ErrUnknownDestination)
	assert.Len(t, IDs(), 6)
}
