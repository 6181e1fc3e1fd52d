package memory

import (
	"testing"
	"time"
	"yara_assistant/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_StoreAndRetrieve(t *testing.T) {
	s := NewStore()

	s.Store("name", "alex", pkg.SlotSourceUserInput)

	value, ok := s.Retrieve("name")
	require.True(t, ok)
	assert.Equal(t, "alex", value)
	assert.True(t, s.Has("name"))
	assert.False(t, s.Has("location"))

	_, ok = s.Retrieve("location")
	assert.False(t, ok)
}

func TestStore_LastWriteWinsKeepsPosition(t *testing.T) {
	s := NewStore()
	s.Store("name", "alex", pkg.SlotSourceUserInput)
	s.Store("location", "paris", pkg.SlotSourceUserInput)
	s.Store("name", "sam", pkg.SlotSourceExtracted)

	assert.Equal(t, []string{"name", "location"}, s.Keys())
	assert.Equal(t, 2, s.Len())

	slot, ok := s.Slot("name")
	require.True(t, ok)
	assert.Equal(t, "sam", slot.Value)
	assert.Equal(t, pkg.SlotSourceExtracted, slot.Source)
}

func TestStore_SlotMetadata(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	current := start
	s := NewStore()
	s.now = func() time.Time { return current }
	s.Clear()

	current = start.Add(90 * time.Second)
	s.Store("name", "alex", pkg.SlotSourceUserInput)

	slot, ok := s.Slot("name")
	require.True(t, ok)
	assert.Equal(t, current, slot.StoredAt)
	assert.InDelta(t, 90.0, slot.SessionAgeSeconds, 0.001)
	assert.Equal(t, start, s.SessionStart())
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	s.Store("name", "alex", pkg.SlotSourceUserInput)
	s.Store("location", "paris", pkg.SlotSourceUserInput)

	assert.True(t, s.Remove("name"))
	assert.False(t, s.Remove("name"))
	assert.Equal(t, []string{"location"}, s.Keys())
}

func TestStore_ClearResetsSessionStart(t *testing.T) {
	s := NewStore()
	later := s.SessionStart().Add(time.Hour)
	s.now = func() time.Time { return later }
	s.Store("name", "alex", pkg.SlotSourceUserInput)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.All())
	assert.Equal(t, later, s.SessionStart())
}

func TestStore_AllReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Store("name", "alex", pkg.SlotSourceUserInput)

	all := s.All()
	all["name"] = "changed"

	value, _ := s.Retrieve("name")
	assert.Equal(t, "alex", value)
}

func TestStore_SummaryAndContext(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "I don't have any information stored yet.", s.Summary())
	assert.Equal(t, "", s.Context())

	s.Store("name", "alex", pkg.SlotSourceUserInput)
	s.Store("favorite_color", "blue", pkg.SlotSourceUserInput)

	assert.Equal(t, "Here's what I remember:\n• name: alex\n• favorite_color: blue", s.Summary())
	assert.Equal(t, "User Information:\n- name: alex\n- favorite_color: blue", s.Context())
}
