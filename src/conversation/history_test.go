package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_FIFOEviction(t *testing.T) {
	h := NewHistory(10)

	for i := 0; i < 11; i++ {
		h.Append(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}

	turns := h.Turns()
	require.Len(t, turns, 10)
	assert.Equal(t, "u1", turns[0].UserText)
	assert.Equal(t, "u10", turns[9].UserText)
	assert.Equal(t, "a10", turns[9].AssistantText)
}

func TestHistory_DefaultCapacity(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultMaxLength, h.MaxLength())
}

func TestHistory_Recent(t *testing.T) {
	h := NewHistory(5)
	assert.Empty(t, h.Recent(3))

	h.Append("u0", "a0")
	h.Append("u1", "a1")
	assert.Len(t, h.Recent(3), 2)

	h.Append("u2", "a2")
	h.Append("u3", "a3")

	recent := h.Recent(3)
	require.Len(t, recent, 3)
	assert.Equal(t, "u1", recent[0].UserText)
	assert.Equal(t, "u3", recent[2].UserText)

	recent[0].UserText = "mutated"
	assert.Equal(t, "u1", h.Recent(3)[0].UserText)
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(3)
	h.Append("u", "a")
	h.Clear()
	assert.Equal(t, 0, h.Len())
}

func TestPromptStrategy_BuildContext(t *testing.T) {
	h := NewHistory(10)
	assert.Equal(t, "", h.Context(NewPromptStrategy()))

	for i := 0; i < 4; i++ {
		h.Append(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}

	expected := "User: u1\nYara: a1\nUser: u2\nYara: a2\nUser: u3\nYara: a3"
	assert.Equal(t, expected, h.Context(NewPromptStrategy()))
}
