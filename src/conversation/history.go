package conversation

import "yara_assistant/pkg"

// DefaultMaxLength is the history capacity used when none is configured
const DefaultMaxLength = 10

// History is a bounded FIFO of conversation turns owned by one session.
// It is not safe for concurrent use; callers hold the session lock.
type History struct {
	turns     []pkg.ConversationTurn
	maxLength int
}

// NewHistory creates an empty history holding at most maxLength turns
func NewHistory(maxLength int) *History {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &History{
		turns:     make([]pkg.ConversationTurn, 0, maxLength),
		maxLength: maxLength,
	}
}

// Append records one exchange, evicting the oldest once over capacity
func (h *History) Append(user, assistant string) {
	h.turns = append(h.turns, pkg.ConversationTurn{UserText: user, AssistantText: assistant})
	if over := len(h.turns) - h.maxLength; over > 0 {
		h.turns = append(h.turns[:0], h.turns[over:]...)
	}
}

// Recent returns the last up-to-n turns, oldest first
func (h *History) Recent(n int) []pkg.ConversationTurn {
	window := trimTail(h.turns, n)
	out := make([]pkg.ConversationTurn, len(window))
	copy(out, window)
	return out
}

// Turns returns a copy of every retained turn
func (h *History) Turns() []pkg.ConversationTurn {
	return h.Recent(len(h.turns))
}

func (h *History) Len() int {
	return len(h.turns)
}

func (h *History) MaxLength() int {
	return h.maxLength
}

func (h *History) Clear() {
	h.turns = h.turns[:0]
}

// Context renders the strategy's window of recent turns
func (h *History) Context(strategy ContextStrategy) string {
	return strategy.BuildContext(h.Recent(strategy.MaxTurns()))
}
