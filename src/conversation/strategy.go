package conversation

import (
	"strings"
	"yara_assistant/pkg"
)

// ContextStrategy renders a window of turns into prompt text
type ContextStrategy interface {
	BuildContext(turns []pkg.ConversationTurn) string
	MaxTurns() int
}

// ====================== Generation ======================
// PromptStrategy - generation prompt uses the last 3 exchanges
type PromptStrategy struct {
	maxTurns int
}

func NewPromptStrategy() *PromptStrategy {
	return &PromptStrategy{maxTurns: 3}
}

func (s *PromptStrategy) MaxTurns() int {
	return s.maxTurns
}

func (s *PromptStrategy) BuildContext(turns []pkg.ConversationTurn) string {
	recent := trimTail(turns, s.maxTurns)

	lines := make([]string, 0, len(recent)*2)
	for _, turn := range recent {
		lines = append(lines, "User: "+turn.UserText)
		lines = append(lines, pkg.AssistantName+": "+turn.AssistantText)
	}
	return strings.Join(lines, "\n")
}

// Helper function
func trimTail(turns []pkg.ConversationTurn, maxTurns int) []pkg.ConversationTurn {
	if maxTurns < 0 || len(turns) <= maxTurns {
		return turns
	}
	return turns[len(turns)-maxTurns:]
}
