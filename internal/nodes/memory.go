package nodes

import (
	"context"
	"yara_assistant/internal/core"
	"yara_assistant/internal/memory"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"
)

// actionIntents reports memory turns under the intent matching the rule that fired
var actionIntents = map[pkg.MemoryAction]pkg.Intent{
	pkg.MemoryActionStore:   pkg.IntentMemoryStore,
	pkg.MemoryActionQuery:   pkg.IntentMemoryQuery,
	pkg.MemoryActionForget:  pkg.IntentMemoryManage,
	pkg.MemoryActionSummary: pkg.IntentMemoryManage,
}

// MemoryNode answers remember/recall/forget requests against the session memory
type MemoryNode struct {
	rules *memory.RuleEngine
}

func NewMemoryNode(rules *memory.RuleEngine) *MemoryNode {
	if rules == nil {
		rules = memory.NewRuleEngine()
	}
	return &MemoryNode{rules: rules}
}

func (m *MemoryNode) Execute(ctx context.Context, turn *core.Turn) (core.NodeOutput, error) {
	response, action := m.rules.Process(turn.Utterance, turn.Session.Memory)
	if response == "" {
		return core.NodeOutput{}, nil
	}

	turn.MemoryAction = action
	turn.Intent = pkg.IntentResult{Label: actionIntents[action], Confidence: 1.0}

	logger.Debug().Str("action", string(action)).Msg("🧠 Memory rule matched")
	output := turn.Respond(response, pkg.SourceMemory)
	output.Data["action"] = action
	return output, nil
}

func (m *MemoryNode) GetName() string {
	return "memory"
}

func (m *MemoryNode) GetType() core.NodeType {
	return core.NodeTypeMemory
}
