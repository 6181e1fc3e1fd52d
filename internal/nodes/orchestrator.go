// Package nodes holds the decision chain that turns one utterance into one
// response: memory rules, intent classification, business data, canned
// fallbacks and finally free-form generation.
package nodes

import (
	"context"
	"fmt"
	"time"
	"yara_assistant/internal/core"
	"yara_assistant/internal/memory"
	"yara_assistant/internal/services"
	"yara_assistant/pkg"
	"yara_assistant/src/conversation"
	"yara_assistant/src/llm"
	"yara_assistant/src/logger"
)

// Options wires the capabilities the orchestrator consults
type Options struct {
	Classifier IntentClassifier
	Data       services.BusinessData // nil means no database
	Generator  llm.Generator         // nil means fallbacks only
	Validator  *Validator
	Rules      *memory.RuleEngine
	Timeout    time.Duration // generation deadline, 0 for none
}

// Request is one user turn
type Request struct {
	Utterance string
	Context   string
	Session   *core.Session
}

// Result is the response to one turn and how it was produced
type Result struct {
	Response      string             `json:"response"`
	Intent        pkg.IntentResult   `json:"intent"`
	Source        pkg.ResponseSource `json:"source"`
	MemoryAction  pkg.MemoryAction   `json:"memory_action"`
	DatabaseUsed  bool               `json:"database_used"`
	ExecutionPath []string           `json:"execution_path"`
}

// Orchestrator runs the decision chain. It is safe for concurrent use; turns
// on the same session are serialized by the session lock.
type Orchestrator struct {
	processor *core.Processor
	data      services.BusinessData
}

// NewOrchestrator builds the chain memory → nlu → database → low_confidence →
// forced_fallback → generation.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Classifier == nil {
		return nil, fmt.Errorf("intent classifier is required")
	}
	if opts.Data == nil {
		opts.Data = services.Unavailable{}
	}

	database, err := NewDatabaseNode(opts.Data)
	if err != nil {
		return nil, err
	}

	processor := core.NewProcessor()
	chain := []core.Node{
		NewMemoryNode(opts.Rules),
		NewNLUNode(opts.Classifier),
		database,
		NewLowConfidenceNode(opts.Classifier.Threshold()),
		NewForcedFallbackNode(opts.Data),
		NewGenerationNode(opts.Generator, opts.Validator, opts.Timeout),
	}
	for _, node := range chain {
		if err := processor.AddNode(node); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Strs("nodes", processor.Nodes()).
		Bool("database", opts.Data.Available()).
		Bool("generator", opts.Generator != nil).
		Msg("✅ Response orchestrator ready")

	return &Orchestrator{processor: processor, data: opts.Data}, nil
}

// Respond produces exactly one response for the utterance and appends the
// exchange to the session history. It never fails: every capability error
// degrades to the next branch and ultimately to a canned response.
func (o *Orchestrator) Respond(ctx context.Context, req Request) Result {
	session := req.Session
	if session == nil {
		session = core.NewSession("", conversation.DefaultMaxLength)
	}

	session.Lock()
	defer session.Unlock()

	turn := core.NewTurn(req.Utterance, req.Context, session)
	o.processor.Execute(ctx, turn)

	if turn.Response == "" {
		turn.Respond(Fallback(turn.Intent.Label, turn.Utterance), pkg.SourceFallback)
	}

	session.History.Append(turn.Utterance, turn.Response)

	logger.Info().
		Str("session_id", session.ID).
		Str("intent", string(turn.Intent.Label)).
		Float64("confidence", turn.Intent.Confidence).
		Str("source", string(turn.Source)).
		Msg("💬 Turn answered")

	return Result{
		Response:      turn.Response,
		Intent:        turn.Intent,
		Source:        turn.Source,
		MemoryAction:  turn.MemoryAction,
		DatabaseUsed:  turn.DatabaseUsed,
		ExecutionPath: turn.ExecutionPath,
	}
}

// Nodes returns the chain's node names in execution order
func (o *Orchestrator) Nodes() []string {
	return o.processor.Nodes()
}

// DatabaseAvailable reports whether data intents can be answered from the store
func (o *Orchestrator) DatabaseAvailable() bool {
	return o.data.Available()
}
