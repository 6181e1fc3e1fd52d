package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"yara_assistant/internal/memory"
	"yara_assistant/pkg"
	"yara_assistant/src/conversation"
)

// Node represents a single step in the response decision chain
type Node interface {
	Execute(ctx context.Context, turn *Turn) (NodeOutput, error)
	GetName() string
	GetType() NodeType
}

// NodeType defines the different types of nodes in the chain
type NodeType string

const (
	NodeTypeMemory     NodeType = "memory"
	NodeTypeNLU        NodeType = "nlu"
	NodeTypeDatabase   NodeType = "database"
	NodeTypeFallback   NodeType = "fallback"
	NodeTypeGeneration NodeType = "generation"
)

// NodeOutput contains the output data from a node
type NodeOutput struct {
	Data     map[string]any `json:"data"`
	Complete bool           `json:"complete"`
}

// Turn carries the state of one utterance through the chain
type Turn struct {
	Utterance     string             `json:"utterance"`
	Context       string             `json:"context,omitempty"`
	Session       *Session           `json:"-"`
	Intent        pkg.IntentResult   `json:"intent"`
	Classified    bool               `json:"classified"`
	Response      string             `json:"response"`
	Source        pkg.ResponseSource `json:"source"`
	MemoryAction  pkg.MemoryAction   `json:"memory_action"`
	DatabaseUsed  bool               `json:"database_used"`
	ExecutionPath []string           `json:"execution_path"`
	Errors        []string           `json:"errors,omitempty"`
	Metadata      map[string]any     `json:"metadata"`
}

// NewTurn prepares a turn for one utterance on a session
func NewTurn(utterance, extraContext string, session *Session) *Turn {
	return &Turn{
		Utterance:    utterance,
		Context:      extraContext,
		Session:      session,
		Intent:       pkg.DefaultIntentResult,
		MemoryAction: pkg.MemoryActionNone,
		Metadata:     make(map[string]any),
	}
}

// Respond records the final response and which branch produced it
func (t *Turn) Respond(response string, source pkg.ResponseSource) NodeOutput {
	t.Response = response
	t.Source = source
	return NodeOutput{
		Data:     map[string]any{"response": response, "source": source},
		Complete: true,
	}
}

// Session is the per-session aggregate of memory and history
type Session struct {
	ID        string                `json:"id"`
	Memory    *memory.Store         `json:"-"`
	History   *conversation.History `json:"-"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`

	mu         sync.Mutex
	lastActive atomic.Int64
}

// NewSession creates an empty session with a bounded history
func NewSession(id string, maxHistory int) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Memory:    memory.NewStore(),
		History:   conversation.NewHistory(maxHistory),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.lastActive.Store(now.UnixNano())
	return s
}

// Lock serializes turns on this session
func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.UpdatedAt = time.Now()
	s.lastActive.Store(s.UpdatedAt.UnixNano())
	s.mu.Unlock()
}

// Reset clears memory and history
func (s *Session) Reset() {
	s.Lock()
	defer s.Unlock()
	s.Memory.Clear()
	s.History.Clear()
}

// Snapshot is a read-only view of a session for display
type Snapshot struct {
	ID        string                 `json:"id"`
	Memory    map[string]string      `json:"memory"`
	Turns     []pkg.ConversationTurn `json:"turns"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// Snapshot copies the session state under its lock
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.ID,
		Memory:    s.Memory.All(),
		Turns:     s.History.Turns(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// LastActive returns the time of the last completed turn without taking the session lock
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}
