// Package memory holds the per-session fact store and the pattern rules that
// read and write it from user utterances.
package memory

import (
	"fmt"
	"strings"
	"time"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"
)

// Slot is one stored user fact with provenance metadata
type Slot struct {
	Key               string         `json:"key"`
	Value             string         `json:"value"`
	StoredAt          time.Time      `json:"stored_at"`
	Source            pkg.SlotSource `json:"source"`
	SessionAgeSeconds float64        `json:"session_age_seconds"`
}

// Store is an insertion-ordered key/value fact store owned by a single session.
// It is not safe for concurrent use; callers hold the session lock.
type Store struct {
	slots        map[string]Slot
	order        []string
	sessionStart time.Time
	now          func() time.Time
}

// NewStore creates an empty store whose session starts now
func NewStore() *Store {
	s := &Store{
		slots: make(map[string]Slot),
		now:   time.Now,
	}
	s.sessionStart = s.now()
	return s
}

// Store writes value under key. Last write wins; an overwritten key keeps its
// original position in the ordering.
func (s *Store) Store(key, value string, source pkg.SlotSource) {
	now := s.now()
	if _, exists := s.slots[key]; !exists {
		s.order = append(s.order, key)
	}
	s.slots[key] = Slot{
		Key:               key,
		Value:             value,
		StoredAt:          now,
		Source:            source,
		SessionAgeSeconds: now.Sub(s.sessionStart).Seconds(),
	}
	logger.Debug().Str("key", key).Str("value", value).Msg("💾 Stored in memory")
}

// Retrieve returns the value stored under key
func (s *Store) Retrieve(key string) (string, bool) {
	slot, ok := s.slots[key]
	return slot.Value, ok
}

// Slot returns the full slot stored under key
func (s *Store) Slot(key string) (Slot, bool) {
	slot, ok := s.slots[key]
	return slot, ok
}

// Has reports whether key is stored
func (s *Store) Has(key string) bool {
	_, ok := s.slots[key]
	return ok
}

// Remove deletes key, reporting whether it was present
func (s *Store) Remove(key string) bool {
	if _, ok := s.slots[key]; !ok {
		return false
	}
	delete(s.slots, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	logger.Debug().Str("key", key).Msg("🧹 Removed from memory")
	return true
}

// Clear empties the store and restarts the session clock
func (s *Store) Clear() {
	s.slots = make(map[string]Slot)
	s.order = nil
	s.sessionStart = s.now()
	logger.Debug().Msg("🧹 Session memory cleared")
}

// Keys returns stored keys in insertion order
func (s *Store) Keys() []string {
	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys
}

// All returns a copy of every key/value pair
func (s *Store) All() map[string]string {
	all := make(map[string]string, len(s.slots))
	for k, slot := range s.slots {
		all[k] = slot.Value
	}
	return all
}

// Len returns the number of stored facts
func (s *Store) Len() int {
	return len(s.order)
}

// SessionStart returns when the store was created or last cleared
func (s *Store) SessionStart() time.Time {
	return s.sessionStart
}

// Summary renders every stored fact as a bullet list for the user
func (s *Store) Summary() string {
	if len(s.order) == 0 {
		return "I don't have any information stored yet."
	}

	var b strings.Builder
	b.WriteString("Here's what I remember:")
	for _, k := range s.order {
		fmt.Fprintf(&b, "\n• %s: %s", k, s.slots[k].Value)
	}
	return b.String()
}

// Context renders stored facts for prompt injection, or "" when empty
func (s *Store) Context() string {
	if len(s.order) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("User Information:")
	for _, k := range s.order {
		fmt.Fprintf(&b, "\n- %s: %s", k, s.slots[k].Value)
	}
	return b.String()
}
