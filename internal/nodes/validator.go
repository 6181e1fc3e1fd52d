package nodes

import (
	"strings"
	"unicode/utf8"
	"yara_assistant/pkg"
)

// Default response length bounds, in characters
const (
	DefaultMinResponseLength = 10
	DefaultMaxResponseLength = 500
)

// blacklist holds fragments of persona drift seen in raw model output
var blacklist = []string{
	"waifu",
	"hero that's needed",
	"who is this",
	"tell me about your",
	"i am the",
	"i am a",
	"i am",
	"i'm the",
	"i'm a",
}

// identityMarkers must appear in an answer to "who are you"
var identityMarkers = []string{"yara", "assistant", "ai", "help", "friendly", "helpful"}

// Validator filters generated candidates before they reach the user
type Validator struct {
	enabled   bool
	minLength int
	maxLength int
}

// NewValidator creates a validator. Non-positive bounds take the defaults.
func NewValidator(enabled bool, minLength, maxLength int) *Validator {
	if minLength <= 0 {
		minLength = DefaultMinResponseLength
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxResponseLength
	}
	return &Validator{
		enabled:   enabled,
		minLength: minLength,
		maxLength: maxLength,
	}
}

// IsValid reports whether candidate may be returned for utterance
func (v *Validator) IsValid(candidate, utterance string, intent pkg.Intent) bool {
	if !v.enabled {
		return true
	}

	trimmed := strings.TrimSpace(candidate)
	length := utf8.RuneCountInString(trimmed)
	if length < v.minLength || length > v.maxLength {
		return false
	}

	lower := strings.ToLower(candidate)
	for _, fragment := range blacklist {
		if strings.Contains(lower, fragment) {
			return false
		}
	}

	if intent == pkg.IntentPersonalQuestion && strings.Contains(strings.ToLower(utterance), "who are you") {
		for _, marker := range identityMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		return false
	}

	return true
}
