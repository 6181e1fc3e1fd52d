package memory

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"
)

// Fixed slot keys recognized by the store and query rules
const (
	KeyName          = "name"
	KeyFavoriteColor = "favorite_color"
	KeyLocation      = "location"
)

// slotPatterns binds a slot key to the anchored phrasings that recognize it
type slotPatterns struct {
	key      string
	patterns []*regexp.Regexp
}

// ruleHandler runs one rule group. ok is false when no pattern in the group matched.
type ruleHandler func(text string, store *Store) (response string, ok bool)

// rule is one priority level of the engine
type rule struct {
	name    string
	action  pkg.MemoryAction
	handler ruleHandler
}

// Word captures use [\p{L}\p{N}_] since Go's \w is ASCII-only
var forgetPatterns = compileAll(
	`forget my ([\p{L}\p{N}_]+)`,
	`forget what i told you`,
	`remove my ([\p{L}\p{N}_]+)`,
	`delete my ([\p{L}\p{N}_]+)`,
	`clear my ([\p{L}\p{N}_]+)`,
)

var summaryPatterns = compileAll(
	`what do you remember\??`,
	`what do you know about me\??`,
	`show me what you remember\??`,
	`my information\??`,
)

var storePatterns = []slotPatterns{
	{KeyName, compileAll(
		`^my name is ([\p{L}\p{N}_]+)$`,
		`^i'm ([\p{L}\p{N}_]+)$`,
		`^i am ([\p{L}\p{N}_]+)$`,
		`^call me ([\p{L}\p{N}_]+)$`,
		`^([\p{L}\p{N}_]+) is my name$`,
	)},
	{KeyFavoriteColor, compileAll(
		`^my favorite color is ([\p{L}\p{N}_]+)$`,
		`^my fav color is ([\p{L}\p{N}_]+)$`,
		`^my fav clr is ([\p{L}\p{N}_]+)$`,
		`^i like ([\p{L}\p{N}_]+)$`,
		`^i love ([\p{L}\p{N}_]+)$`,
		`^([\p{L}\p{N}_]+) is my favorite color$`,
	)},
	{KeyLocation, compileAll(
		`^i live in ([^.!?]+)$`,
		`^i'm from ([^.!?]+)$`,
		`^my location is ([^.!?]+)$`,
		`^i'm in ([^.!?]+)$`,
	)},
}

var queryPatterns = []slotPatterns{
	{KeyName, compileAll(
		`^what is my name\??$`,
		`^what's my name\??$`,
		`^do you know my name\??$`,
		`^remember my name\??$`,
		`^my name\??$`,
	)},
	{KeyFavoriteColor, compileAll(
		`^what is my favorite color\??$`,
		`^what is my fav color\??$`,
		`^what is my fav clr\??$`,
		`^what's my favorite color\??$`,
		`^do you know my favorite color\??$`,
		`^my favorite color\??$`,
	)},
	{KeyLocation, compileAll(
		`^where do i live\??$`,
		`^where am i from\??$`,
		`^what's my location\??$`,
		`^my location\??$`,
	)},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// RuleEngine parses utterances into memory actions against a session Store
type RuleEngine struct {
	rules []rule
}

// NewRuleEngine creates the engine with its rule groups in priority order:
// forget, summary, store, query.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{
		rules: []rule{
			{name: "forget", action: pkg.MemoryActionForget, handler: handleForget},
			{name: "summary", action: pkg.MemoryActionSummary, handler: handleSummary},
			{name: "store", action: pkg.MemoryActionStore, handler: handleStore},
			{name: "query", action: pkg.MemoryActionQuery, handler: handleQuery},
		},
	}
}

// Process evaluates text against every rule group, first match wins. It
// returns an empty response and MemoryActionNone when nothing matched.
func (e *RuleEngine) Process(text string, store *Store) (string, pkg.MemoryAction) {
	lower := strings.ToLower(text)
	for _, r := range e.rules {
		if response, ok := r.handler(lower, store); ok {
			logger.Debug().Str("rule", r.name).Msg("🧠 Memory rule matched")
			return response, r.action
		}
	}
	return "", pkg.MemoryActionNone
}

func handleForget(text string, store *Store) (string, bool) {
	for _, re := range forgetPatterns {
		match := re.FindStringSubmatch(text)
		if match == nil {
			continue
		}

		if strings.Contains(text, "what i told you") {
			store.Clear()
			return "Alright, I'll forget everything you told me for now. 🧹", true
		}

		token := match[1]
		if key, found := resolveKey(token, store); found {
			store.Remove(key)
			return fmt.Sprintf("Alright, I'll forget your %s for now. 🧹", key), true
		}
		return fmt.Sprintf("I don't have your %s stored, so there's nothing to forget. 🤷‍♀️", token), true
	}
	return "", false
}

// resolveKey finds the first stored key (insertion order) that contains token
// or is contained by it.
func resolveKey(token string, store *Store) (string, bool) {
	for _, key := range store.Keys() {
		if strings.Contains(key, token) || strings.Contains(token, key) {
			return key, true
		}
	}
	return "", false
}

func handleSummary(text string, store *Store) (string, bool) {
	for _, re := range summaryPatterns {
		if re.MatchString(text) {
			return store.Summary(), true
		}
	}
	return "", false
}

func handleStore(text string, store *Store) (string, bool) {
	for _, group := range storePatterns {
		for _, re := range group.patterns {
			match := re.FindStringSubmatch(text)
			if match == nil {
				continue
			}
			value := strings.TrimSpace(match[1])
			store.Store(group.key, value, pkg.SlotSourceUserInput)
			return storeAcknowledgement(group.key, value), true
		}
	}
	return "", false
}

func storeAcknowledgement(key, value string) string {
	switch key {
	case KeyName:
		return fmt.Sprintf("Nice to meet you, %s! I'll remember that during this chat. 😊", DisplayName(value))
	case KeyFavoriteColor:
		return fmt.Sprintf("Got it! I'll remember that your favorite color is %s. 🎨", value)
	case KeyLocation:
		return fmt.Sprintf("Thanks! I'll remember you're from %s. 🌍", value)
	default:
		return fmt.Sprintf("I'll remember that your %s is %s. 👍", key, value)
	}
}

func handleQuery(text string, store *Store) (string, bool) {
	for _, group := range queryPatterns {
		for _, re := range group.patterns {
			if !re.MatchString(text) {
				continue
			}
			value, ok := store.Retrieve(group.key)
			if ok && value != "" {
				return queryAnswer(group.key, value), true
			}
			return queryUnknown(group.key), true
		}
	}
	return "", false
}

func queryAnswer(key, value string) string {
	switch key {
	case KeyName:
		return fmt.Sprintf("Your name is %s. 😊", DisplayName(value))
	case KeyFavoriteColor:
		return fmt.Sprintf("Your favorite color is %s. 🎨", value)
	case KeyLocation:
		return fmt.Sprintf("You're from %s. 🌍", value)
	default:
		return fmt.Sprintf("Your %s is %s. 👍", key, value)
	}
}

func queryUnknown(key string) string {
	switch key {
	case KeyName:
		return "I don't know yet! What's your name? 😊"
	case KeyFavoriteColor:
		return "I don't know yet! What's your favorite color? 🎨"
	case KeyLocation:
		return "I don't know yet! Where are you from? 🌍"
	default:
		return fmt.Sprintf("I don't know your %s yet. Could you tell me? 🤔", key)
	}
}

// DisplayName upper-cases the first letter of a stored name
func DisplayName(value string) string {
	r, size := utf8.DecodeRuneInString(value)
	if r == utf8.RuneError {
		return value
	}
	return string(unicode.ToUpper(r)) + value[size:]
}
