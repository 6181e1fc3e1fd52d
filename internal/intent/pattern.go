// Package intent classifies utterances into the fixed intent set by fusing
// lexical pattern scores with embedding similarity to exemplar utterances.
package intent

import (
	"regexp"
	"strings"
	"yara_assistant/pkg"
)

// PatternWeight is the score contributed by each regex match
const PatternWeight = 0.3

type patternRule struct {
	intent   pkg.Intent
	patterns []*regexp.Regexp
}

var patternTable = []patternRule{
	{pkg.IntentRevenueQuery, mustCompile(
		`revenue|earnings|income|sales|money|profit|financial|quarter|year|month`,
		`how much|what was|total|amount|earned|made`,
	)},
	{pkg.IntentCustomerQuery, mustCompile(
		`customer|client|user|buyer|purchaser`,
		`how many|count|list|show|find`,
	)},
	{pkg.IntentProductQuery, mustCompile(
		`product|item|goods|service|offering`,
		`price|cost|inventory|stock|available`,
	)},
	{pkg.IntentGreeting, mustCompile(
		`hello|hi|hey|greeting|how are you|good morning|good afternoon|good evening`,
		`what's up|sup|yo|greetings`,
	)},
	{pkg.IntentPersonalQuestion, mustCompile(
		`who are you|what's your name|tell me about yourself|what can you do`,
		`your personality|your traits|about you`,
	)},
	{pkg.IntentGratitude, mustCompile(
		`thank you|thanks|thx|appreciate it|grateful|awesome|great|good job`,
		`well done|excellent|fantastic|amazing`,
	)},
	{pkg.IntentFarewell, mustCompile(
		`goodbye|bye|see you|see ya|take care|farewell|until next time`,
		`have a good day|have a nice day|good night`,
	)},
	{pkg.IntentMemoryQuery, mustCompile(
		`what is my [\p{L}\p{N}_]+`,
		`what's my [\p{L}\p{N}_]+`,
		`do you know my [\p{L}\p{N}_]+`,
		`remember my [\p{L}\p{N}_]+`,
		`where do i live`,
		`where am i from`,
		`what's my location`,
	)},
	{pkg.IntentMemoryStore, mustCompile(
		`my name is [\p{L}\p{N}_]+`,
		`i'm [\p{L}\p{N}_]+`,
		`i am [\p{L}\p{N}_]+`,
		`call me [\p{L}\p{N}_]+`,
		`[\p{L}\p{N}_]+ is my name`,
		`my favorite color is [\p{L}\p{N}_]+`,
		`i like [\p{L}\p{N}_]+`,
		`i love [\p{L}\p{N}_]+`,
		`[\p{L}\p{N}_]+ is my favorite color`,
		`i live in [^.!?]+`,
		`i'm from [^.!?]+`,
		`my location is [^.!?]+`,
		`i'm in [^.!?]+`,
	)},
	{pkg.IntentMemoryManage, mustCompile(
		`forget my [\p{L}\p{N}_]+`,
		`forget what i told you`,
		`remove my [\p{L}\p{N}_]+`,
		`delete my [\p{L}\p{N}_]+`,
		`clear my [\p{L}\p{N}_]+`,
		`what do you remember`,
		`what do you know about me`,
		`show me what you remember`,
		`my information`,
	)},
	{pkg.IntentGeneralChat, mustCompile(
		`weather|joke|story|fun|entertainment|how's it going|what's new`,
		`chat|conversation|talk|discuss`,
	)},
}

func mustCompile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

// PatternScorer scores utterances by counting lexical rule matches
type PatternScorer struct {
	rules []patternRule
}

// NewPatternScorer creates a scorer over the built-in rule table
func NewPatternScorer() *PatternScorer {
	return &PatternScorer{rules: patternTable}
}

// Score returns PatternWeight times the total match count per intent. Each
// rule is counted independently over the lowercased text; intents without a
// match are omitted.
func (p *PatternScorer) Score(text string) map[pkg.Intent]float64 {
	lower := strings.ToLower(text)
	scores := make(map[pkg.Intent]float64)

	for _, rule := range p.rules {
		matches := 0
		for _, re := range rule.patterns {
			matches += len(re.FindAllStringIndex(lower, -1))
		}
		if matches > 0 {
			scores[rule.intent] = float64(matches) * PatternWeight
		}
	}
	return scores
}
