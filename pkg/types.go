package pkg

// Core types shared by the decision engine, the API and the CLI

// Intent is the fixed label classifying the purpose of one utterance
type Intent string

const (
	IntentRevenueQuery     Intent = "revenue_query"
	IntentCustomerQuery    Intent = "customer_query"
	IntentProductQuery     Intent = "product_query"
	IntentGreeting         Intent = "greeting"
	IntentPersonalQuestion Intent = "personal_question"
	IntentGratitude        Intent = "gratitude"
	IntentFarewell         Intent = "farewell"
	IntentMemoryQuery      Intent = "memory_query"
	IntentMemoryStore      Intent = "memory_store"
	IntentMemoryManage     Intent = "memory_manage"
	IntentGeneralChat      Intent = "general_chat"
)

// AllIntents lists every intent in declaration order. Ties between equal scores
// are broken by this order.
var AllIntents = []Intent{
	IntentRevenueQuery,
	IntentCustomerQuery,
	IntentProductQuery,
	IntentGreeting,
	IntentPersonalQuestion,
	IntentGratitude,
	IntentFarewell,
	IntentMemoryQuery,
	IntentMemoryStore,
	IntentMemoryManage,
	IntentGeneralChat,
}

// IsDatabase reports whether the intent is answered from the backing store
func (i Intent) IsDatabase() bool {
	switch i {
	case IntentRevenueQuery, IntentCustomerQuery, IntentProductQuery:
		return true
	}
	return false
}

// Valid reports whether the intent belongs to the closed set
func (i Intent) Valid() bool {
	for _, known := range AllIntents {
		if i == known {
			return true
		}
	}
	return false
}

// IntentResult is one classification decision
type IntentResult struct {
	Label      Intent  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// DefaultIntentResult is returned whenever no intent clears the threshold
var DefaultIntentResult = IntentResult{Label: IntentGeneralChat, Confidence: 0.5}

// MemoryAction is the outcome of the memory rule engine
type MemoryAction string

const (
	MemoryActionStore   MemoryAction = "store"
	MemoryActionQuery   MemoryAction = "query"
	MemoryActionForget  MemoryAction = "forget"
	MemoryActionSummary MemoryAction = "summary"
	MemoryActionNone    MemoryAction = "none"
)

// SlotSource records how a memory slot was obtained
type SlotSource string

const (
	SlotSourceUserInput SlotSource = "user_input"
	SlotSourceExtracted SlotSource = "extracted"
)

// ConversationTurn is one user/assistant exchange
type ConversationTurn struct {
	UserText      string `json:"user"`
	AssistantText string `json:"assistant"`
}

// Record is one flat row returned by the backing store
type Record map[string]any

// ResponseSource tells which branch of the decision chain produced a response
type ResponseSource string

const (
	SourceMemory    ResponseSource = "memory"
	SourceDatabase  ResponseSource = "database"
	SourceFallback  ResponseSource = "fallback"
	SourceGenerated ResponseSource = "generated"
)

// AssistantName is the persona every response speaks as
const AssistantName = "Yara"
