package nodes

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"yara_assistant/internal/core"
	"yara_assistant/internal/intent"
	"yara_assistant/internal/services"
	"yara_assistant/pkg"
	"yara_assistant/src/llm"
	"yara_assistant/src/llm/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	result    pkg.IntentResult
	threshold float64
	calls     int
	mu        sync.Mutex
}

func (s *stubClassifier) Classify(ctx context.Context, text string) pkg.IntentResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.result
}

func (s *stubClassifier) Threshold() float64 {
	return s.threshold
}

func classifyAs(label pkg.Intent, confidence float64) *stubClassifier {
	return &stubClassifier{result: pkg.IntentResult{Label: label, Confidence: confidence}, threshold: 0.7}
}

type stubGenerator struct {
	reply     string
	err       error
	prompt    string
	maxLength int
	calls     int
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	s.calls++
	s.prompt = prompt
	s.maxLength = maxLength
	if s.err != nil {
		return "", s.err
	}
	return llm.Continue(prompt, s.reply), nil
}

func newOrchestrator(t *testing.T, opts Options) *Orchestrator {
	t.Helper()
	if opts.Validator == nil {
		opts.Validator = NewValidator(true, DefaultMinResponseLength, DefaultMaxResponseLength)
	}
	o, err := NewOrchestrator(opts)
	require.NoError(t, err)
	return o
}

func TestNewOrchestrator_RequiresClassifier(t *testing.T) {
	_, err := NewOrchestrator(Options{})
	assert.Error(t, err)
}

func TestOrchestrator_ChainOrder(t *testing.T) {
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGeneralChat, 0.9)})

	assert.Equal(t, []string{"memory", "nlu", "database", "low_confidence", "forced_fallback", "generation"}, o.Nodes())
	assert.False(t, o.DatabaseAvailable())
}

func TestOrchestrator_MemoryBranchShortCircuits(t *testing.T) {
	classifier := classifyAs(pkg.IntentGreeting, 0.9)
	o := newOrchestrator(t, Options{Classifier: classifier})
	session := core.NewSession("s1", 10)

	result := o.Respond(context.Background(), Request{Utterance: "My name is Sam", Session: session})

	assert.Equal(t, "Nice to meet you, Sam! I'll remember that during this chat. 😊", result.Response)
	assert.Equal(t, pkg.SourceMemory, result.Source)
	assert.Equal(t, pkg.MemoryActionStore, result.MemoryAction)
	assert.Equal(t, pkg.IntentResult{Label: pkg.IntentMemoryStore, Confidence: 1.0}, result.Intent)
	assert.Equal(t, []string{"memory"}, result.ExecutionPath)
	assert.Zero(t, classifier.calls)

	result = o.Respond(context.Background(), Request{Utterance: "What is my name?", Session: session})
	assert.Equal(t, "Your name is Sam. 😊", result.Response)
	assert.Equal(t, pkg.MemoryActionQuery, result.MemoryAction)

	turns := session.History.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, "My name is Sam", turns[0].UserText)
	assert.Equal(t, "Your name is Sam. 😊", turns[1].AssistantText)
}

func TestOrchestrator_ConversationalIntentUsesFallback(t *testing.T) {
	gen := &stubGenerator{reply: "should not be used"}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGreeting, 0.95), Generator: gen})

	result := o.Respond(context.Background(), Request{Utterance: "hello there", Session: core.NewSession("s", 10)})

	assert.Equal(t, Fallback(pkg.IntentGreeting, ""), result.Response)
	assert.Equal(t, pkg.SourceFallback, result.Source)
	assert.Equal(t, []string{"memory", "nlu", "database", "low_confidence", "forced_fallback"}, result.ExecutionPath)
	assert.Zero(t, gen.calls)
}

func TestOrchestrator_LowConfidenceFallback(t *testing.T) {
	gen := &stubGenerator{reply: "should not be used"}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGeneralChat, 0.5), Generator: gen})

	result := o.Respond(context.Background(), Request{Utterance: "blorp", Session: core.NewSession("s", 10)})

	assert.Equal(t, "I'm not sure I understood that, could you rephrase? 🤔", result.Response)
	assert.Equal(t, pkg.SourceFallback, result.Source)
	assert.Equal(t, "low_confidence", result.ExecutionPath[len(result.ExecutionPath)-1])
	assert.Zero(t, gen.calls)
}

func TestOrchestrator_DatabaseAnswer(t *testing.T) {
	data := &stubData{
		available: true,
		records: map[services.QueryName][]pkg.Record{
			services.QueryRevenue: {{"total_revenue": 1500.0, "transaction_count": int64(3), "average_transaction": 500.0}},
		},
	}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentRevenueQuery, 0.95), Data: data})

	result := o.Respond(context.Background(), Request{Utterance: "What was revenue last year?", Session: core.NewSession("s", 10)})

	assert.Equal(t, FormatRevenue(data.records[services.QueryRevenue][0], services.PeriodLastYear), result.Response)
	assert.Equal(t, pkg.SourceDatabase, result.Source)
	assert.True(t, result.DatabaseUsed)
	require.Len(t, data.calls, 1)
	assert.Equal(t, services.PeriodLastYear, data.calls[0][services.ParamPeriod])
}

func TestOrchestrator_DatabaseRunsBeforeLowConfidence(t *testing.T) {
	data := &stubData{
		available: true,
		records: map[services.QueryName][]pkg.Record{
			services.QueryCustomer: {{"customer_id": "c1"}, {"customer_id": "c2"}},
		},
	}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentCustomerQuery, 0.6), Data: data})

	result := o.Respond(context.Background(), Request{Utterance: "customers?", Session: core.NewSession("s", 10)})

	assert.Equal(t, pkg.SourceDatabase, result.Source)
	assert.Contains(t, result.Response, "**2 wonderful customers**")
}

func TestOrchestrator_EmptyDataFallsThroughToGeneration(t *testing.T) {
	data := &stubData{available: true}
	gen := &stubGenerator{reply: "Revenue has been quiet lately, want me to dig deeper? 📊"}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentRevenueQuery, 0.95), Data: data, Generator: gen})

	result := o.Respond(context.Background(), Request{Utterance: "How much money did we make?", Session: core.NewSession("s", 10)})

	assert.Equal(t, gen.reply, result.Response)
	assert.Equal(t, pkg.SourceGenerated, result.Source)
	assert.True(t, result.DatabaseUsed)
	assert.Equal(t, 1, gen.calls)
}

func TestOrchestrator_DatabaseErrorDegrades(t *testing.T) {
	data := &stubData{available: true, err: errors.New("database is locked")}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentProductQuery, 0.95), Data: data})

	result := o.Respond(context.Background(), Request{Utterance: "What products do we offer?", Session: core.NewSession("s", 10)})

	assert.Equal(t, Fallback(pkg.IntentProductQuery, ""), result.Response)
	assert.Equal(t, pkg.SourceFallback, result.Source)
	assert.Equal(t, "generation", result.ExecutionPath[len(result.ExecutionPath)-1])
}

func TestOrchestrator_DataIntentWithoutStore(t *testing.T) {
	gen := &stubGenerator{reply: "should not be used"}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentRevenueQuery, 0.95), Generator: gen})

	result := o.Respond(context.Background(), Request{Utterance: "revenue please", Session: core.NewSession("s", 10)})

	assert.Equal(t, Fallback(pkg.IntentRevenueQuery, ""), result.Response)
	assert.False(t, result.DatabaseUsed)
	assert.Equal(t, "forced_fallback", result.ExecutionPath[len(result.ExecutionPath)-1])
	assert.Zero(t, gen.calls)
}

func TestOrchestrator_GenerationPrompt(t *testing.T) {
	gen := &stubGenerator{reply: "Why did the chicken cross the road? To get to the other side! 😄"}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGeneralChat, 0.9), Generator: gen})
	session := core.NewSession("s", 10)

	o.Respond(context.Background(), Request{Utterance: "my name is sam", Session: session})
	result := o.Respond(context.Background(), Request{Utterance: "tell me a joke", Context: "friday", Session: session})

	assert.Equal(t, gen.reply, result.Response)
	assert.Equal(t, pkg.SourceGenerated, result.Source)

	assert.True(t, strings.HasPrefix(gen.prompt, "Context: friday\nMemory: User Information:\n- name: sam\n"+Persona))
	assert.Contains(t, gen.prompt, "User: my name is sam\nYara: Nice to meet you, Sam!")
	assert.True(t, strings.HasSuffix(gen.prompt, "User: tell me a joke\nYara:"))
	assert.Equal(t, len(strings.Fields(gen.prompt))+50, gen.maxLength)
}

func TestOrchestrator_InvalidGenerationFallsBack(t *testing.T) {
	gen := &stubGenerator{reply: "I am the one true hero that's needed"}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGeneralChat, 0.9), Generator: gen})

	result := o.Respond(context.Background(), Request{Utterance: "say something", Session: core.NewSession("s", 10)})

	assert.Equal(t, Fallback(pkg.IntentGeneralChat, ""), result.Response)
	assert.Equal(t, pkg.SourceFallback, result.Source)
}

func TestOrchestrator_GeneratorErrorFallsBack(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	session := core.NewSession("s", 10)
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGeneralChat, 0.9), Generator: gen})

	result := o.Respond(context.Background(), Request{Utterance: "say something", Session: session})

	assert.Equal(t, Fallback(pkg.IntentGeneralChat, ""), result.Response)
	assert.Equal(t, 1, session.History.Len())
}

func TestOrchestrator_GenerationTimeout(t *testing.T) {
	gen := &blockingGenerator{}
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGeneralChat, 0.9), Generator: gen, Timeout: 10 * time.Millisecond})

	result := o.Respond(context.Background(), Request{Utterance: "say something", Session: core.NewSession("s", 10)})

	assert.Equal(t, pkg.SourceFallback, result.Source)
}

type blockingGenerator struct{}

func (blockingGenerator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestOrchestrator_NilSession(t *testing.T) {
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentFarewell, 0.9)})

	result := o.Respond(context.Background(), Request{Utterance: "bye"})

	assert.Equal(t, Fallback(pkg.IntentFarewell, ""), result.Response)
}

func TestOrchestrator_ConcurrentTurnsOnOneSession(t *testing.T) {
	o := newOrchestrator(t, Options{Classifier: classifyAs(pkg.IntentGratitude, 0.9)})
	session := core.NewSession("shared", 10)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Respond(context.Background(), Request{Utterance: "thanks", Session: session})
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, session.History.Len())
}

func TestOrchestrator_WithSQLiteAndClassifier(t *testing.T) {
	ctx := context.Background()
	store, err := services.NewSQLStore(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, services.Seed(ctx, store, time.Now()))

	classifier := intent.NewClassifier(mock.New(), intent.DefaultThreshold)
	o := newOrchestrator(t, Options{Classifier: classifier, Data: store})
	session := core.NewSession("s", 10)

	result := o.Respond(ctx, Request{Utterance: "How many customers do we have?", Session: session})
	assert.Equal(t, pkg.IntentCustomerQuery, result.Intent.Label)
	assert.Equal(t, pkg.SourceDatabase, result.Source)
	assert.Contains(t, result.Response, "**3 wonderful customers**")

	result = o.Respond(ctx, Request{Utterance: "What products do we offer?", Session: session})
	assert.Equal(t, pkg.IntentProductQuery, result.Intent.Label)
	assert.Contains(t, result.Response, "**4 amazing products** across **3 different categories**")
}
