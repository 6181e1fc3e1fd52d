package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"yara_assistant/src/llm/mock"
	appmodel "yara_assistant/src/model"
	"yara_assistant/src/storage"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return mock.New().Embed(ctx, text)
}

func (c *countingEmbedder) Dimensions() int { return 384 }

type memoryVectorStore struct {
	mu      sync.Mutex
	vectors map[string][]float32
	failGet bool
}

func (m *memoryVectorStore) GetVector(ctx context.Context, hash string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	vec, ok := m.vectors[hash]
	if !ok {
		return nil, storage.ErrCacheMiss
	}
	return vec, nil
}

func (m *memoryVectorStore) SetVector(ctx context.Context, hash string, vector []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vectors[hash] = vector
	return nil
}

func TestResolve_SizePresets(t *testing.T) {
	tests := []struct {
		size      string
		maxLength int
	}{
		{"small", 512},
		{"medium", 1024},
		{"large", 2048},
		{"unknown", 512},
	}

	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			config := Resolve(appmodel.ModelConfig{Provider: "ollama", Size: tt.size})
			assert.Equal(t, tt.maxLength, config.MaxLength)
			assert.Equal(t, 0.7, config.Temperature)
			assert.Equal(t, "llama3.2", config.Name)
		})
	}
}

func TestResolve_KeepsExplicitValues(t *testing.T) {
	config := Resolve(appmodel.ModelConfig{Provider: "openai", Name: "custom", MaxLength: 64, Temperature: 0.2})

	assert.Equal(t, "custom", config.Name)
	assert.Equal(t, 64, config.MaxLength)
	assert.Equal(t, 0.2, config.Temperature)
}

func TestNewGenerator_Disabled(t *testing.T) {
	gen, err := NewGenerator(context.Background(), appmodel.ModelConfig{Provider: "none"})
	require.NoError(t, err)
	assert.Nil(t, gen)
}

func TestNewChatModel_UnknownProvider(t *testing.T) {
	_, err := NewChatModel(context.Background(), appmodel.ModelConfig{Provider: "mystery"})
	assert.Error(t, err)
}

func TestContinue(t *testing.T) {
	assert.Equal(t, "User: hi\nYara: Hello!", Continue("User: hi\nYara:", "  Hello!\n"))
}

// recordingChatModel captures what the chain hands to the provider
type recordingChatModel struct {
	input       []*schema.Message
	maxTokens   int
	temperature float32
	reply       string
	err         error
}

func (m *recordingChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.input = input
	options := model.GetCommonOptions(&model.Options{}, opts...)
	if options.MaxTokens != nil {
		m.maxTokens = *options.MaxTokens
	}
	if options.Temperature != nil {
		m.temperature = *options.Temperature
	}
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *recordingChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

func TestChatGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	chatModel := &recordingChatModel{reply: "  It is the placeholder.\n"}

	gen, err := NewChatGenerator(ctx, chatModel, appmodel.ModelConfig{Provider: "ollama", Size: "small"})
	require.NoError(t, err)

	prompt := "User: what is {x} here?\nYara:"
	out, err := gen.Generate(ctx, prompt, 57)
	require.NoError(t, err)

	require.Len(t, chatModel.input, 1)
	assert.Equal(t, schema.User, chatModel.input[0].Role)
	assert.Equal(t, prompt, chatModel.input[0].Content)
	assert.Equal(t, 57, chatModel.maxTokens)
	assert.InDelta(t, 0.7, chatModel.temperature, 1e-6)
	assert.Equal(t, prompt+" It is the placeholder.", out)
}

func TestChatGenerator_DefaultBudgetAndError(t *testing.T) {
	ctx := context.Background()
	chatModel := &recordingChatModel{err: errors.New("model offline")}

	gen, err := NewChatGenerator(ctx, chatModel, appmodel.ModelConfig{Provider: "openai", Size: "medium"})
	require.NoError(t, err)

	_, err = gen.Generate(ctx, "User: hi\nYara:", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model offline")
	assert.Equal(t, 1024, chatModel.maxTokens)
}

type fakeTransport struct {
	body     []byte
	response string
}

func (f *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.body, _ = io.ReadAll(req.Body)
	_ = req.Body.Close()
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewReader([]byte(f.response))),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp, nil
}

func TestAnthropicGenerator_Generate(t *testing.T) {
	rt := &fakeTransport{response: `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [{"type": "text", "text": "Happy to help! 😊"}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`}

	gen, err := NewAnthropicGenerator(
		appmodel.ModelConfig{Provider: "anthropic", APIKey: "test-key"},
		option.WithHTTPClient(&http.Client{Transport: rt}),
	)
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "User: hi\nYara:", 60)
	require.NoError(t, err)
	assert.Equal(t, "User: hi\nYara: Happy to help! 😊", out)

	var body struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rt.body, &body))
	assert.Equal(t, "claude-3-5-haiku-latest", body.Model)
	assert.Equal(t, 60, body.MaxTokens)
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "user", body.Messages[0].Role)
	assert.Equal(t, "User: hi\nYara:", body.Messages[0].Content[0].Text)
}

func TestCachedEmbedder_L1(t *testing.T) {
	base := &countingEmbedder{}
	cached, err := NewCachedEmbedder(base, "mock:test", CacheOptions{})
	require.NoError(t, err)
	defer cached.Close()

	first, err := cached.Embed(context.Background(), "hello")
	require.NoError(t, err)
	cached.Wait()

	second, err := cached.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, base.calls)
	assert.Equal(t, 384, cached.Dimensions())
}

func TestCachedEmbedder_L2(t *testing.T) {
	l2 := &memoryVectorStore{vectors: map[string][]float32{}}

	writer, err := NewCachedEmbedder(&countingEmbedder{}, "mock:test", CacheOptions{L2: l2})
	require.NoError(t, err)
	defer writer.Close()

	vec, err := writer.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, vec, l2.vectors[writer.Key("hello")])

	// A second process sharing the L2 never calls its model
	base := &countingEmbedder{}
	reader, err := NewCachedEmbedder(base, "mock:test", CacheOptions{L2: l2})
	require.NoError(t, err)
	defer reader.Close()

	got, err := reader.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, vec, got)
	assert.Equal(t, 0, base.calls)
}

func TestCachedEmbedder_L2FailureIsNonFatal(t *testing.T) {
	l2 := &memoryVectorStore{vectors: map[string][]float32{}, failGet: true}
	base := &countingEmbedder{}

	cached, err := NewCachedEmbedder(base, "mock:test", CacheOptions{L2: l2})
	require.NoError(t, err)
	defer cached.Close()

	vec, err := cached.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Len(t, vec, 384)
	assert.Equal(t, 1, base.calls)
}

func TestCachedEmbedder_PropagatesModelError(t *testing.T) {
	cached, err := NewCachedEmbedder(&countingEmbedder{err: errors.New("down")}, "mock:test", CacheOptions{})
	require.NoError(t, err)
	defer cached.Close()

	_, err = cached.Embed(context.Background(), "hello")
	assert.Error(t, err)
}

func TestCachedEmbedder_KeyDependsOnNamespace(t *testing.T) {
	a, err := NewCachedEmbedder(mock.New(), "ollama:a", CacheOptions{})
	require.NoError(t, err)
	defer a.Close()
	b, err := NewCachedEmbedder(mock.New(), "ollama:b", CacheOptions{})
	require.NoError(t, err)
	defer b.Close()

	assert.NotEqual(t, a.Key("hello"), b.Key("hello"))
	assert.Equal(t, a.Key("hello"), a.Key("hello"))
}

func TestNewEmbedder(t *testing.T) {
	disabled, err := NewEmbedder(appmodel.EmbeddingConfig{Provider: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, disabled)

	embedder, err := NewEmbedder(appmodel.EmbeddingConfig{Provider: "mock", Model: "test"}, nil)
	require.NoError(t, err)
	vec, err := embedder.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Len(t, vec, 384)

	_, err = NewEmbedder(appmodel.EmbeddingConfig{Provider: "mystery"}, nil)
	assert.Error(t, err)
}

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := mock.New()
	a, err := m.Embed(context.Background(), "List our clients")
	require.NoError(t, err)
	b, err := m.Embed(context.Background(), "list our clients!")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
