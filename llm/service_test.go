package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

// transcript records the prompts a fake model received.
type transcript struct {
	mu       sync.Mutex
	messages []string
}

func (tr *transcript) add(m string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.messages = append(tr.messages, m)
}

func (tr *transcript) all() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string{}, tr.messages...)
}

// fakeModel serves the two OpenAI endpoints the service uses.
func fakeModel(t *testing.T, reply string, seen *transcript) *Service {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"local-model","object":"model"}]}`))
	})
	mux.HandleFunc("POST /v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if seen != nil {
			for _, m := range req.Messages {
				seen.add(m.Role + ": " + m.Content)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]string{"role": "assistant", "content": reply}}},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewService(Config{Endpoint: srv.URL + "/v1"}, nil)
}

func offline(t *testing.T) *Service {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return NewService(Config{Endpoint: url + "/v1", Timeout: time.Second}, nil)
}

func TestService_Health(t *testing.T) {
	ctx := context.Background()

	h, err := fakeModel(t, "", nil).Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LLMOnline, h.Status)

	h, err = offline(t).Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LLMOffline, h.Status)
}

func TestService_Explain(t *testing.T) {
	seen := &transcript{}
	extra := "for beginners"
	out, err := fakeModel(t, "Graphs are nodes and edges.", seen).Explain(context.Background(), models.LLMRequest{Concept: "Graphs", Context: &extra})
	require.NoError(t, err)
	assert.Equal(t, "Graphs are nodes and edges.", out.Response)
	prompts := seen.all()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Concept: Graphs")
	assert.Contains(t, prompts[0], "Additional context: for beginners")
}

func TestService_ExplainOfflineIsPlaceholder(t *testing.T) {
	out, err := offline(t).Explain(context.Background(), models.LLMRequest{Concept: "Graphs"})
	require.NoError(t, err)
	assert.Equal(t, PlaceholderExplanation("Graphs").Response, out.Response)
	assert.NotEmpty(t, out.Response)
}

func TestService_RejectsMissingConcept(t *testing.T) {
	_, err := offline(t).Explain(context.Background(), models.LLMRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestService_GenerateQuestionParsesFencedJSON(t *testing.T) {
	reply := "Sure!\n```json\n{\"question\": \"What is a tree?\", \"answer\": \"An acyclic connected graph\", \"explanation\": \"...\",}\n```"
	seen := &transcript{}
	q, err := fakeModel(t, reply, seen).GenerateQuestion(context.Background(), models.LLMRequest{Concept: "Trees", Difficulty: 9})
	require.NoError(t, err)
	assert.Equal(t, "What is a tree?", q.Question)
	assert.Equal(t, "An acyclic connected graph", q.Answer)
	prompts := seen.all()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Difficulty: 1/5", "out of range difficulty is clamped")
}

func TestService_GenerateQuestionUnparsable(t *testing.T) {
	q, err := fakeModel(t, "no json here", nil).GenerateQuestion(context.Background(), models.LLMRequest{Concept: "Trees", Difficulty: 3})
	require.NoError(t, err)
	assert.Equal(t, "Explain Trees.", q.Question)
	assert.Equal(t, "no json here", q.Answer)
}

func TestService_SuggestConcepts(t *testing.T) {
	reply := `{"concepts": [{"name": "Graphs", "relation": "generalization"}]}`
	out, err := fakeModel(t, reply, nil).SuggestConcepts(context.Background(), models.LLMRequest{Concept: "Trees"})
	require.NoError(t, err)
	assert.Equal(t, []models.ConceptSuggestion{{Name: "Graphs", Relation: "generalization"}}, out.Concepts)

	out, err = fakeModel(t, "nothing", nil).SuggestConcepts(context.Background(), models.LLMRequest{Concept: "Trees"})
	require.NoError(t, err)
	assert.Len(t, out.Concepts, 3)
}

func TestService_ChatSendsHistory(t *testing.T) {
	seen := &transcript{}
	out, err := fakeModel(t, "Sure.", seen).Chat(context.Background(), models.ChatRequest{
		Message: "And a heap?",
		History: []models.ChatMessage{
			{Role: "user", Content: "What is a stack?"},
			{Role: "assistant", Content: "LIFO."},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sure.", out.Response)
	assert.Equal(t, []string{
		"system: " + chatSystemPrompt,
		"user: What is a stack?",
		"assistant: LIFO.",
		"user: And a heap?",
	}, seen.all())
}

func TestService_MockNeverCallsModel(t *testing.T) {
	s := NewService(Config{Endpoint: "http://127.0.0.1:1/v1", Mock: true}, nil)

	out, err := s.Chat(context.Background(), models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, PlaceholderChat("hi").Response, out.Response)

	h, err := s.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.LLMOnline, h.Status)
}

func TestPlaceholdersForKnownConcepts(t *testing.T) {
	assert.Contains(t, PlaceholderExplanation("Algorithms").Response, "step by step")
	assert.Equal(t, "Which sorting algorithms run in O(n log n) time?", PlaceholderQuestion("Algorithms").Question)
	assert.Len(t, PlaceholderSuggestions("Software Engineering").Concepts, 4)
	assert.Equal(t, models.LLMOffline, OfflineHealth().Status)
}

func TestExtractJSON(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, ExtractJSON(`prefix {"name": "x"} suffix`, &out))
	assert.Equal(t, "x", out.Name)

	require.NoError(t, ExtractJSON(`{name: 'y'}`, &out))
	assert.Equal(t, "y", out.Name)

	assert.Error(t, ExtractJSON("plain text", &out))
}
