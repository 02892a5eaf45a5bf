// Package llm is the tutor behind the /api/llm endpoints. It talks to any
// OpenAI compatible server (LM Studio by default) and falls back to canned
// placeholder answers whenever the model cannot be reached or its output
// cannot be used.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-graph/models"
)

const (
	DefaultEndpoint = "http://localhost:1234/v1"
	// LM Studio ignores the model name and answers with whatever is loaded
	DefaultModel = "local-model"

	healthTimeout = 3 * time.Second
	maxTokens     = 1024
	temperature   = 0.7
)

type Config struct {
	Endpoint string
	Model    string
	APIKey   string
	// Mock answers every request with placeholders without calling a model
	Mock    bool
	Timeout time.Duration
}

type Service struct {
	client *openai.Client
	model  string
	mock   bool
	log    *zap.Logger
}

func NewService(cfg Config, log *zap.Logger) *Service {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Service{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
		mock:   cfg.Mock,
		log:    log.Named("llm"),
	}
}

// Health lists the models of the endpoint to see whether it is up. It never
// fails, an unreachable endpoint is reported as offline.
func (s *Service) Health(ctx context.Context) (*models.LLMHealth, error) {
	if s.mock {
		return &models.LLMHealth{Status: models.LLMOnline, Message: "Answering with mock responses."}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if _, err := s.client.ListModels(ctx); err != nil {
		s.log.Debug("LLM health check failed", zap.Error(err))
		return OfflineHealth(), nil
	}
	return &models.LLMHealth{Status: models.LLMOnline, Message: "The LLM service is running."}, nil
}

func (s *Service) Explain(ctx context.Context, req models.LLMRequest) (*models.LLMResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := s.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: explainPrompt(req.Concept, req.Context)},
	})
	if err != nil {
		return PlaceholderExplanation(req.Concept), nil
	}
	return &models.LLMResponse{Response: content}, nil
}

// GenerateQuestion asks for a study question. Difficulty outside 1..5 is
// treated as 1.
func (s *Service) GenerateQuestion(ctx context.Context, req models.LLMRequest) (*models.LLMQuestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	difficulty := req.Difficulty
	if difficulty < 1 || difficulty > 5 {
		difficulty = 1
	}
	content, err := s.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: questionPrompt(req.Concept, difficulty)},
	})
	if err != nil {
		return PlaceholderQuestion(req.Concept), nil
	}

	var q models.LLMQuestion
	if err := ExtractJSON(content, &q); err != nil || q.Question == "" || q.Answer == "" {
		s.log.Warn("unusable question from model", zap.String("concept", req.Concept), zap.Error(err))
		return &models.LLMQuestion{
			Question: fmt.Sprintf("Explain %s.", req.Concept),
			Answer:   content,
		}, nil
	}
	return &q, nil
}

func (s *Service) SuggestConcepts(ctx context.Context, req models.LLMRequest) (*models.LLMSuggestions, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	content, err := s.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: suggestPrompt(req.Concept)},
	})
	if err != nil {
		return PlaceholderSuggestions(req.Concept), nil
	}

	var out models.LLMSuggestions
	if err := ExtractJSON(content, &out); err != nil || len(out.Concepts) == 0 {
		s.log.Warn("unusable suggestions from model", zap.String("concept", req.Concept), zap.Error(err))
		return PlaceholderSuggestions(req.Concept), nil
	}
	return &out, nil
}

func (s *Service) Chat(ctx context.Context, req models.ChatRequest) (*models.LLMResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt})
	for _, m := range req.History {
		role := m.Role
		if role != openai.ChatMessageRoleAssistant && role != openai.ChatMessageRoleSystem {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Message})

	content, err := s.complete(ctx, messages)
	if err != nil {
		return PlaceholderChat(req.Message), nil
	}
	return &models.LLMResponse{Response: content}, nil
}

func (s *Service) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if s.mock {
		return "", errMock
	}
	start := time.Now()
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		s.log.Error("LLM request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		s.log.Error("LLM returned no content", zap.Duration("elapsed", time.Since(start)))
		return "", errEmpty
	}
	s.log.Debug("LLM request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))
	return resp.Choices[0].Message.Content, nil
}
