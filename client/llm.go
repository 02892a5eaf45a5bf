package client

import (
	"context"
	"net/http"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// LLM calls get the long timeout, generation is slow.

func (c *Client) Health(ctx context.Context) (*models.LLMHealth, error) {
	var out models.LLMHealth
	if err := c.do(ctx, call{method: http.MethodGet, path: "/llm/health", out: &out, llm: true}); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Explain(ctx context.Context, req models.LLMRequest) (*models.LLMResponse, error) {
	var out models.LLMResponse
	if err := c.llmPost(ctx, "/llm/explain", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateQuestion(ctx context.Context, req models.LLMRequest) (*models.LLMQuestion, error) {
	var out models.LLMQuestion
	if err := c.llmPost(ctx, "/llm/generate-question", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SuggestConcepts(ctx context.Context, req models.LLMRequest) (*models.LLMSuggestions, error) {
	var out models.LLMSuggestions
	if err := c.llmPost(ctx, "/llm/suggest-concepts", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.LLMResponse, error) {
	var out models.LLMResponse
	if err := c.llmPost(ctx, "/llm/chat", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) llmPost(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body, out: out, llm: true})
}
