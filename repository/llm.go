package repository

import (
	"context"
	"errors"

	"github.com/andrewpaige1/nodebook-graph/llm"
	"github.com/andrewpaige1/nodebook-graph/models"
)

var errNoLLM = errors.New("no LLM backend configured")

// The tutor has no local analogue. A failed call is answered with a
// templated placeholder instead.

func (r *Repository) Health(ctx context.Context) (*models.LLMHealth, error) {
	return withFallback(ctx, r, "LLMHealth",
		func(ctx context.Context) (*models.LLMHealth, error) {
			if r.llm == nil {
				return nil, errNoLLM
			}
			return r.llm.Health(ctx)
		},
		func(context.Context) (*models.LLMHealth, error) { return llm.OfflineHealth(), nil },
	)
}

func (r *Repository) Explain(ctx context.Context, req models.LLMRequest) (*models.LLMResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "Explain",
		func(ctx context.Context) (*models.LLMResponse, error) {
			if r.llm == nil {
				return nil, errNoLLM
			}
			return r.llm.Explain(ctx, req)
		},
		func(context.Context) (*models.LLMResponse, error) { return llm.PlaceholderExplanation(req.Concept), nil },
	)
}

func (r *Repository) GenerateQuestion(ctx context.Context, req models.LLMRequest) (*models.LLMQuestion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "GenerateQuestion",
		func(ctx context.Context) (*models.LLMQuestion, error) {
			if r.llm == nil {
				return nil, errNoLLM
			}
			return r.llm.GenerateQuestion(ctx, req)
		},
		func(context.Context) (*models.LLMQuestion, error) { return llm.PlaceholderQuestion(req.Concept), nil },
	)
}

func (r *Repository) SuggestConcepts(ctx context.Context, req models.LLMRequest) (*models.LLMSuggestions, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "SuggestConcepts",
		func(ctx context.Context) (*models.LLMSuggestions, error) {
			if r.llm == nil {
				return nil, errNoLLM
			}
			return r.llm.SuggestConcepts(ctx, req)
		},
		func(context.Context) (*models.LLMSuggestions, error) { return llm.PlaceholderSuggestions(req.Concept), nil },
	)
}

func (r *Repository) Chat(ctx context.Context, req models.ChatRequest) (*models.LLMResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return withFallback(ctx, r, "Chat",
		func(ctx context.Context) (*models.LLMResponse, error) {
			if r.llm == nil {
				return nil, errNoLLM
			}
			return r.llm.Chat(ctx, req)
		},
		func(context.Context) (*models.LLMResponse, error) { return llm.PlaceholderChat(req.Message), nil },
	)
}
