package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", opts...)
}

func TestClient_ListCardsSendsFilter(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/cards/", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("concept_id"))
		_, _ = io.WriteString(w, `[{"id":1,"concept_id":3,"question":"Q","answer":"A","concept":{"id":3,"name":"Algorithms"}}]`)
	})

	cards, err := c.ListCards(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q", cards[0].Question)
	require.NotNil(t, cards[0].Concept)
	assert.Equal(t, "Algorithms", cards[0].Concept.Name)
}

func TestClient_CreateReviewPostsSnakeCase(t *testing.T) {
	next := time.Date(2026, 5, 27, 15, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1), body["card_id"])
		assert.Equal(t, float64(4), body["difficulty"])
		assert.Equal(t, "2026-05-27T15:00:00Z", body["next_review_date"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"card_id":1,"difficulty":4,"next_review_date":"2026-05-27T15:00:00Z"}`)
	})

	r, err := c.CreateReview(context.Background(), models.ReviewInput{CardID: 1, Difficulty: 4, NextReviewDate: next})
	require.NoError(t, err)
	assert.Equal(t, uint(9), r.ID)
	assert.True(t, next.Equal(r.NextReviewDate))
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
		detail string
	}{
		{"not found", http.StatusNotFound, `{"detail":"Concept not found"}`, apperrors.ErrNotFound, "Concept not found"},
		{"validation", http.StatusBadRequest, `{"detail":"name is required"}`, apperrors.ErrValidation, "name is required"},
		{"conflict", http.StatusConflict, `{"detail":"Connection already exists"}`, apperrors.ErrConflict, "Connection already exists"},
		{"server", http.StatusInternalServerError, `oops`, apperrors.ErrUnavailable, "oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.GetConcept(context.Background(), 7)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
			assert.Equal(t, tt.detail, se.Detail)
		})
	}
}

func TestClient_UnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := New(base)
	_, err := c.ListConcepts(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeouts(50*time.Millisecond, time.Second))
	defer close(release)

	_, err := c.ListConcepts(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestClient_BreakerOpensOnRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithBreakerSettings(gobreaker.Settings{
		Name:    "test",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
	}))

	for i := 0; i < 4; i++ {
		_, err := c.ListConcepts(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	}
	assert.Equal(t, int32(2), calls.Load(), "open breaker short-circuits requests")
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}, WithBreakerSettings(gobreaker.Settings{
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	}))

	for i := 0; i < 3; i++ {
		_, err := c.GetCard(context.Background(), 1)
		assert.True(t, apperrors.IsNotFound(err))
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_DueReviewsPassesNow(t *testing.T) {
	now := time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reviews/due", r.URL.Path)
		assert.Equal(t, "2026-05-20T15:00:00Z", r.URL.Query().Get("now"))
		_, _ = io.WriteString(w, `[]`)
	})

	due, err := c.DueReviews(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestClient_LLMChat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/llm/chat", r.URL.Path)
		var req models.ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hi", req.Message)
		_, _ = io.WriteString(w, `{"response":"hello"}`)
	})

	out, err := c.Chat(context.Background(), models.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", out.Response)
}
