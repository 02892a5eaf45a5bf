package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/client"
	"github.com/andrewpaige1/nodebook-graph/llm"
	"github.com/andrewpaige1/nodebook-graph/mirror"
	"github.com/andrewpaige1/nodebook-graph/models"
)

var testNow = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

type fixture struct {
	repo  *Repository
	local *mirror.Local
	logs  *observer.ObservedLogs
	calls *atomic.Int32
	reg   *prometheus.Registry
}

func newLocal(t *testing.T) *mirror.Local {
	t.Helper()
	store, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return mirror.NewLocal(store, mirror.WithClock(func() time.Time { return testNow }))
}

// setup wires a repository to a backend served by h. A nil h gives a
// backend that refuses connections.
func setup(t *testing.T, h http.HandlerFunc, opts ...Option) fixture {
	t.Helper()
	calls := &atomic.Int32{}

	var base string
	if h == nil {
		srv := httptest.NewServer(http.NotFoundHandler())
		base = srv.URL
		srv.Close()
	} else {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			h(w, r)
		}))
		t.Cleanup(srv.Close)
		base = srv.URL
	}

	core, logs := observer.New(zapcore.DebugLevel)
	reg := prometheus.NewRegistry()
	local := newLocal(t)
	remote := client.New(base + "/api")
	opts = append([]Option{WithLogger(zap.New(core)), WithRegisterer(reg)}, opts...)
	return fixture{
		repo:  New(remote, local, opts...),
		local: local,
		logs:  logs,
		calls: calls,
		reg:   reg,
	}
}

func (f fixture) fallbacks(op string) float64 {
	return testutil.ToFloat64(f.repo.fallbacks.WithLabelValues(op))
}

func TestFallbackToMirrorWhenBackendDown(t *testing.T) {
	f := setup(t, nil)

	concepts, err := f.repo.ListConcepts(context.Background())
	require.NoError(t, err)
	assert.Len(t, concepts, 4, "seeded sample graph")

	warnings := f.logs.FilterMessage("backend unavailable, using local mirror").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, "ListConcepts", warnings[0].ContextMap()["operation"])
	assert.Equal(t, 1.0, f.fallbacks("ListConcepts"))
}

func TestLocalCreateWhileOffline(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)

	card, err := f.repo.CreateCard(ctx, models.CardInput{ConceptID: 3, Question: "Q", Answer: "A"})
	require.NoError(t, err)
	assert.Equal(t, uint(4), card.ID)
	require.NotNil(t, card.Concept)
	assert.Equal(t, "Algorithms", card.Concept.Name)

	got, err := f.repo.GetCard(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, "Q", got.Question)
}

func TestValidationNeverReachesNetwork(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := f.repo.CreateCard(context.Background(), models.CardInput{ConceptID: 1, Question: "Q"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.repo.CreateReview(context.Background(), models.ReviewInput{CardID: 1, Difficulty: 6, NextReviewDate: testNow})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Zero(t, f.calls.Load())
	assert.Zero(t, f.logs.Len())
}

func TestNotFoundInBothPaths(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Card not found"}`)
	})

	_, err := f.repo.GetCard(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	var se *client.StatusError
	assert.ErrorAs(t, err, &se, "remote cause is kept")
	assert.Equal(t, 1.0, f.fallbacks("GetCard"))
}

func TestConflictDoesNotFallBack(t *testing.T) {
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"detail":"Connection already exists"}`)
	})

	_, err := f.repo.CreateConnection(context.Background(), models.ConnectionInput{SourceID: 2, TargetID: 4})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Zero(t, f.fallbacks("CreateConnection"))

	connections, err := f.local.ListConnections(context.Background(), models.ConnectionFilter{SourceID: 2})
	require.NoError(t, err)
	assert.Empty(t, connections, "nothing was written locally")
}

func TestCancelledContextDoesNotFallBack(t *testing.T) {
	f := setup(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.repo.ListConcepts(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.logs.Len())
}

func TestRemoteResultsAreWrittenThrough(t *testing.T) {
	ctx := context.Background()
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/concepts/":
			_, _ = io.WriteString(w, `[{"id":20,"name":"Remote A"},{"id":21,"name":"Remote B"}]`)
		case "/api/cards/21":
			_, _ = io.WriteString(w, `{"id":21,"concept_id":21,"question":"RQ","answer":"RA","concept":{"id":21,"name":"Remote B"}}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	remote, err := f.repo.ListConcepts(ctx)
	require.NoError(t, err)
	assert.Len(t, remote, 2)

	local, err := f.local.ListConcepts(ctx)
	require.NoError(t, err)
	assert.Equal(t, remote, local, "complete listing replaces the mirror snapshot")

	_, err = f.repo.GetCard(ctx, 21)
	require.NoError(t, err)
	card, err := f.local.GetCard(ctx, 21)
	require.NoError(t, err)
	assert.Equal(t, "RQ", card.Question)
	require.NotNil(t, card.Concept)
	assert.Equal(t, "Remote B", card.Concept.Name)
}

// Records the backend served are not merged into sample data, and an id the
// backend does not know is not answered from the samples either.
func TestWriteThroughNeverSeedsMirror(t *testing.T) {
	ctx := context.Background()
	var down atomic.Bool
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case down.Load():
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/api/cards/10":
			_, _ = io.WriteString(w, `{"id":10,"concept_id":12,"question":"real Q","answer":"real A"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"not found"}`)
		}
	})

	_, err := f.repo.GetCard(ctx, 10)
	require.NoError(t, err)

	_, err = f.repo.GetConcept(ctx, 1)
	assert.True(t, apperrors.IsNotFound(err), "sample concept 1 must not be served")

	down.Store(true)
	cards, err := f.repo.ListCards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, uint(10), cards[0].ID)
	assert.Equal(t, "real Q", cards[0].Question)
}

// Samples seeded during an outage are gone once the backend answers.
func TestSamplesDroppedAfterBackendReturns(t *testing.T) {
	ctx := context.Background()
	var down atomic.Bool
	down.Store(true)
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"id":10,"concept_id":12,"question":"real Q","answer":"real A"}`)
	})

	cards, err := f.repo.ListCards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, cards, 3, "sample cards while offline")

	down.Store(false)
	_, err = f.repo.GetCard(ctx, 10)
	require.NoError(t, err)

	down.Store(true)
	cards, err = f.repo.ListCards(ctx, 0)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, uint(10), cards[0].ID)

	concepts, err := f.repo.ListConcepts(ctx)
	require.NoError(t, err)
	assert.Empty(t, concepts)
}

func TestRemoteDeleteDoesNotSeedMirror(t *testing.T) {
	ctx := context.Background()
	var down atomic.Bool
	f := setup(t, func(w http.ResponseWriter, r *http.Request) {
		if down.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{"message":"Card deleted successfully"}`)
	})

	require.NoError(t, f.repo.DeleteCard(ctx, 1))

	down.Store(true)
	cards, err := f.repo.ListCards(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestStatsFallBackToMirror(t *testing.T) {
	f := setup(t, nil)

	s, err := f.repo.ProgressStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, s.TotalConcepts)
	assert.Equal(t, 3, s.TotalCards)
	assert.Len(t, s.MonthlyActivities, 12)
}

func TestLLMPlaceholdersWhenUnavailable(t *testing.T) {
	ctx := context.Background()
	f := setup(t, nil)

	h, err := f.repo.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.LLMOffline, h.Status)

	out, err := f.repo.Explain(ctx, models.LLMRequest{Concept: "Graphs"})
	require.NoError(t, err)
	assert.Equal(t, llm.PlaceholderExplanation("Graphs").Response, out.Response)

	q, err := f.repo.GenerateQuestion(ctx, models.LLMRequest{Concept: "Graphs"})
	require.NoError(t, err)
	assert.NotEmpty(t, q.Question)

	_, err = f.repo.Chat(ctx, models.ChatRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLLMPlaceholderWhenRemoteTutorFails(t *testing.T) {
	f := setup(t, nil)
	tutor := client.New("http://127.0.0.1:1/api")
	repo := New(f.repo.remote, f.local, WithLLM(tutor))

	out, err := repo.SuggestConcepts(context.Background(), models.LLMRequest{Concept: "Algorithms"})
	require.NoError(t, err)
	assert.Equal(t, llm.PlaceholderSuggestions("Algorithms").Concepts, out.Concepts)
}
