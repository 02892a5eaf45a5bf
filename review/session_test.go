package review

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
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
	"github.com/andrewpaige1/nodebook-graph/mirror"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/repository"
)

var testNow = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

// fakeSource is an in memory Source with switchable failures.
type fakeSource struct {
	mu        sync.Mutex
	cards     []models.Card
	concepts  map[uint]string
	due       []models.Review
	dueErr    error
	listErr   error
	failLists int
	reviewErr error

	listCalls int
	dueCalls  int
	created   []models.ReviewInput
}

func (f *fakeSource) ListCards(_ context.Context, conceptID uint) ([]models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failLists > 0 {
		f.failLists--
		return nil, f.listErr
	}
	if f.listErr != nil && f.failLists < 0 {
		return nil, f.listErr
	}
	var out []models.Card
	for _, c := range f.cards {
		if conceptID == 0 || c.ConceptID == conceptID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeSource) GetCard(_ context.Context, id uint) (*models.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.cards {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, apperrors.NotFound("card", id)
}

func (f *fakeSource) GetConcept(_ context.Context, id uint) (*models.ConceptDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.concepts[id]
	if !ok {
		return nil, apperrors.NotFound("concept", id)
	}
	return &models.ConceptDetail{Concept: models.Concept{ID: id, Name: name}}, nil
}

func (f *fakeSource) DueReviews(context.Context, time.Time) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dueCalls++
	return f.due, f.dueErr
}

func (f *fakeSource) CreateReview(_ context.Context, in models.ReviewInput) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reviewErr != nil {
		return nil, f.reviewErr
	}
	f.created = append(f.created, in)
	return &models.Review{ID: uint(len(f.created)), CardID: in.CardID, Difficulty: in.Difficulty, NextReviewDate: in.NextReviewDate}, nil
}

func sampleSource() *fakeSource {
	return &fakeSource{
		cards: []models.Card{
			{ID: 1, ConceptID: 1, Question: "Q1", Answer: "A1"},
			{ID: 2, ConceptID: 2, Question: "Q2", Answer: "A2"},
			{ID: 3, ConceptID: 2, Question: "Q3", Answer: "A3"},
		},
		concepts: map[uint]string{1: "Software Engineering", 2: "Algorithms"},
	}
}

func newSession(t *testing.T, src Source, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(clock), WithRetry(0, DefaultMaxRetries)}, opts...)
	s, err := NewSession(src, opts...)
	require.NoError(t, err)
	return s
}

func TestSession_LoadsDueCards(t *testing.T) {
	src := sampleSource()
	src.due = []models.Review{{ID: 7, CardID: 3}, {ID: 8, CardID: 99}}
	s := newSession(t, src)

	require.NoError(t, s.Load(context.Background(), 0))
	assert.Equal(t, InProgress, s.State())

	card, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, uint(3), card.ID)
	require.NotNil(t, card.Concept)
	assert.Equal(t, "Algorithms", card.Concept.Name)

	_, total := s.Progress()
	assert.Equal(t, 1, total, "unknown due cards are skipped")
}

func TestSession_DueOrAllFallbackWhenNothingDue(t *testing.T) {
	src := sampleSource()
	s := newSession(t, src)

	require.NoError(t, s.Load(context.Background(), 0))
	_, total := s.Progress()
	assert.Equal(t, 3, total)
}

func TestSession_DueOrAllFallbackWhenDueQueryFails(t *testing.T) {
	src := sampleSource()
	src.dueErr = errors.New("due query broken")
	s := newSession(t, src)

	require.NoError(t, s.Load(context.Background(), 0))
	_, total := s.Progress()
	assert.Equal(t, 3, total)
}

func TestSession_DueOnlyPolicy(t *testing.T) {
	s := newSession(t, sampleSource(), WithPolicy(DueOnly))

	require.NoError(t, s.Load(context.Background(), 0))
	assert.Equal(t, Empty, s.State())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_ConceptScopeIgnoresDueDates(t *testing.T) {
	src := sampleSource()
	src.due = []models.Review{{CardID: 1}}
	s := newSession(t, src)

	require.NoError(t, s.Load(context.Background(), 2))
	_, total := s.Progress()
	assert.Equal(t, 2, total)
	assert.Zero(t, src.dueCalls)
}

func TestSession_EmptyConcept(t *testing.T) {
	s := newSession(t, sampleSource())

	require.NoError(t, s.Load(context.Background(), 42))
	assert.Equal(t, Empty, s.State())
}

func TestSession_RetriesThenFails(t *testing.T) {
	src := sampleSource()
	src.listErr = errors.New("backend down")
	src.failLists = -1
	core, logs := observer.New(zapcore.WarnLevel)
	s := newSession(t, src, WithLogger(zap.New(core)))

	err := s.Load(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, Failed, s.State())
	assert.ErrorIs(t, s.Err(), src.listErr)
	assert.Equal(t, 1+DefaultMaxRetries, src.listCalls)
	assert.Equal(t, 1+DefaultMaxRetries, logs.FilterMessage("loading review cards failed").Len())
}

func TestSession_RecoversWithinRetries(t *testing.T) {
	src := sampleSource()
	src.listErr = errors.New("flaky")
	src.failLists = 2
	s := newSession(t, src)

	require.NoError(t, s.Load(context.Background(), 1))
	assert.Equal(t, InProgress, s.State())
	assert.Equal(t, 3, src.listCalls)
}

func TestSession_ManualRetryAfterFailure(t *testing.T) {
	src := sampleSource()
	src.listErr = errors.New("backend down")
	src.failLists = 1 + DefaultMaxRetries
	s := newSession(t, src)

	require.Error(t, s.Load(context.Background(), 2))
	require.NoError(t, s.Retry(context.Background()))
	assert.Equal(t, InProgress, s.State())
	_, total := s.Progress()
	assert.Equal(t, 2, total, "retry keeps the concept scope")
}

func TestSession_CancelStopsRetries(t *testing.T) {
	src := sampleSource()
	src.listErr = errors.New("backend down")
	src.failLists = -1
	s := newSession(t, src, WithRetry(time.Hour, DefaultMaxRetries))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Load(ctx, 1) }()

	require.Eventually(t, func() bool {
		src.mu.Lock()
		defer src.mu.Unlock()
		return src.listCalls == 1
	}, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("load did not stop after cancel")
	}
	assert.Equal(t, Failed, s.State())
}

func TestSession_RateRejectsIllegalDifficulty(t *testing.T) {
	src := sampleSource()
	s := newSession(t, src)
	require.NoError(t, s.Load(context.Background(), 0))

	for _, d := range []int{0, 6, -1} {
		_, err := s.Rate(context.Background(), d)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDifficulty)
	}
	done, _ := s.Progress()
	assert.Zero(t, done)
	assert.Empty(t, src.created)
}

func TestSession_RateAdvancesWhenSaveFails(t *testing.T) {
	src := sampleSource()
	src.reviewErr = errors.New("write failed")
	core, logs := observer.New(zapcore.WarnLevel)
	s := newSession(t, src, WithLogger(zap.New(core)))
	require.NoError(t, s.Load(context.Background(), 1))

	require.NoError(t, s.RevealAnswer())
	assert.True(t, s.AnswerVisible())

	saved, err := s.Rate(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrPartialFailure)
	assert.ErrorIs(t, err, src.reviewErr)
	assert.Nil(t, saved)
	assert.Equal(t, Completed, s.State())
	assert.False(t, s.AnswerVisible())
	assert.Equal(t, 1, logs.FilterMessage("could not save review").Len())
}

func TestSession_RatingsMetric(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	s := newSession(t, sampleSource(), WithMetrics(m))
	require.NoError(t, s.Load(context.Background(), 2))

	_, err := s.Rate(context.Background(), 3)
	require.NoError(t, err)
	_, err = s.Rate(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ratings.WithLabelValues("3")))
	_, err = s.Rate(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNotInProgress)
}

func TestSession_RestartRequiresCards(t *testing.T) {
	s := newSession(t, sampleSource())
	assert.ErrorIs(t, s.Restart(), ErrCannotRestart)

	require.NoError(t, s.Load(context.Background(), 42))
	assert.ErrorIs(t, s.Restart(), ErrCannotRestart)
}

func TestSession_RestartOnlyWhenCompleted(t *testing.T) {
	s := newSession(t, sampleSource())
	require.NoError(t, s.Load(context.Background(), 0))
	require.Equal(t, InProgress, s.State())

	assert.ErrorIs(t, s.Restart(), ErrCannotRestart)
	assert.Equal(t, InProgress, s.State())
}

// countingSource records how often cards are fetched.
type countingSource struct {
	Source
	mu    sync.Mutex
	lists int
}

func (c *countingSource) ListCards(ctx context.Context, conceptID uint) ([]models.Card, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.Source.ListCards(ctx, conceptID)
}

func TestSession_EndToEndAgainstOfflineMirror(t *testing.T) {
	ctx := context.Background()

	store, err := mirror.Open(filepath.Join(t.TempDir(), "mirror.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	local := mirror.NewLocal(store, mirror.WithoutSeed(), mirror.WithClock(clock))
	concept, err := local.CreateConcept(ctx, models.ConceptInput{Name: "C"})
	require.NoError(t, err)
	card, err := local.CreateCard(ctx, models.CardInput{ConceptID: concept.ID, Question: "Q", Answer: "A"})
	require.NoError(t, err)
	require.Equal(t, uint(1), card.ID)

	repo := repository.New(client.New("http://127.0.0.1:1/api"), local)
	src := &countingSource{Source: repo}
	s := newSession(t, src)

	require.NoError(t, s.Load(ctx, 0))
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, uint(1), current.ID)
	assert.Equal(t, "Q", current.Question)
	assert.Equal(t, 1, src.lists, "empty due set falls back to all cards")

	require.NoError(t, s.RevealAnswer())
	saved, err := s.Rate(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, uint(1), saved.CardID)
	assert.Equal(t, 4, saved.Difficulty)
	assert.True(t, testNow.AddDate(0, 0, 7).Equal(saved.NextReviewDate))

	assert.Equal(t, Completed, s.State())
	done, total := s.Progress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, total)

	reviews, err := local.ListReviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	require.NoError(t, s.Restart())
	current, ok = s.Current()
	require.True(t, ok)
	assert.Equal(t, uint(1), current.ID)
	assert.Equal(t, 1, src.lists, "restart does not fetch")
}
