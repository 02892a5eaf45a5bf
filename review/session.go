// Package review runs spaced repetition sessions over the cards of the
// resource layer.
package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/srs"
)

type State int

const (
	Loading State = iota
	Empty
	InProgress
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Empty:
		return "empty"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Policy decides what an unscoped session studies.
type Policy int

const (
	// DueOrAllFallback studies the due cards, or every card when the due
	// query fails or nothing is due.
	DueOrAllFallback Policy = iota
	// DueOnly studies the due cards and nothing else.
	DueOnly
)

const (
	DefaultRetryDelay = 2 * time.Second
	DefaultMaxRetries = 3
)

var (
	ErrNotInProgress = errors.New("review session is not in progress")
	ErrCannotRestart = errors.New("review session is not completed")
)

// Source is the part of the resource layer a session reads and writes.
type Source interface {
	ListCards(ctx context.Context, conceptID uint) ([]models.Card, error)
	GetCard(ctx context.Context, id uint) (*models.Card, error)
	GetConcept(ctx context.Context, id uint) (*models.ConceptDetail, error)
	DueReviews(ctx context.Context, now time.Time) ([]models.Review, error)
	CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error)
}

// Metrics counts ratings across sessions.
type Metrics struct {
	ratings *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ratings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nodebook",
				Name:      "review_ratings_total",
				Help:      "Difficulty ratings given in review sessions",
			},
			[]string{"difficulty"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.ratings)
	}
	return m
}

// Session walks a user through one set of cards.
type Session struct {
	id         string
	src        Source
	now        func() time.Time
	retryDelay time.Duration
	maxRetries uint64
	policy     Policy
	metrics    *Metrics
	log        *zap.Logger

	mu            sync.Mutex
	state         State
	conceptID     uint
	cards         []models.Card
	index         int
	answerVisible bool
	err           error
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithRetry sets how often and how far apart a failed load is retried.
func WithRetry(delay time.Duration, retries uint64) Option {
	return func(s *Session) {
		s.retryDelay = delay
		s.maxRetries = retries
	}
}

func WithPolicy(p Policy) Option {
	return func(s *Session) { s.policy = p }
}

func WithMetrics(m *Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Session) { s.log = log }
}

func NewSession(src Source, opts ...Option) (*Session, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}
	s := &Session{
		id:         id,
		src:        src,
		now:        time.Now,
		retryDelay: DefaultRetryDelay,
		maxRetries: DefaultMaxRetries,
		policy:     DueOrAllFallback,
		log:        zap.NewNop(),
		state:      Loading,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("review").With(zap.String("session", id))
	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the load failure of a Failed session.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Load fetches the cards to study. A non-zero conceptID studies every card of
// that concept regardless of due dates. A failed fetch is retried with a
// fixed delay; cancelling ctx stops the retries.
func (s *Session) Load(ctx context.Context, conceptID uint) error {
	s.mu.Lock()
	s.state = Loading
	s.conceptID = conceptID
	s.cards = nil
	s.index = 0
	s.answerVisible = false
	s.err = nil
	s.mu.Unlock()

	var cards []models.Card
	attempt := 0
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), s.maxRetries), ctx)
	err := backoff.Retry(func() error {
		attempt++
		var err error
		cards, err = s.fetch(ctx, conceptID)
		if err != nil {
			s.log.Warn("loading review cards failed", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, b)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(ctxErr, err)
		}
		s.state = Failed
		s.err = fmt.Errorf("load review cards: %w", err)
		return s.err
	}
	s.cards = cards
	if len(cards) == 0 {
		s.state = Empty
	} else {
		s.state = InProgress
	}
	s.log.Info("review session loaded", zap.Uint("concept_id", conceptID), zap.Int("cards", len(cards)))
	return nil
}

// Retry loads the session again with the scope of the last Load.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	conceptID := s.conceptID
	s.mu.Unlock()
	return s.Load(ctx, conceptID)
}

func (s *Session) fetch(ctx context.Context, conceptID uint) ([]models.Card, error) {
	if conceptID != 0 {
		cards, err := s.src.ListCards(ctx, conceptID)
		if err != nil {
			return nil, err
		}
		return s.joinConcepts(ctx, cards), nil
	}

	cards, dueErr := s.dueCards(ctx)
	if s.policy == DueOnly {
		if dueErr != nil {
			return nil, dueErr
		}
		return s.joinConcepts(ctx, cards), nil
	}
	if dueErr != nil || len(cards) == 0 {
		if dueErr != nil {
			s.log.Info("due query failed, studying every card", zap.Error(dueErr))
		}
		all, err := s.src.ListCards(ctx, 0)
		if err != nil {
			return nil, err
		}
		cards = all
	}
	return s.joinConcepts(ctx, cards), nil
}

// dueCards resolves the due reviews to cards. Cards that cannot be fetched
// are skipped.
func (s *Session) dueCards(ctx context.Context) ([]models.Card, error) {
	due, err := s.src.DueReviews(ctx, s.now())
	if err != nil {
		return nil, err
	}
	cards := make([]models.Card, 0, len(due))
	seen := map[uint]bool{}
	for _, r := range due {
		if seen[r.CardID] {
			continue
		}
		seen[r.CardID] = true
		card, err := s.src.GetCard(ctx, r.CardID)
		if err != nil {
			s.log.Debug("skipping due card", zap.Uint("card_id", r.CardID), zap.Error(err))
			continue
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

// joinConcepts fills in missing concept references. Lookups that fail leave
// the reference empty.
func (s *Session) joinConcepts(ctx context.Context, cards []models.Card) []models.Card {
	refs := map[uint]*models.ConceptRef{}
	for i := range cards {
		if cards[i].Concept != nil {
			continue
		}
		id := cards[i].ConceptID
		ref, ok := refs[id]
		if !ok {
			if c, err := s.src.GetConcept(ctx, id); err == nil {
				ref = &models.ConceptRef{ID: c.ID, Name: c.Name}
			}
			refs[id] = ref
		}
		cards[i].Concept = ref
	}
	return cards
}

// Current is the card being studied.
func (s *Session) Current() (models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress {
		return models.Card{}, false
	}
	return s.cards[s.index], true
}

func (s *Session) RevealAnswer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != InProgress {
		return ErrNotInProgress
	}
	s.answerVisible = true
	return nil
}

func (s *Session) AnswerVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answerVisible
}

// Progress returns the number of rated cards and the session size.
func (s *Session) Progress() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index, len(s.cards)
}

// Rate records the difficulty of the current card and moves on. An illegal
// difficulty leaves the session untouched. When saving the review fails the
// session still advances and the error wraps apperrors.ErrPartialFailure.
func (s *Session) Rate(ctx context.Context, difficulty int) (*models.Review, error) {
	s.mu.Lock()
	if s.state != InProgress {
		s.mu.Unlock()
		return nil, ErrNotInProgress
	}
	next, err := srs.NextReviewDate(difficulty, s.now())
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	card := s.cards[s.index]
	s.index++
	s.answerVisible = false
	if s.index >= len(s.cards) {
		s.state = Completed
	}
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ratings.WithLabelValues(strconv.Itoa(difficulty)).Inc()
	}
	saved, err := s.src.CreateReview(ctx, models.ReviewInput{
		CardID:         card.ID,
		Difficulty:     difficulty,
		NextReviewDate: next,
	})
	if err != nil {
		s.log.Warn("could not save review", zap.Uint("card_id", card.ID), zap.Int("difficulty", difficulty), zap.Error(err))
		return nil, fmt.Errorf("save review of card %d: %w: %w", card.ID, apperrors.ErrPartialFailure, err)
	}
	return saved, nil
}

// Restart goes back to the first card of a completed session without
// fetching anything.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Completed {
		return ErrCannotRestart
	}
	s.index = 0
	s.answerVisible = false
	s.state = InProgress
	return nil
}
