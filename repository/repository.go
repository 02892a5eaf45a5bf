// Package repository is the resource layer the rest of the application uses.
// Every operation runs against the remote backend first and degrades to the
// local mirror when the backend fails.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

// Backend is the full operation set of the resource layer. The remote
// client, the local mirror and the Repository itself all implement it.
type Backend interface {
	ListConcepts(ctx context.Context) ([]models.Concept, error)
	GetConcept(ctx context.Context, id uint) (*models.ConceptDetail, error)
	CreateConcept(ctx context.Context, in models.ConceptInput) (*models.Concept, error)
	UpdateConcept(ctx context.Context, id uint, patch models.ConceptPatch) (*models.Concept, error)
	DeleteConcept(ctx context.Context, id uint) error

	ListConnections(ctx context.Context, filter models.ConnectionFilter) ([]models.Connection, error)
	ListConceptConnections(ctx context.Context, conceptID uint) ([]models.Connection, error)
	GetConnection(ctx context.Context, id uint) (*models.Connection, error)
	CreateConnection(ctx context.Context, in models.ConnectionInput) (*models.Connection, error)
	UpdateConnection(ctx context.Context, id uint, patch models.ConnectionPatch) (*models.Connection, error)
	DeleteConnection(ctx context.Context, id uint) error

	ListCards(ctx context.Context, conceptID uint) ([]models.Card, error)
	GetCard(ctx context.Context, id uint) (*models.Card, error)
	CreateCard(ctx context.Context, in models.CardInput) (*models.Card, error)
	UpdateCard(ctx context.Context, id uint, patch models.CardPatch) (*models.Card, error)
	DeleteCard(ctx context.Context, id uint) error

	ListReviews(ctx context.Context, cardID uint) ([]models.Review, error)
	DueReviews(ctx context.Context, now time.Time) ([]models.Review, error)
	CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error)

	ListNotes(ctx context.Context, conceptID uint) ([]models.Note, error)
	GetNote(ctx context.Context, id uint) (*models.Note, error)
	CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error)
	UpdateNote(ctx context.Context, id uint, patch models.NotePatch) (*models.Note, error)
	DeleteNote(ctx context.Context, id uint) error

	LearningStats(ctx context.Context) (*models.LearningStats, error)
	ConceptStats(ctx context.Context, id uint) (*models.ConceptStats, error)
	ReviewStats(ctx context.Context, rng models.ReviewRange) (*models.ReviewStats, error)
	ProgressStats(ctx context.Context) (*models.ProgressStats, error)
}

// Mirror is a fallback backend that can also absorb what the remote returned.
type Mirror interface {
	Backend
	MarkSynced(ctx context.Context) error
	RememberConcepts(ctx context.Context, concepts []models.Concept, complete bool) error
	RememberConnections(ctx context.Context, connections []models.Connection, complete bool) error
	RememberCards(ctx context.Context, cards []models.Card, complete bool) error
	RememberReviews(ctx context.Context, reviews []models.Review, complete bool) error
	RememberNotes(ctx context.Context, notes []models.Note, complete bool) error
}

// LLM is the tutor operation set.
type LLM interface {
	Health(ctx context.Context) (*models.LLMHealth, error)
	Explain(ctx context.Context, req models.LLMRequest) (*models.LLMResponse, error)
	GenerateQuestion(ctx context.Context, req models.LLMRequest) (*models.LLMQuestion, error)
	SuggestConcepts(ctx context.Context, req models.LLMRequest) (*models.LLMSuggestions, error)
	Chat(ctx context.Context, req models.ChatRequest) (*models.LLMResponse, error)
}

// Repository pairs a remote primary with a local mirror.
type Repository struct {
	remote Backend
	local  Mirror
	llm    LLM
	log    *zap.Logger

	fallbacks *prometheus.CounterVec
}

var (
	_ Backend = (*Repository)(nil)
	_ LLM     = (*Repository)(nil)
)

type Option func(*Repository)

func WithLogger(log *zap.Logger) Option {
	return func(r *Repository) { r.log = log }
}

// WithRegisterer registers the repository metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Repository) { reg.MustRegister(r.fallbacks) }
}

// WithLLM sets the remote tutor. Without one every LLM call is answered
// with placeholders.
func WithLLM(llm LLM) Option {
	return func(r *Repository) { r.llm = llm }
}

func New(remote Backend, local Mirror, opts ...Option) *Repository {
	r := &Repository{
		remote: remote,
		local:  local,
		log:    zap.NewNop(),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "nodebook",
				Name:      "fallback_total",
				Help:      "Operations answered by the local mirror because the backend failed",
			},
			[]string{"operation"},
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.Named("repository")
	return r
}

// degrades reports whether a remote failure should be retried locally. A
// rejected payload or a conflict is a definitive answer from the backend.
func degrades(err error) bool {
	return !apperrors.IsValidation(err) && !errors.Is(err, apperrors.ErrConflict)
}

func (r *Repository) degraded(op string, err error) {
	r.fallbacks.WithLabelValues(op).Inc()
	r.log.Warn("backend unavailable, using local mirror", zap.String("operation", op), zap.Error(err))
}

// withFallback runs remote and, if it fails, local.
func withFallback[T any](ctx context.Context, r *Repository, op string, remote, local func(context.Context) (T, error)) (T, error) {
	v, err := remote(ctx)
	if err == nil {
		return v, nil
	}
	var zero T
	if ctx.Err() != nil {
		return zero, ctx.Err()
	}
	if !degrades(err) {
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	r.degraded(op, err)

	v, lerr := local(ctx)
	if lerr != nil {
		if apperrors.IsNotFound(lerr) {
			return zero, fmt.Errorf("%s: %w", op, errors.Join(err, lerr))
		}
		return zero, fmt.Errorf("%s: local mirror: %w", op, lerr)
	}
	return v, nil
}

// withFallbackErr is withFallback for operations without a result.
func withFallbackErr(ctx context.Context, r *Repository, op string, remote, local func(context.Context) error) error {
	_, err := withFallback(ctx, r, op,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, remote(ctx) },
		func(ctx context.Context) (struct{}, error) { return struct{}{}, local(ctx) },
	)
	return err
}

// reconcile writes a remote result through to the mirror. Once the backend
// has answered, the mirror no longer seeds sample data. Failures are logged
// and never surface to the caller.
func (r *Repository) reconcile(ctx context.Context, op string, write func(context.Context) error) {
	err := r.local.MarkSynced(ctx)
	if err == nil {
		err = write(ctx)
	}
	if err != nil && !apperrors.IsNotFound(err) {
		r.log.Warn("could not update local mirror", zap.String("operation", op), zap.Error(err))
	}
}
