package repository

import (
	"context"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// Statistics have no mirror namespace of their own. When the backend is
// down they are recomputed from the mirror's records.

func (r *Repository) LearningStats(ctx context.Context) (*models.LearningStats, error) {
	return withFallback(ctx, r, "LearningStats", r.remote.LearningStats, r.local.LearningStats)
}

func (r *Repository) ConceptStats(ctx context.Context, id uint) (*models.ConceptStats, error) {
	return withFallback(ctx, r, "ConceptStats",
		func(ctx context.Context) (*models.ConceptStats, error) { return r.remote.ConceptStats(ctx, id) },
		func(ctx context.Context) (*models.ConceptStats, error) { return r.local.ConceptStats(ctx, id) },
	)
}

func (r *Repository) ReviewStats(ctx context.Context, rng models.ReviewRange) (*models.ReviewStats, error) {
	return withFallback(ctx, r, "ReviewStats",
		func(ctx context.Context) (*models.ReviewStats, error) { return r.remote.ReviewStats(ctx, rng) },
		func(ctx context.Context) (*models.ReviewStats, error) { return r.local.ReviewStats(ctx, rng) },
	)
}

func (r *Repository) ProgressStats(ctx context.Context) (*models.ProgressStats, error) {
	return withFallback(ctx, r, "ProgressStats", r.remote.ProgressStats, r.local.ProgressStats)
}
