package mirror

import (
	"context"

	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/stats"
)

// dataset snapshots every namespace the statistics read. Callers hold l.mu.
func (l *Local) dataset(ctx context.Context) (stats.Dataset, error) {
	var (
		d   stats.Dataset
		err error
	)
	if d.Concepts, err = read[models.Concept](ctx, l, nsConcepts); err != nil {
		return d, err
	}
	if d.Cards, err = read[models.Card](ctx, l, nsCards); err != nil {
		return d, err
	}
	if d.Reviews, err = read[models.Review](ctx, l, nsReviews); err != nil {
		return d, err
	}
	if d.History, err = read[models.LearningHistory](ctx, l, nsHistory); err != nil {
		return d, err
	}
	return d, nil
}

func (l *Local) LearningStats(ctx context.Context) (*models.LearningStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	d, err := l.dataset(ctx)
	if err != nil {
		return nil, err
	}
	s := stats.Learning(d)
	return &s, nil
}

func (l *Local) ConceptStats(ctx context.Context, id uint) (*models.ConceptStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	d, err := l.dataset(ctx)
	if err != nil {
		return nil, err
	}
	s, err := stats.Concept(d, id)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (l *Local) ReviewStats(ctx context.Context, rng models.ReviewRange) (*models.ReviewStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reviews, err := read[models.Review](ctx, l, nsReviews)
	if err != nil {
		return nil, err
	}
	s := stats.Reviews(reviews, rng, l.now())
	return &s, nil
}

func (l *Local) ProgressStats(ctx context.Context) (*models.ProgressStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	d, err := l.dataset(ctx)
	if err != nil {
		return nil, err
	}
	s := stats.Progress(d, l.now())
	return &s, nil
}
