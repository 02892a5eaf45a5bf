package mirror

import (
	"context"
	"time"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/srs"
)

// ListReviews lists the review log of a card, or every review when cardID is 0.
func (l *Local) ListReviews(ctx context.Context, cardID uint) ([]models.Review, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reviews, err := read[models.Review](ctx, l, nsReviews)
	if err != nil {
		return nil, err
	}
	if cardID == 0 {
		return reviews, nil
	}
	return filter(reviews, func(r models.Review) bool { return r.CardID == cardID }), nil
}

// DueReviews returns the current schedule of every card due at or before now.
func (l *Local) DueReviews(ctx context.Context, now time.Time) ([]models.Review, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reviews, err := read[models.Review](ctx, l, nsReviews)
	if err != nil {
		return nil, err
	}
	return srs.Due(reviews, now), nil
}

// CreateReview appends a review and records a review activity for the
// card's concept.
func (l *Local) CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return nil, err
	}
	i, ok := find(cards, in.CardID, cardID)
	if !ok {
		return nil, apperrors.NotFound("card", in.CardID)
	}
	reviews, err := read[models.Review](ctx, l, nsReviews)
	if err != nil {
		return nil, err
	}
	history, err := read[models.LearningHistory](ctx, l, nsHistory)
	if err != nil {
		return nil, err
	}

	now := l.now()
	r := models.Review{
		ID:             nextID(reviews, reviewID),
		CardID:         in.CardID,
		Difficulty:     in.Difficulty,
		NextReviewDate: in.NextReviewDate,
		CreatedAt:      now,
	}
	b := batch{}
	if err := add(b, nsReviews, append(reviews, r)); err != nil {
		return nil, err
	}
	history = appendActivity(history, cards[i].ConceptID, models.ActivityReview, now)
	if err := add(b, nsHistory, history); err != nil {
		return nil, err
	}
	if err := l.commit(ctx, b); err != nil {
		return nil, err
	}
	return &r, nil
}

func appendActivity(history []models.LearningHistory, conceptID uint, activity string, at time.Time) []models.LearningHistory {
	return append(history, models.LearningHistory{
		ID:           nextID(history, historyID),
		ConceptID:    conceptID,
		ActivityType: activity,
		CreatedAt:    at,
	})
}
