package mirror

import (
	"context"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// The Remember methods write records fetched from the backend into the
// mirror. A complete listing replaces the namespace, anything else is merged
// in by id.

// MarkSynced records that the mirror follows the backend. The first call
// drops any sample data, and namespaces stay empty from then on instead of
// being seeded.
func (l *Local) MarkSynced(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := batch{}
	if _, err := l.beginSync(ctx, b); err != nil {
		return err
	}
	return l.commit(ctx, b)
}

func (l *Local) RememberConcepts(ctx context.Context, concepts []models.Concept, complete bool) error {
	return remember(ctx, l, nsConcepts, concepts, complete, conceptID)
}

func (l *Local) RememberConnections(ctx context.Context, connections []models.Connection, complete bool) error {
	return remember(ctx, l, nsConnections, connections, complete, connectionID)
}

func (l *Local) RememberCards(ctx context.Context, cards []models.Card, complete bool) error {
	stored := make([]models.Card, len(cards))
	for i, c := range cards {
		c.Concept = nil
		stored[i] = c
	}
	return remember(ctx, l, nsCards, stored, complete, cardID)
}

func (l *Local) RememberReviews(ctx context.Context, reviews []models.Review, complete bool) error {
	return remember(ctx, l, nsReviews, reviews, complete, reviewID)
}

func (l *Local) RememberNotes(ctx context.Context, notes []models.Note, complete bool) error {
	return remember(ctx, l, nsNotes, notes, complete, noteID)
}
