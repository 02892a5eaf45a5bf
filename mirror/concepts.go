package mirror

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/graph"
	"github.com/andrewpaige1/nodebook-graph/models"
)

func conceptID(c models.Concept) uint         { return c.ID }
func connectionID(c models.Connection) uint   { return c.ID }
func cardID(c models.Card) uint               { return c.ID }
func reviewID(r models.Review) uint           { return r.ID }
func noteID(n models.Note) uint               { return n.ID }
func historyID(h models.LearningHistory) uint { return h.ID }

func (l *Local) ListConcepts(ctx context.Context) ([]models.Concept, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return read[models.Concept](ctx, l, nsConcepts)
}

func (l *Local) GetConcept(ctx context.Context, id uint) (*models.ConceptDetail, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	i, ok := find(concepts, id, conceptID)
	if !ok {
		return nil, apperrors.NotFound("concept", id)
	}
	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return nil, err
	}
	return &models.ConceptDetail{
		Concept:         concepts[i],
		RelatedConcepts: graph.RelatedConcepts(id, concepts, connections),
	}, nil
}

func (l *Local) CreateConcept(ctx context.Context, in models.ConceptInput) (*models.Concept, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	if err := uniqueName(concepts, in.Name, 0); err != nil {
		return nil, err
	}
	now := l.now()
	c := models.Concept{
		ID:          nextID(concepts, conceptID),
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := write(ctx, l, nsConcepts, append(concepts, c)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (l *Local) UpdateConcept(ctx context.Context, id uint, patch models.ConceptPatch) (*models.Concept, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	i, ok := find(concepts, id, conceptID)
	if !ok {
		return nil, apperrors.NotFound("concept", id)
	}
	if patch.Name != nil {
		if err := uniqueName(concepts, *patch.Name, id); err != nil {
			return nil, err
		}
	}
	patch.Apply(&concepts[i])
	concepts[i].UpdatedAt = l.now()
	if err := write(ctx, l, nsConcepts, concepts); err != nil {
		return nil, err
	}
	c := concepts[i]
	return &c, nil
}

// DeleteConcept removes the concept together with its connections, cards,
// the reviews of those cards, its notes and its learning history.
func (l *Local) DeleteConcept(ctx context.Context, id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return err
	}
	if _, ok := find(concepts, id, conceptID); !ok {
		return apperrors.NotFound("concept", id)
	}
	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return err
	}
	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return err
	}
	reviews, err := read[models.Review](ctx, l, nsReviews)
	if err != nil {
		return err
	}
	notes, err := read[models.Note](ctx, l, nsNotes)
	if err != nil {
		return err
	}
	history, err := read[models.LearningHistory](ctx, l, nsHistory)
	if err != nil {
		return err
	}

	removedCards := map[uint]bool{}
	for _, c := range cards {
		if c.ConceptID == id {
			removedCards[c.ID] = true
		}
	}

	b := batch{}
	steps := []error{
		add(b, nsConcepts, filter(concepts, func(c models.Concept) bool { return c.ID != id })),
		add(b, nsConnections, filter(connections, func(c models.Connection) bool { return !c.Touches(id) })),
		add(b, nsCards, filter(cards, func(c models.Card) bool { return c.ConceptID != id })),
		add(b, nsReviews, filter(reviews, func(r models.Review) bool { return !removedCards[r.CardID] })),
		add(b, nsNotes, filter(notes, func(n models.Note) bool { return n.ConceptID != id })),
		add(b, nsHistory, filter(history, func(h models.LearningHistory) bool { return h.ConceptID != id })),
	}
	for _, err := range steps {
		if err != nil {
			return err
		}
	}
	return l.commit(ctx, b)
}

func uniqueName(concepts []models.Concept, name string, except uint) error {
	for _, c := range concepts {
		if c.ID != except && strings.EqualFold(c.Name, name) {
			return fmt.Errorf("concept %q already exists: %w", name, apperrors.ErrConflict)
		}
	}
	return nil
}

func requireConcept(concepts []models.Concept, id uint) (models.Concept, error) {
	i, ok := find(concepts, id, conceptID)
	if !ok {
		return models.Concept{}, apperrors.NotFound("concept", id)
	}
	return concepts[i], nil
}
