package mirror

import (
	"context"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

// joinConcepts attaches the owning concept reference to each card.
func joinConcepts(cards []models.Card, concepts []models.Concept) []models.Card {
	refs := make(map[uint]*models.ConceptRef, len(concepts))
	for _, c := range concepts {
		refs[c.ID] = &models.ConceptRef{ID: c.ID, Name: c.Name}
	}
	for i := range cards {
		cards[i].Concept = refs[cards[i].ConceptID]
	}
	return cards
}

// ListCards lists the cards of a concept, or every card when conceptID is 0.
func (l *Local) ListCards(ctx context.Context, conceptID uint) ([]models.Card, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return nil, err
	}
	if conceptID != 0 {
		cards = filter(cards, func(c models.Card) bool { return c.ConceptID == conceptID })
	}
	return joinConcepts(cards, concepts), nil
}

func (l *Local) GetCard(ctx context.Context, id uint) (*models.Card, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return nil, err
	}
	i, ok := find(cards, id, cardID)
	if !ok {
		return nil, apperrors.NotFound("card", id)
	}
	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	c := joinConcepts(cards[i:i+1], concepts)[0]
	return &c, nil
}

func (l *Local) CreateCard(ctx context.Context, in models.CardInput) (*models.Card, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	owner, err := requireConcept(concepts, in.ConceptID)
	if err != nil {
		return nil, err
	}
	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return nil, err
	}
	now := l.now()
	c := models.Card{
		ID:          nextID(cards, cardID),
		ConceptID:   in.ConceptID,
		Question:    in.Question,
		Answer:      in.Answer,
		Explanation: in.Explanation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := write(ctx, l, nsCards, append(cards, c)); err != nil {
		return nil, err
	}
	c.Concept = &models.ConceptRef{ID: owner.ID, Name: owner.Name}
	return &c, nil
}

func (l *Local) UpdateCard(ctx context.Context, id uint, patch models.CardPatch) (*models.Card, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return nil, err
	}
	i, ok := find(cards, id, cardID)
	if !ok {
		return nil, apperrors.NotFound("card", id)
	}
	patch.Apply(&cards[i])
	cards[i].UpdatedAt = l.now()
	if err := write(ctx, l, nsCards, cards); err != nil {
		return nil, err
	}
	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	c := joinConcepts([]models.Card{cards[i]}, concepts)[0]
	return &c, nil
}

// DeleteCard removes the card and its reviews.
func (l *Local) DeleteCard(ctx context.Context, id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	cards, err := read[models.Card](ctx, l, nsCards)
	if err != nil {
		return err
	}
	if _, ok := find(cards, id, cardID); !ok {
		return apperrors.NotFound("card", id)
	}
	reviews, err := read[models.Review](ctx, l, nsReviews)
	if err != nil {
		return err
	}

	b := batch{}
	if err := add(b, nsCards, filter(cards, func(c models.Card) bool { return c.ID != id })); err != nil {
		return err
	}
	if err := add(b, nsReviews, filter(reviews, func(r models.Review) bool { return r.CardID != id })); err != nil {
		return err
	}
	return l.commit(ctx, b)
}
