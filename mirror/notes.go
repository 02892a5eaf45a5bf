package mirror

import (
	"context"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

// ListNotes lists the notes of a concept, or every note when conceptID is 0.
func (l *Local) ListNotes(ctx context.Context, conceptID uint) ([]models.Note, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	notes, err := read[models.Note](ctx, l, nsNotes)
	if err != nil {
		return nil, err
	}
	if conceptID == 0 {
		return notes, nil
	}
	return filter(notes, func(n models.Note) bool { return n.ConceptID == conceptID }), nil
}

func (l *Local) GetNote(ctx context.Context, id uint) (*models.Note, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	notes, err := read[models.Note](ctx, l, nsNotes)
	if err != nil {
		return nil, err
	}
	i, ok := find(notes, id, noteID)
	if !ok {
		return nil, apperrors.NotFound("note", id)
	}
	n := notes[i]
	return &n, nil
}

func (l *Local) CreateNote(ctx context.Context, in models.NoteInput) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	if _, err := requireConcept(concepts, in.ConceptID); err != nil {
		return nil, err
	}
	notes, err := read[models.Note](ctx, l, nsNotes)
	if err != nil {
		return nil, err
	}
	history, err := read[models.LearningHistory](ctx, l, nsHistory)
	if err != nil {
		return nil, err
	}

	now := l.now()
	n := models.Note{
		ID:        nextID(notes, noteID),
		ConceptID: in.ConceptID,
		Title:     in.Title,
		Content:   in.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b := batch{}
	if err := add(b, nsNotes, append(notes, n)); err != nil {
		return nil, err
	}
	if err := add(b, nsHistory, appendActivity(history, in.ConceptID, models.ActivityNote, now)); err != nil {
		return nil, err
	}
	if err := l.commit(ctx, b); err != nil {
		return nil, err
	}
	return &n, nil
}

func (l *Local) UpdateNote(ctx context.Context, id uint, patch models.NotePatch) (*models.Note, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	notes, err := read[models.Note](ctx, l, nsNotes)
	if err != nil {
		return nil, err
	}
	i, ok := find(notes, id, noteID)
	if !ok {
		return nil, apperrors.NotFound("note", id)
	}
	patch.Apply(&notes[i])
	notes[i].UpdatedAt = l.now()
	if err := write(ctx, l, nsNotes, notes); err != nil {
		return nil, err
	}
	n := notes[i]
	return &n, nil
}

func (l *Local) DeleteNote(ctx context.Context, id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	notes, err := read[models.Note](ctx, l, nsNotes)
	if err != nil {
		return err
	}
	if _, ok := find(notes, id, noteID); !ok {
		return apperrors.NotFound("note", id)
	}
	return write(ctx, l, nsNotes, filter(notes, func(n models.Note) bool { return n.ID != id }))
}
