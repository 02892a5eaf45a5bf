package mirror

import (
	"context"
	"fmt"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

func (l *Local) ListConnections(ctx context.Context, f models.ConnectionFilter) ([]models.Connection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return nil, err
	}
	return filter(connections, f.Match), nil
}

// ListConceptConnections returns the connections with the concept at either
// end.
func (l *Local) ListConceptConnections(ctx context.Context, conceptID uint) ([]models.Connection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	if _, err := requireConcept(concepts, conceptID); err != nil {
		return nil, err
	}
	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return nil, err
	}
	return filter(connections, func(c models.Connection) bool { return c.Touches(conceptID) }), nil
}

func (l *Local) GetConnection(ctx context.Context, id uint) (*models.Connection, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return nil, err
	}
	i, ok := find(connections, id, connectionID)
	if !ok {
		return nil, apperrors.NotFound("connection", id)
	}
	c := connections[i]
	return &c, nil
}

func (l *Local) CreateConnection(ctx context.Context, in models.ConnectionInput) (*models.Connection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	concepts, err := read[models.Concept](ctx, l, nsConcepts)
	if err != nil {
		return nil, err
	}
	for _, id := range []uint{in.SourceID, in.TargetID} {
		if _, err := requireConcept(concepts, id); err != nil {
			return nil, err
		}
	}
	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return nil, err
	}
	for _, c := range connections {
		if c.SourceID == in.SourceID && c.TargetID == in.TargetID {
			return nil, fmt.Errorf("connection %d -> %d already exists: %w", in.SourceID, in.TargetID, apperrors.ErrConflict)
		}
	}

	c := in.Build()
	c.ID = nextID(connections, connectionID)
	c.CreatedAt = l.now()
	if err := write(ctx, l, nsConnections, append(connections, c)); err != nil {
		return nil, err
	}
	return &c, nil
}

func (l *Local) UpdateConnection(ctx context.Context, id uint, patch models.ConnectionPatch) (*models.Connection, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return nil, err
	}
	i, ok := find(connections, id, connectionID)
	if !ok {
		return nil, apperrors.NotFound("connection", id)
	}
	patch.Apply(&connections[i])
	if err := write(ctx, l, nsConnections, connections); err != nil {
		return nil, err
	}
	c := connections[i]
	return &c, nil
}

func (l *Local) DeleteConnection(ctx context.Context, id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	connections, err := read[models.Connection](ctx, l, nsConnections)
	if err != nil {
		return err
	}
	if _, ok := find(connections, id, connectionID); !ok {
		return apperrors.NotFound("connection", id)
	}
	return write(ctx, l, nsConnections, filter(connections, func(c models.Connection) bool { return c.ID != id }))
}
