package handlers

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/graph"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// tables reads the graph straight from the database.
type tables struct{ *gorm.DB }

func (t tables) ListConcepts(ctx context.Context) ([]models.Concept, error) {
	var concepts []models.Concept
	if err := t.WithContext(ctx).Order("id").Find(&concepts).Error; err != nil {
		return nil, err
	}
	return concepts, nil
}

func (t tables) ListConnections(ctx context.Context, f models.ConnectionFilter) ([]models.Connection, error) {
	q := t.WithContext(ctx).Order("id")
	if f.SourceID != 0 {
		q = q.Where("source_id = ?", f.SourceID)
	}
	if f.TargetID != 0 {
		q = q.Where("target_id = ?", f.TargetID)
	}
	var connections []models.Connection
	if err := q.Find(&connections).Error; err != nil {
		return nil, err
	}
	return connections, nil
}

// GET /api/graph
func (db *DBHandler) Graph(w http.ResponseWriter, r *http.Request) {
	selected, err := utils.QueryID(r, "selected")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	g, err := graph.Load(r.Context(), tables{db.DB})
	if err != nil {
		db.fail(w, r, err)
		return
	}
	if _, ok := g.Node(selected); selected != 0 && !ok {
		db.fail(w, r, apperrors.NotFound("concept", selected))
		return
	}
	db.respond(w, r, http.StatusOK, g.View(selected))
}
