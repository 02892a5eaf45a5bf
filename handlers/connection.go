package handlers

import (
	"fmt"
	"net/http"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// GET /api/connections/?source_id=&target_id=
func (db *DBHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	sourceID, err := utils.QueryID(r, "source_id")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	targetID, err := utils.QueryID(r, "target_id")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	q := db.WithContext(r.Context()).Order("id")
	if sourceID != 0 {
		q = q.Where("source_id = ?", sourceID)
	}
	if targetID != 0 {
		q = q.Where("target_id = ?", targetID)
	}
	var connections []models.Connection
	if err := q.Find(&connections).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, connections)
}

// GET /api/concepts/{conceptID}/connections
func (db *DBHandler) ListConceptConnections(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "conceptID")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	if _, err := first[models.Concept](tx, "concept", id); err != nil {
		db.fail(w, r, err)
		return
	}
	var connections []models.Connection
	if err := tx.Where("source_id = ? OR target_id = ?", id, id).Order("id").Find(&connections).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, connections)
}

// GET /api/connections/{connectionID}
func (db *DBHandler) GetConnection(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "connectionID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	connection, err := first[models.Connection](db.WithContext(r.Context()), "connection", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, connection)
}

// POST /api/connections/
// Both ends must exist, differ, and not already be connected in this direction.
func (db *DBHandler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var in models.ConnectionInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	for _, id := range []uint{in.SourceID, in.TargetID} {
		if _, err := first[models.Concept](tx, "concept", id); err != nil {
			db.fail(w, r, err)
			return
		}
	}

	var count int64
	if err := tx.Model(&models.Connection{}).
		Where("source_id = ? AND target_id = ?", in.SourceID, in.TargetID).
		Count(&count).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	if count > 0 {
		db.fail(w, r, fmt.Errorf("connection %d -> %d already exists: %w", in.SourceID, in.TargetID, apperrors.ErrConflict))
		return
	}

	connection := in.Build()
	if err := tx.Create(&connection).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusCreated, connection)
}

// PUT /api/connections/{connectionID}
func (db *DBHandler) UpdateConnection(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "connectionID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	var patch models.ConnectionPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	connection, err := first[models.Connection](tx, "connection", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	patch.Apply(connection)
	if err := tx.Save(connection).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, connection)
}

// DELETE /api/connections/{connectionID}
func (db *DBHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "connectionID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	result := db.WithContext(r.Context()).Delete(&models.Connection{}, id)
	if result.Error != nil {
		db.fail(w, r, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		db.fail(w, r, apperrors.NotFound("connection", id))
		return
	}
	db.respond(w, r, http.StatusOK, deleted("Connection"))
}
