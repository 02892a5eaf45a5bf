package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// GET /api/notes/?concept_id=
func (db *DBHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	conceptID, err := utils.QueryID(r, "concept_id")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	q := db.WithContext(r.Context()).Order("id")
	if conceptID != 0 {
		q = q.Where("concept_id = ?", conceptID)
	}
	var notes []models.Note
	if err := q.Find(&notes).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, notes)
}

// GET /api/notes/{noteID}
func (db *DBHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "noteID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	note, err := first[models.Note](db.WithContext(r.Context()), "note", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, note)
}

// POST /api/notes/
func (db *DBHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var in models.NoteInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	note := models.Note{ConceptID: in.ConceptID, Title: in.Title, Content: in.Content}
	err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := first[models.Concept](tx, "concept", in.ConceptID); err != nil {
			return err
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}
		return recordActivity(tx, in.ConceptID, models.ActivityNote, db.now())
	})
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusCreated, note)
}

// PUT /api/notes/{noteID}
func (db *DBHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "noteID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	var patch models.NotePatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	note, err := first[models.Note](tx, "note", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	patch.Apply(note)
	if err := tx.Save(note).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, note)
}

// DELETE /api/notes/{noteID}
func (db *DBHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "noteID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	result := db.WithContext(r.Context()).Delete(&models.Note{}, id)
	if result.Error != nil {
		db.fail(w, r, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		db.fail(w, r, apperrors.NotFound("note", id))
		return
	}
	db.respond(w, r, http.StatusOK, deleted("Note"))
}
