package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/graph"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// GET /api/concepts/
func (db *DBHandler) ListConcepts(w http.ResponseWriter, r *http.Request) {
	var concepts []models.Concept
	if err := db.WithContext(r.Context()).Order("id").Find(&concepts).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, concepts)
}

// GET /api/concepts/{conceptID}
func (db *DBHandler) GetConcept(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "conceptID")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	concept, err := first[models.Concept](tx, "concept", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}

	var connections []models.Connection
	if err := tx.Where("source_id = ? OR target_id = ?", id, id).Order("id").Find(&connections).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	var neighbors []models.Concept
	if err := tx.Where("id IN (?)", neighborIDs(id, connections)).Find(&neighbors).Error; err != nil {
		db.fail(w, r, err)
		return
	}

	db.respond(w, r, http.StatusOK, models.ConceptDetail{
		Concept:         *concept,
		RelatedConcepts: graph.RelatedConcepts(id, neighbors, connections),
	})
}

// POST /api/concepts/
func (db *DBHandler) CreateConcept(w http.ResponseWriter, r *http.Request) {
	var in models.ConceptInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	if err := uniqueConceptName(tx, in.Name, 0); err != nil {
		db.fail(w, r, err)
		return
	}

	concept := models.Concept{Name: in.Name, Description: in.Description}
	if err := tx.Create(&concept).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusCreated, concept)
}

// PUT /api/concepts/{conceptID}
func (db *DBHandler) UpdateConcept(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "conceptID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	var patch models.ConceptPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	concept, err := first[models.Concept](tx, "concept", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	if patch.Name != nil {
		if err := uniqueConceptName(tx, *patch.Name, id); err != nil {
			db.fail(w, r, err)
			return
		}
	}

	patch.Apply(concept)
	if err := tx.Save(concept).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, concept)
}

// DELETE /api/concepts/{conceptID}
// Removes the concept together with its connections, cards, reviews, notes
// and learning history.
func (db *DBHandler) DeleteConcept(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "conceptID")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := first[models.Concept](tx, "concept", id); err != nil {
			return err
		}
		cards := tx.Model(&models.Card{}).Select("id").Where("concept_id = ?", id)
		if err := tx.Where("card_id IN (?)", cards).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("concept_id = ?", id).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("source_id = ? OR target_id = ?", id, id).Delete(&models.Connection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("concept_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("concept_id = ?", id).Delete(&models.LearningHistory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Concept{}, id).Error
	})
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, deleted("Concept"))
}

// uniqueConceptName rejects a name already used by a concept other than self.
func uniqueConceptName(tx *gorm.DB, name string, self uint) error {
	var count int64
	q := tx.Model(&models.Concept{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if self != 0 {
		q = q.Where("id <> ?", self)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("concept %q already exists: %w", name, apperrors.ErrConflict)
	}
	return nil
}

func neighborIDs(id uint, connections []models.Connection) []uint {
	ids := make([]uint, 0, len(connections))
	for _, c := range connections {
		if c.SourceID == id {
			ids = append(ids, c.TargetID)
		} else {
			ids = append(ids, c.SourceID)
		}
	}
	return ids
}
