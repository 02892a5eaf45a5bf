package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// GET /api/cards/?concept_id=
func (db *DBHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	conceptID, err := utils.QueryID(r, "concept_id")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	q := tx.Order("id")
	if conceptID != 0 {
		q = q.Where("concept_id = ?", conceptID)
	}
	var cards []models.Card
	if err := q.Find(&cards).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	if err := joinConcepts(tx, cards); err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, cards)
}

// GET /api/cards/{cardID}
func (db *DBHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "cardID")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	card, err := first[models.Card](tx, "card", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	cards := []models.Card{*card}
	if err := joinConcepts(tx, cards); err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, cards[0])
}

// POST /api/cards/
func (db *DBHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var in models.CardInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	concept, err := first[models.Concept](tx, "concept", in.ConceptID)
	if err != nil {
		db.fail(w, r, err)
		return
	}

	card := models.Card{
		ConceptID:   in.ConceptID,
		Question:    in.Question,
		Answer:      in.Answer,
		Explanation: in.Explanation,
	}
	if err := tx.Create(&card).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	card.Concept = &models.ConceptRef{ID: concept.ID, Name: concept.Name}
	db.respond(w, r, http.StatusCreated, card)
}

// PUT /api/cards/{cardID}
func (db *DBHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "cardID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	var patch models.CardPatch
	if err := utils.DecodeJSON(r, &patch); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := patch.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	tx := db.WithContext(r.Context())
	card, err := first[models.Card](tx, "card", id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	patch.Apply(card)
	if err := tx.Save(card).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	cards := []models.Card{*card}
	if err := joinConcepts(tx, cards); err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, cards[0])
}

// DELETE /api/cards/{cardID}
// Reviews of the card go with it.
func (db *DBHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "cardID")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	err = db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Card{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NotFound("card", id)
		}
		return nil
	})
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, deleted("Card"))
}

// joinConcepts fills the {id, name} of each card's concept.
func joinConcepts(tx *gorm.DB, cards []models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ConceptID)
	}
	var refs []models.ConceptRef
	if err := tx.Model(&models.Concept{}).Select("id", "name").Where("id IN ?", ids).Scan(&refs).Error; err != nil {
		return err
	}
	byID := make(map[uint]models.ConceptRef, len(refs))
	for _, ref := range refs {
		byID[ref.ID] = ref
	}
	for i := range cards {
		if ref, ok := byID[cards[i].ConceptID]; ok {
			cards[i].Concept = &ref
		}
	}
	return nil
}
