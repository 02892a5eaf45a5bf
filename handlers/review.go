package handlers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/srs"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// GET /api/reviews/?card_id=
func (db *DBHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	cardID, err := utils.QueryID(r, "card_id")
	if err != nil {
		db.fail(w, r, err)
		return
	}

	q := db.WithContext(r.Context()).Order("created_at").Order("id")
	if cardID != 0 {
		q = q.Where("card_id = ?", cardID)
	}
	var reviews []models.Review
	if err := q.Find(&reviews).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, reviews)
}

// GET /api/reviews/due?now=
// Only the latest review of a card schedules it, so earlier reviews never
// make a card due on their own.
func (db *DBHandler) DueReviews(w http.ResponseWriter, r *http.Request) {
	now, err := utils.QueryTime(r, "now")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	if now.IsZero() {
		now = db.now()
	}

	var reviews []models.Review
	if err := db.WithContext(r.Context()).Find(&reviews).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, srs.Due(reviews, now))
}

// POST /api/reviews/
// Records a review activity against the card's concept.
func (db *DBHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		db.fail(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		db.fail(w, r, err)
		return
	}

	review := models.Review{
		CardID:         in.CardID,
		Difficulty:     in.Difficulty,
		NextReviewDate: in.NextReviewDate,
		CreatedAt:      db.now(),
	}
	err := db.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		card, err := first[models.Card](tx, "card", in.CardID)
		if err != nil {
			return err
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return recordActivity(tx, card.ConceptID, models.ActivityReview, review.CreatedAt)
	})
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusCreated, review)
}
