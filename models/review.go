package models

import (
	"time"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
)

// Review is one self-rated recall of a card. Reviews are never updated; the
// most recent review of a card is its current schedule.
//
// NextReviewDate is computed from the reviewing client's clock, while
// CreatedAt is stamped by the store that saves the review. The interval
// between them matches the difficulty up to the skew between those clocks.
type Review struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CardID         uint      `gorm:"not null;index" json:"card_id"`
	Difficulty     int       `gorm:"not null" json:"difficulty"` // 1-5
	NextReviewDate time.Time `gorm:"not null;index" json:"next_review_date"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type ReviewInput struct {
	CardID         uint      `json:"card_id" validate:"required"`
	Difficulty     int       `json:"difficulty" validate:"min=1,max=5"`
	NextReviewDate time.Time `json:"next_review_date"`
}

func (in ReviewInput) Validate() error {
	if err := validateStruct(in); err != nil {
		return err
	}
	if in.NextReviewDate.IsZero() {
		return apperrors.Invalid("next_review_date is required")
	}
	return nil
}
