package models

import (
	"time"
)

// Card is a question/answer flashcard owned by a concept
type Card struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConceptID   uint      `gorm:"not null;index" json:"concept_id"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text;not null" json:"answer"`
	Explanation string    `gorm:"type:text" json:"explanation,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Joined owning concept, not a column
	Concept *ConceptRef `gorm:"-" json:"concept,omitempty"`
}

type CardInput struct {
	ConceptID   uint   `json:"concept_id" validate:"required"`
	Question    string `json:"question" validate:"required,notblank"`
	Answer      string `json:"answer" validate:"required,notblank"`
	Explanation string `json:"explanation,omitempty"`
}

func (in CardInput) Validate() error {
	return validateStruct(in)
}

type CardPatch struct {
	Question    *string `json:"question,omitempty" validate:"omitempty,notblank"`
	Answer      *string `json:"answer,omitempty" validate:"omitempty,notblank"`
	Explanation *string `json:"explanation,omitempty"`
}

func (p CardPatch) Validate() error {
	return validateStruct(p)
}

func (p CardPatch) Apply(c *Card) {
	if p.Question != nil {
		c.Question = *p.Question
	}
	if p.Answer != nil {
		c.Answer = *p.Answer
	}
	if p.Explanation != nil {
		c.Explanation = *p.Explanation
	}
}
