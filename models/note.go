package models

import "time"

// Note is a markdown note attached to a concept
type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ConceptID uint      `gorm:"not null;index" json:"concept_id"`
	Title     string    `gorm:"not null;size:200" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NoteInput struct {
	ConceptID uint   `json:"concept_id" validate:"required"`
	Title     string `json:"title" validate:"required,notblank,max=200"`
	Content   string `json:"content"`
}

func (in NoteInput) Validate() error {
	return validateStruct(in)
}

type NotePatch struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Content *string `json:"content,omitempty"`
}

func (p NotePatch) Validate() error {
	return validateStruct(p)
}

func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
}
