package models

import (
	"time"
)

// Concept represents a learnable topic, a node in the concept graph
type Concept struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:200;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// RelatedConcept is a neighbor of a concept together with the label of the
// connection between them. It is derived from Connections, never stored.
type RelatedConcept struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

// ConceptDetail is a concept with its derived neighbors
type ConceptDetail struct {
	Concept
	RelatedConcepts []RelatedConcept `json:"related_concepts"`
}

// ConceptRef is the {id, name} pair joined onto records owned by a concept
type ConceptRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type ConceptInput struct {
	Name        string `json:"name" validate:"required,notblank,max=200"`
	Description string `json:"description"`
}

func (in ConceptInput) Validate() error {
	return validateStruct(in)
}

// ConceptPatch carries only the fields a caller wants to change
type ConceptPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description,omitempty"`
}

func (p ConceptPatch) Validate() error {
	return validateStruct(p)
}

// Apply merges the provided fields onto c.
func (p ConceptPatch) Apply(c *Concept) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}
