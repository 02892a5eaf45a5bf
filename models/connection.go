package models

import "time"

// DefaultStrength is the visual weight of a connection created without one
const DefaultStrength = 1.0

// Connection is a directed, labeled relation between two concepts
type Connection struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SourceID  uint      `gorm:"not null;index" json:"source_id"` // References Concept
	TargetID  uint      `gorm:"not null;index" json:"target_id"` // References Concept
	Relation  string    `gorm:"size:200" json:"relation"`
	Strength  float64   `gorm:"not null" json:"strength"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Touches reports whether the connection has conceptID at either end.
func (c Connection) Touches(conceptID uint) bool {
	return c.SourceID == conceptID || c.TargetID == conceptID
}

type ConnectionInput struct {
	SourceID uint     `json:"source_id" validate:"required,nefield=TargetID"`
	TargetID uint     `json:"target_id" validate:"required"`
	Relation string   `json:"relation" validate:"max=200"`
	Strength *float64 `json:"strength,omitempty" validate:"omitempty,gte=0"`
}

func (in ConnectionInput) Validate() error {
	return validateStruct(in)
}

// Build returns the connection described by in, defaulting the strength.
func (in ConnectionInput) Build() Connection {
	strength := DefaultStrength
	if in.Strength != nil {
		strength = *in.Strength
	}
	return Connection{
		SourceID: in.SourceID,
		TargetID: in.TargetID,
		Relation: in.Relation,
		Strength: strength,
	}
}

type ConnectionPatch struct {
	Relation *string  `json:"relation,omitempty" validate:"omitempty,max=200"`
	Strength *float64 `json:"strength,omitempty" validate:"omitempty,gte=0"`
}

func (p ConnectionPatch) Validate() error {
	return validateStruct(p)
}

func (p ConnectionPatch) Apply(c *Connection) {
	if p.Relation != nil {
		c.Relation = *p.Relation
	}
	if p.Strength != nil {
		c.Strength = *p.Strength
	}
}

// ConnectionFilter narrows a connection listing. Zero fields do not filter.
type ConnectionFilter struct {
	SourceID uint
	TargetID uint
}

func (f ConnectionFilter) Match(c Connection) bool {
	if f.SourceID != 0 && c.SourceID != f.SourceID {
		return false
	}
	if f.TargetID != 0 && c.TargetID != f.TargetID {
		return false
	}
	return true
}

func (f ConnectionFilter) IsZero() bool {
	return f.SourceID == 0 && f.TargetID == 0
}
