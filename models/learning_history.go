package models

import "time"

const (
	ActivityLearning = "learning"
	ActivityReview   = "review"
	ActivityNote     = "note"
)

// LearningHistory records a learning activity against a concept
type LearningHistory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ConceptID    uint      `gorm:"not null;index" json:"concept_id"`
	ActivityType string    `gorm:"not null;size:20" json:"activity_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (LearningHistory) TableName() string {
	return "learning_history"
}
