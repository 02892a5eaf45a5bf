package models

import "time"

type DifficultyCount struct {
	Difficulty int `json:"difficulty"`
	Count      int `json:"count"`
}

type DifficultyStats struct {
	Distribution []DifficultyCount `json:"distribution"`
}

type ActivityCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// LearningStats is the dashboard summary over everything
type LearningStats struct {
	TotalConcepts   int             `json:"total_concepts"`
	TotalCards      int             `json:"total_cards"`
	TotalReviews    int             `json:"total_reviews"`
	DifficultyStats DifficultyStats `json:"difficulty_stats"`
	ActivityStats   []ActivityCount `json:"activity_stats"`
}

type ActivityItem struct {
	ID        uint      `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type ConceptStats struct {
	ConceptID        uint           `json:"concept_id"`
	ConceptName      string         `json:"concept_name"`
	CardsCount       int            `json:"cards_count"`
	ReviewsCount     int            `json:"reviews_count"`
	AvgDifficulty    float64        `json:"avg_difficulty"`
	RecentActivities []ActivityItem `json:"recent_activities"`
}

type DailyReviewStats struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	Count         int     `json:"count"`
	AvgDifficulty float64 `json:"avg_difficulty"`
}

type RetentionStats struct {
	Difficulty         int     `json:"difficulty"`
	Count              int     `json:"count"`
	Percentage         float64 `json:"percentage"`
	EstimatedRetention float64 `json:"estimated_retention"`
}

type ReviewStats struct {
	TotalReviews   int                `json:"total_reviews"`
	DailyStats     []DailyReviewStats `json:"daily_stats"`
	RetentionStats []RetentionStats   `json:"retention_stats"`
}

// ReviewRange bounds a review statistics query. Zero times are open ends.
type ReviewRange struct {
	Start time.Time
	End   time.Time
}

type MonthlyActivity struct {
	Month         string `json:"month"` // YYYY-MM
	LearningCount int    `json:"learning_count"`
	ReviewCount   int    `json:"review_count"`
}

type ProgressStats struct {
	TotalConcepts     int               `json:"total_concepts"`
	LearnedConcepts   int               `json:"learned_concepts"`
	LearningProgress  float64           `json:"learning_progress"` // percent
	TotalCards        int               `json:"total_cards"`
	ReviewedCards     int               `json:"reviewed_cards"`
	ReviewProgress    float64           `json:"review_progress"` // percent
	DueToday          int               `json:"due_today"`
	MonthlyActivities []MonthlyActivity `json:"monthly_activities"`
}
