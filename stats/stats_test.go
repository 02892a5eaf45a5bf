package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

var now = time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC)

func fixture() Dataset {
	return Dataset{
		Concepts: []models.Concept{
			{ID: 1, Name: "Algorithms"},
			{ID: 2, Name: "Data Structures"},
			{ID: 3, Name: "Graphs"},
			{ID: 4, Name: "Sorting"},
		},
		Cards: []models.Card{
			{ID: 1, ConceptID: 1},
			{ID: 2, ConceptID: 1},
			{ID: 3, ConceptID: 2},
		},
		Reviews: []models.Review{
			{ID: 1, CardID: 1, Difficulty: 2, CreatedAt: now.AddDate(0, 0, -1), NextReviewDate: now.AddDate(0, 0, -1).AddDate(0, 0, 1)},
			{ID: 2, CardID: 2, Difficulty: 5, CreatedAt: now, NextReviewDate: now.AddDate(0, 0, 7)},
			{ID: 3, CardID: 3, Difficulty: 3, CreatedAt: now.AddDate(0, -2, 0), NextReviewDate: now.AddDate(0, -2, 3)},
		},
		History: []models.LearningHistory{
			{ID: 1, ConceptID: 1, ActivityType: models.ActivityReview, CreatedAt: now.AddDate(0, 0, -1)},
			{ID: 2, ConceptID: 1, ActivityType: models.ActivityNote, CreatedAt: now},
			{ID: 3, ConceptID: 2, ActivityType: models.ActivityReview, CreatedAt: now.AddDate(0, -2, 0)},
		},
	}
}

func TestLearning_Totals(t *testing.T) {
	got := Learning(fixture())

	assert.Equal(t, 4, got.TotalConcepts)
	assert.Equal(t, 3, got.TotalCards)
	assert.Equal(t, 3, got.TotalReviews)
	assert.Equal(t, []models.DifficultyCount{
		{Difficulty: 2, Count: 1},
		{Difficulty: 3, Count: 1},
		{Difficulty: 5, Count: 1},
	}, got.DifficultyStats.Distribution)
	assert.Equal(t, []models.ActivityCount{
		{Type: models.ActivityNote, Count: 1},
		{Type: models.ActivityReview, Count: 2},
	}, got.ActivityStats)
}

func TestConcept_AveragesOwnedReviews(t *testing.T) {
	got, err := Concept(fixture(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Algorithms", got.ConceptName)
	assert.Equal(t, 2, got.CardsCount)
	assert.Equal(t, 2, got.ReviewsCount)
	assert.Equal(t, 3.5, got.AvgDifficulty)
	require.Len(t, got.RecentActivities, 2)
	assert.Equal(t, uint(2), got.RecentActivities[0].ID, "newest activity first")
}

func TestConcept_NotFound(t *testing.T) {
	_, err := Concept(fixture(), 99)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReviews_DailyWindowAndRetention(t *testing.T) {
	got := Reviews(fixture().Reviews, models.ReviewRange{}, now)

	assert.Equal(t, 3, got.TotalReviews)
	require.Len(t, got.DailyStats, 30)
	assert.Equal(t, "2026-05-20", got.DailyStats[0].Date)
	assert.Equal(t, 1, got.DailyStats[0].Count)
	assert.Equal(t, 5.0, got.DailyStats[0].AvgDifficulty)
	assert.Equal(t, "2026-05-19", got.DailyStats[1].Date)
	assert.Equal(t, 1, got.DailyStats[1].Count)

	require.Len(t, got.RetentionStats, 5)
	assert.Equal(t, 0.6, got.RetentionStats[0].EstimatedRetention)
	assert.Equal(t, 0.0, got.RetentionStats[0].Percentage)
	assert.Equal(t, 33.33, got.RetentionStats[1].Percentage)
	assert.Equal(t, 0.95, got.RetentionStats[4].EstimatedRetention)
}

func TestReviews_RangeFilter(t *testing.T) {
	rng := models.ReviewRange{Start: now.AddDate(0, 0, -7)}

	got := Reviews(fixture().Reviews, rng, now)

	assert.Equal(t, 2, got.TotalReviews)
	assert.Equal(t, 50.0, got.RetentionStats[4].Percentage)
}

func TestProgress(t *testing.T) {
	got := Progress(fixture(), now)

	assert.Equal(t, 2, got.LearnedConcepts)
	assert.Equal(t, 50.0, got.LearningProgress)
	assert.Equal(t, 3, got.ReviewedCards)
	assert.Equal(t, 100.0, got.ReviewProgress)
	assert.Equal(t, 1, got.DueToday, "only card 1 is scheduled for today")
	require.Len(t, got.MonthlyActivities, 12)
	assert.Equal(t, models.MonthlyActivity{Month: "2026-05", LearningCount: 2, ReviewCount: 2}, got.MonthlyActivities[0])
	assert.Equal(t, models.MonthlyActivity{Month: "2026-03", LearningCount: 1, ReviewCount: 1}, got.MonthlyActivities[2])
}

func TestProgress_EmptyDataset(t *testing.T) {
	got := Progress(Dataset{}, now)

	assert.Zero(t, got.LearningProgress)
	assert.Zero(t, got.ReviewProgress)
	assert.Zero(t, got.DueToday)
}
