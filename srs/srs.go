// Package srs implements the fixed-interval spaced repetition policy and the
// reduction of the append-only review log to one current schedule per card.
package srs

import (
	"fmt"
	"sort"
	"time"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
)

const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// intervals maps a difficulty rating to the days until the next review.
// Hard (1, 2) returns tomorrow, medium (3) in three days, easy (4, 5) in a week.
var intervals = [...]int{1: 1, 2: 1, 3: 3, 4: 7, 5: 7}

// Interval returns the number of days until the next review for difficulty.
func Interval(difficulty int) (int, error) {
	if difficulty < MinDifficulty || difficulty > MaxDifficulty {
		return 0, fmt.Errorf("difficulty %d: %w", difficulty, apperrors.ErrInvalidDifficulty)
	}
	return intervals[difficulty], nil
}

// NextReviewDate returns from shifted by the interval for difficulty, in
// calendar days.
func NextReviewDate(difficulty int, from time.Time) (time.Time, error) {
	days, err := Interval(difficulty)
	if err != nil {
		return time.Time{}, err
	}
	return from.AddDate(0, 0, days), nil
}

// CurrentSchedules keeps the most recent review of every card. Recency is
// decided by CreatedAt and, on equal timestamps, by the higher ID. The result
// is ordered by NextReviewDate, then CardID.
func CurrentSchedules(reviews []models.Review) []models.Review {
	latest := make(map[uint]models.Review, len(reviews))
	for _, r := range reviews {
		cur, ok := latest[r.CardID]
		if !ok || newer(r, cur) {
			latest[r.CardID] = r
		}
	}

	out := make([]models.Review, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextReviewDate.Equal(out[j].NextReviewDate) {
			return out[i].NextReviewDate.Before(out[j].NextReviewDate)
		}
		return out[i].CardID < out[j].CardID
	})
	return out
}

// Due returns the current schedules whose next review is at or before now.
func Due(reviews []models.Review, now time.Time) []models.Review {
	current := CurrentSchedules(reviews)
	due := current[:0]
	for _, r := range current {
		if !r.NextReviewDate.After(now) {
			due = append(due, r)
		}
	}
	return due
}

func newer(a, b models.Review) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
