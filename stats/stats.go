// Package stats computes the dashboard statistics from plain records. The
// backend feeds it rows loaded through gorm and the local mirror feeds it its
// own snapshot, so both report the same numbers for the same data.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/srs"
)

const (
	dailyWindowDays   = 30
	monthlyWindow     = 12
	recentActivityCap = 10
)

// retention is a rough estimate of how much is remembered per difficulty
var retention = map[int]float64{
	1: 0.6,
	2: 0.7,
	3: 0.8,
	4: 0.9,
	5: 0.95,
}

// Dataset is everything the statistics are computed from.
type Dataset struct {
	Concepts []models.Concept
	Cards    []models.Card
	Reviews  []models.Review
	History  []models.LearningHistory
}

func Learning(d Dataset) models.LearningStats {
	byDifficulty := map[int]int{}
	for _, r := range d.Reviews {
		byDifficulty[r.Difficulty]++
	}
	distribution := make([]models.DifficultyCount, 0, len(byDifficulty))
	for diff, n := range byDifficulty {
		distribution = append(distribution, models.DifficultyCount{Difficulty: diff, Count: n})
	}
	sort.Slice(distribution, func(i, j int) bool {
		return distribution[i].Difficulty < distribution[j].Difficulty
	})

	byType := map[string]int{}
	for _, h := range d.History {
		byType[h.ActivityType]++
	}
	activities := make([]models.ActivityCount, 0, len(byType))
	for typ, n := range byType {
		activities = append(activities, models.ActivityCount{Type: typ, Count: n})
	}
	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Type < activities[j].Type
	})

	return models.LearningStats{
		TotalConcepts:   len(d.Concepts),
		TotalCards:      len(d.Cards),
		TotalReviews:    len(d.Reviews),
		DifficultyStats: models.DifficultyStats{Distribution: distribution},
		ActivityStats:   activities,
	}
}

// Concept returns the statistics of one concept, or ErrNotFound.
func Concept(d Dataset, conceptID uint) (models.ConceptStats, error) {
	var concept *models.Concept
	for i := range d.Concepts {
		if d.Concepts[i].ID == conceptID {
			concept = &d.Concepts[i]
			break
		}
	}
	if concept == nil {
		return models.ConceptStats{}, apperrors.NotFound("concept", conceptID)
	}

	owned := map[uint]bool{}
	for _, c := range d.Cards {
		if c.ConceptID == conceptID {
			owned[c.ID] = true
		}
	}

	reviews, sum := 0, 0
	for _, r := range d.Reviews {
		if owned[r.CardID] {
			reviews++
			sum += r.Difficulty
		}
	}
	avg := 0.0
	if reviews > 0 {
		avg = round2(float64(sum) / float64(reviews))
	}

	var history []models.LearningHistory
	for _, h := range d.History {
		if h.ConceptID == conceptID {
			history = append(history, h)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CreatedAt.After(history[j].CreatedAt)
	})
	if len(history) > recentActivityCap {
		history = history[:recentActivityCap]
	}
	recent := make([]models.ActivityItem, 0, len(history))
	for _, h := range history {
		recent = append(recent, models.ActivityItem{ID: h.ID, Type: h.ActivityType, CreatedAt: h.CreatedAt})
	}

	return models.ConceptStats{
		ConceptID:        conceptID,
		ConceptName:      concept.Name,
		CardsCount:       len(owned),
		ReviewsCount:     reviews,
		AvgDifficulty:    avg,
		RecentActivities: recent,
	}, nil
}

// Reviews summarizes the reviews created inside rng: one bucket per day for
// the 30 days ending today (today first) and the share of every difficulty.
func Reviews(all []models.Review, rng models.ReviewRange, now time.Time) models.ReviewStats {
	var reviews []models.Review
	for _, r := range all {
		if !rng.Start.IsZero() && r.CreatedAt.Before(rng.Start) {
			continue
		}
		if !rng.End.IsZero() && r.CreatedAt.After(rng.End) {
			continue
		}
		reviews = append(reviews, r)
	}

	loc := now.Location()
	type bucket struct{ count, sum int }
	buckets := make(map[string]*bucket, dailyWindowDays)
	days := make([]string, 0, dailyWindowDays)
	today := startOfDay(now)
	for i := 0; i < dailyWindowDays; i++ {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		buckets[day] = &bucket{}
		days = append(days, day)
	}

	counts := map[int]int{}
	for _, r := range reviews {
		if b, ok := buckets[r.CreatedAt.In(loc).Format(time.DateOnly)]; ok {
			b.count++
			b.sum += r.Difficulty
		}
		if r.Difficulty >= srs.MinDifficulty && r.Difficulty <= srs.MaxDifficulty {
			counts[r.Difficulty]++
		}
	}

	daily := make([]models.DailyReviewStats, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		avg := 0.0
		if b.count > 0 {
			avg = round2(float64(b.sum) / float64(b.count))
		}
		daily = append(daily, models.DailyReviewStats{Date: day, Count: b.count, AvgDifficulty: avg})
	}

	total := len(reviews)
	ret := make([]models.RetentionStats, 0, srs.MaxDifficulty)
	for diff := srs.MinDifficulty; diff <= srs.MaxDifficulty; diff++ {
		pct := 0.0
		if total > 0 {
			pct = round2(float64(counts[diff]) / float64(total) * 100)
		}
		ret = append(ret, models.RetentionStats{
			Difficulty:         diff,
			Count:              counts[diff],
			Percentage:         pct,
			EstimatedRetention: retention[diff],
		})
	}

	return models.ReviewStats{
		TotalReviews:   total,
		DailyStats:     daily,
		RetentionStats: ret,
	}
}

// Progress reports how much of the material has been touched. Cards due
// today are counted on the current schedule of every card.
func Progress(d Dataset, now time.Time) models.ProgressStats {
	learned := map[uint]bool{}
	for _, h := range d.History {
		learned[h.ConceptID] = true
	}
	reviewed := map[uint]bool{}
	for _, r := range d.Reviews {
		reviewed[r.CardID] = true
	}

	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	dueToday := 0
	for _, r := range srs.CurrentSchedules(d.Reviews) {
		if !r.NextReviewDate.Before(today) && r.NextReviewDate.Before(tomorrow) {
			dueToday++
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly := make([]models.MonthlyActivity, 0, monthlyWindow)
	for i := 0; i < monthlyWindow; i++ {
		start := monthStart.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		m := models.MonthlyActivity{Month: start.Format("2006-01")}
		for _, h := range d.History {
			if inRange(h.CreatedAt, start, end) {
				m.LearningCount++
			}
		}
		for _, r := range d.Reviews {
			if inRange(r.CreatedAt, start, end) {
				m.ReviewCount++
			}
		}
		monthly = append(monthly, m)
	}

	return models.ProgressStats{
		TotalConcepts:     len(d.Concepts),
		LearnedConcepts:   len(learned),
		LearningProgress:  percent(len(learned), len(d.Concepts)),
		TotalCards:        len(d.Cards),
		ReviewedCards:     len(reviewed),
		ReviewProgress:    percent(len(reviewed), len(d.Cards)),
		DueToday:          dueToday,
		MonthlyActivities: monthly,
	}
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
