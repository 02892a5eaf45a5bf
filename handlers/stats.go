package handlers

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/stats"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// dataset loads every table the statistics read.
func (db *DBHandler) dataset(ctx context.Context) (stats.Dataset, error) {
	var d stats.Dataset
	tx := db.WithContext(ctx)
	steps := []*gorm.DB{
		tx.Order("id").Find(&d.Concepts),
		tx.Order("id").Find(&d.Cards),
		tx.Order("id").Find(&d.Reviews),
		tx.Order("id").Find(&d.History),
	}
	for _, step := range steps {
		if step.Error != nil {
			return stats.Dataset{}, step.Error
		}
	}
	return d, nil
}

// GET /api/stats/learning-stats
func (db *DBHandler) LearningStats(w http.ResponseWriter, r *http.Request) {
	d, err := db.dataset(r.Context())
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, stats.Learning(d))
}

// GET /api/stats/concept-stats/{conceptID}
func (db *DBHandler) ConceptStats(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathID(r, "conceptID")
	if err != nil {
		db.fail(w, r, err)
		return
	}
	d, err := db.dataset(r.Context())
	if err != nil {
		db.fail(w, r, err)
		return
	}
	out, err := stats.Concept(d, id)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, out)
}

// GET /api/stats/review-stats?start_date=&end_date=
func (db *DBHandler) ReviewStats(w http.ResponseWriter, r *http.Request) {
	var rng models.ReviewRange
	var err error
	if rng.Start, err = utils.QueryTime(r, "start_date"); err != nil {
		db.fail(w, r, err)
		return
	}
	if rng.End, err = utils.QueryTime(r, "end_date"); err != nil {
		db.fail(w, r, err)
		return
	}

	var reviews []models.Review
	if err := db.WithContext(r.Context()).Order("id").Find(&reviews).Error; err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, stats.Reviews(reviews, rng, db.now()))
}

// GET /api/stats/progress-stats
func (db *DBHandler) ProgressStats(w http.ResponseWriter, r *http.Request) {
	d, err := db.dataset(r.Context())
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, stats.Progress(d, db.now()))
}
