package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/llm"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

type DBHandler struct {
	*gorm.DB
	Logger *zap.Logger
	LLM    *llm.Service
	Now    func() time.Time
}

func NewDBHandler(db *gorm.DB, tutor *llm.Service, log *zap.Logger) *DBHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &DBHandler{DB: db, Logger: log, LLM: tutor, Now: time.Now}
}

func (db *DBHandler) now() time.Time {
	if db.Now == nil {
		return time.Now().UTC()
	}
	return db.Now().UTC()
}

// respond writes v with status, logging encode failures.
func (db *DBHandler) respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := utils.WriteJSON(w, status, v); err != nil {
		db.Logger.Warn("failed to encode response", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func deleted(resource string) map[string]string {
	return map[string]string{"message": resource + " deleted successfully"}
}

// fail maps err onto a status code and writes it as a detail body.
func (db *DBHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		db.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteError(w, status, "internal server error")
		return
	}
	utils.WriteError(w, status, err.Error())
}

func statusOf(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// first loads the record with id or returns a not found error naming it.
func first[T any](tx *gorm.DB, resource string, id uint) (*T, error) {
	var out T
	if err := tx.First(&out, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(resource, id)
		}
		return nil, err
	}
	return &out, nil
}

func recordActivity(tx *gorm.DB, conceptID uint, activity string, at time.Time) error {
	return tx.Create(&models.LearningHistory{
		ConceptID:    conceptID,
		ActivityType: activity,
		CreatedAt:    at,
	}).Error
}
