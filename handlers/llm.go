package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/andrewpaige1/nodebook-graph/apperrors"
	"github.com/andrewpaige1/nodebook-graph/models"
	"github.com/andrewpaige1/nodebook-graph/utils"
)

// GET /api/llm/health
func (db *DBHandler) LLMHealth(w http.ResponseWriter, r *http.Request) {
	health, _ := db.LLM.Health(r.Context())
	db.respond(w, r, http.StatusOK, health)
}

// POST /api/llm/explain
// A concept_id in the request records a learning activity for that concept.
func (db *DBHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req models.LLMRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		db.fail(w, r, err)
		return
	}
	out, err := db.LLM.Explain(r.Context(), req)
	if err != nil {
		db.fail(w, r, err)
		return
	}

	if req.ConceptID != 0 {
		db.recordLearning(r, req.ConceptID)
	}
	db.respond(w, r, http.StatusOK, out)
}

// POST /api/llm/generate-question
func (db *DBHandler) GenerateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.LLMRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		db.fail(w, r, err)
		return
	}
	out, err := db.LLM.GenerateQuestion(r.Context(), req)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, out)
}

// POST /api/llm/suggest-concepts
func (db *DBHandler) SuggestConcepts(w http.ResponseWriter, r *http.Request) {
	var req models.LLMRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		db.fail(w, r, err)
		return
	}
	out, err := db.LLM.SuggestConcepts(r.Context(), req)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, out)
}

// POST /api/llm/chat
func (db *DBHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		db.fail(w, r, err)
		return
	}
	out, err := db.LLM.Chat(r.Context(), req)
	if err != nil {
		db.fail(w, r, err)
		return
	}
	db.respond(w, r, http.StatusOK, out)
}

// recordLearning is best effort: the explanation is returned either way.
func (db *DBHandler) recordLearning(r *http.Request, conceptID uint) {
	tx := db.WithContext(r.Context())
	if _, err := first[models.Concept](tx, "concept", conceptID); err != nil {
		if !apperrors.IsNotFound(err) {
			db.Logger.Warn("failed to look up concept for learning activity", zap.Uint("concept_id", conceptID), zap.Error(err))
		}
		return
	}
	if err := recordActivity(tx, conceptID, models.ActivityLearning, db.now()); err != nil {
		db.Logger.Warn("failed to record learning activity", zap.Uint("concept_id", conceptID), zap.Error(err))
	}
}
