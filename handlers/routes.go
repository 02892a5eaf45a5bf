package handlers

import "net/http"

// Register mounts every API route on mux.
func (db *DBHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/concepts/{$}", db.ListConcepts)
	mux.HandleFunc("POST /api/concepts/{$}", db.CreateConcept)
	mux.HandleFunc("GET /api/concepts/{conceptID}", db.GetConcept)
	mux.HandleFunc("PUT /api/concepts/{conceptID}", db.UpdateConcept)
	mux.HandleFunc("DELETE /api/concepts/{conceptID}", db.DeleteConcept)
	mux.HandleFunc("GET /api/concepts/{conceptID}/connections", db.ListConceptConnections)

	mux.HandleFunc("GET /api/connections/{$}", db.ListConnections)
	mux.HandleFunc("POST /api/connections/{$}", db.CreateConnection)
	mux.HandleFunc("GET /api/connections/{connectionID}", db.GetConnection)
	mux.HandleFunc("PUT /api/connections/{connectionID}", db.UpdateConnection)
	mux.HandleFunc("DELETE /api/connections/{connectionID}", db.DeleteConnection)

	mux.HandleFunc("GET /api/cards/{$}", db.ListCards)
	mux.HandleFunc("POST /api/cards/{$}", db.CreateCard)
	mux.HandleFunc("GET /api/cards/{cardID}", db.GetCard)
	mux.HandleFunc("PUT /api/cards/{cardID}", db.UpdateCard)
	mux.HandleFunc("DELETE /api/cards/{cardID}", db.DeleteCard)

	mux.HandleFunc("GET /api/reviews/{$}", db.ListReviews)
	mux.HandleFunc("GET /api/reviews/due", db.DueReviews)
	mux.HandleFunc("POST /api/reviews/{$}", db.CreateReview)

	mux.HandleFunc("GET /api/notes/{$}", db.ListNotes)
	mux.HandleFunc("POST /api/notes/{$}", db.CreateNote)
	mux.HandleFunc("GET /api/notes/{noteID}", db.GetNote)
	mux.HandleFunc("PUT /api/notes/{noteID}", db.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{noteID}", db.DeleteNote)

	mux.HandleFunc("GET /api/graph", db.Graph)

	mux.HandleFunc("GET /api/stats/learning-stats", db.LearningStats)
	mux.HandleFunc("GET /api/stats/concept-stats/{conceptID}", db.ConceptStats)
	mux.HandleFunc("GET /api/stats/review-stats", db.ReviewStats)
	mux.HandleFunc("GET /api/stats/progress-stats", db.ProgressStats)

	mux.HandleFunc("GET /api/llm/health", db.LLMHealth)
	mux.HandleFunc("POST /api/llm/explain", db.Explain)
	mux.HandleFunc("POST /api/llm/generate-question", db.GenerateQuestion)
	mux.HandleFunc("POST /api/llm/suggest-concepts", db.SuggestConcepts)
	mux.HandleFunc("POST /api/llm/chat", db.Chat)
}
