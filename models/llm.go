package models

// LLMRequest asks the tutor about a concept. ConceptID is optional and, when
// set, lets the backend record a learning activity.
type LLMRequest struct {
	Concept    string  `json:"concept" validate:"required"`
	Context    *string `json:"context"`
	ConceptID  uint    `json:"concept_id,omitempty"`
	Difficulty int     `json:"difficulty,omitempty"`
}

func (r LLMRequest) Validate() error {
	return validateStruct(r)
}

type LLMResponse struct {
	Response string `json:"response"`
}

type LLMQuestion struct {
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation,omitempty"`
}

type ConceptSuggestion struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
}

type LLMSuggestions struct {
	Concepts []ConceptSuggestion `json:"concepts"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message" validate:"required"`
	History []ChatMessage `json:"history"`
}

func (r ChatRequest) Validate() error {
	return validateStruct(r)
}

const (
	LLMOnline  = "online"
	LLMOffline = "offline"
)

type LLMHealth struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
