package llm

import (
	"fmt"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// Canned answers for the sample concepts, used whenever no model answers.
var (
	cannedExplanations = map[string]string{
		"Software Engineering":  "Software engineering is the systematic, disciplined and quantifiable approach to the development, operation and maintenance of software. Its goal is to build high quality software cost-effectively.",
		"Requirements Analysis": "Requirements analysis is the process of understanding and documenting the problem a piece of software has to solve. It identifies what users need and states it precisely so development has a firm foundation.",
		"Algorithms":            "An algorithm is a well defined, step by step procedure for solving a problem. It describes how an input is turned into an output.",
		"Data Structures":       "Data structures are formats for storing, organizing and managing data efficiently. Arrays, linked lists, stacks, queues, trees and graphs are common examples.",
	}

	cannedQuestions = map[string]models.LLMQuestion{
		"Software Engineering": {
			Question:    "List the main phases of the software development life cycle (SDLC).",
			Answer:      "Requirements analysis, design, implementation, testing, deployment, maintenance.",
			Explanation: "The SDLC is a framework for managing software development systematically. Each phase has its own activities and deliverables.",
		},
		"Requirements Analysis": {
			Question:    "What is the difference between functional and non-functional requirements?",
			Answer:      "Functional requirements state what the system must do, non-functional requirements state quality attributes such as performance, security and usability.",
			Explanation: "Functional requirements focus on what the system does, non-functional requirements on how well it does it.",
		},
		"Algorithms": {
			Question:    "Which sorting algorithms run in O(n log n) time?",
			Answer:      "Quicksort, merge sort, heap sort.",
			Explanation: "These algorithms run in O(n log n) on average and handle large inputs efficiently.",
		},
	}

	cannedSuggestions = map[string][]models.ConceptSuggestion{
		"Software Engineering": {
			{Name: "Requirements Analysis", Relation: "sub-concept"},
			{Name: "Software Design", Relation: "sub-concept"},
			{Name: "Software Testing", Relation: "sub-concept"},
			{Name: "Maintenance", Relation: "sub-concept"},
		},
		"Requirements Analysis": {
			{Name: "Software Engineering", Relation: "parent concept"},
			{Name: "Use Cases", Relation: "technique"},
			{Name: "Requirements Specification", Relation: "deliverable"},
		},
		"Algorithms": {
			{Name: "Time Complexity", Relation: "measure"},
			{Name: "Sorting Algorithms", Relation: "sub-concept"},
			{Name: "Search Algorithms", Relation: "sub-concept"},
			{Name: "Graph Algorithms", Relation: "sub-concept"},
		},
	}
)

// PlaceholderExplanation is the explanation given when no model is reachable.
func PlaceholderExplanation(concept string) *models.LLMResponse {
	if text, ok := cannedExplanations[concept]; ok {
		return &models.LLMResponse{Response: text}
	}
	return &models.LLMResponse{
		Response: fmt.Sprintf("%s is an important concept. A detailed explanation is not available while the LLM service is offline.", concept),
	}
}

func PlaceholderQuestion(concept string) *models.LLMQuestion {
	if q, ok := cannedQuestions[concept]; ok {
		return &q
	}
	return &models.LLMQuestion{
		Question:    fmt.Sprintf("What are the main characteristics of %s?", concept),
		Answer:      fmt.Sprintf("The main characteristics of %s are its scope and the problems it addresses.", concept),
		Explanation: fmt.Sprintf("%s applies in many situations. Generate this question again once the LLM service is online for a better one.", concept),
	}
}

func PlaceholderSuggestions(concept string) *models.LLMSuggestions {
	if s, ok := cannedSuggestions[concept]; ok {
		return &models.LLMSuggestions{Concepts: append([]models.ConceptSuggestion{}, s...)}
	}
	return &models.LLMSuggestions{Concepts: []models.ConceptSuggestion{
		{Name: concept + " fundamentals", Relation: "prerequisite"},
		{Name: concept + " applications", Relation: "follow-up"},
		{Name: concept + " examples", Relation: "related concept"},
	}}
}

func PlaceholderChat(message string) *models.LLMResponse {
	return &models.LLMResponse{
		Response: fmt.Sprintf("This is a reply to %q. The LLM service is not connected, so a detailed answer cannot be given right now.", message),
	}
}

// OfflineHealth reports the LLM as unreachable.
func OfflineHealth() *models.LLMHealth {
	return &models.LLMHealth{Status: models.LLMOffline, Message: "The LLM service cannot be reached."}
}
