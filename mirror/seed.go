package mirror

import (
	"time"

	"github.com/andrewpaige1/nodebook-graph/models"
)

// Seed is the sample data written into empty namespaces
type Seed struct {
	Concepts    []models.Concept
	Connections []models.Connection
	Cards       []models.Card
	Notes       []models.Note
}

func (s *Seed) namespace(ns string) any {
	switch ns {
	case nsConcepts:
		return s.Concepts
	case nsConnections:
		return s.Connections
	case nsCards:
		return s.Cards
	case nsNotes:
		return s.Notes
	default:
		return nil
	}
}

// DefaultSeed is a small software engineering concept graph.
func DefaultSeed(now time.Time) Seed {
	concept := func(id uint, name, description string) models.Concept {
		return models.Concept{ID: id, Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
	}
	connection := func(id, source, target uint, relation string) models.Connection {
		return models.Connection{ID: id, SourceID: source, TargetID: target, Relation: relation, Strength: models.DefaultStrength, CreatedAt: now}
	}
	card := func(id, conceptID uint, question, answer, explanation string) models.Card {
		return models.Card{ID: id, ConceptID: conceptID, Question: question, Answer: answer, Explanation: explanation, CreatedAt: now, UpdatedAt: now}
	}

	return Seed{
		Concepts: []models.Concept{
			concept(1, "Software Engineering", "The systematic approach to the development, operation and maintenance of software."),
			concept(2, "Requirements Analysis", "Understanding and documenting the problem the software has to solve."),
			concept(3, "Algorithms", "Well defined step by step procedures that turn an input into an output."),
			concept(4, "Data Structures", "Formats for storing and organizing data so it can be used efficiently."),
		},
		Connections: []models.Connection{
			connection(1, 1, 2, "sub-concept"),
			connection(2, 3, 4, "related concept"),
			connection(3, 1, 3, "related concept"),
		},
		Cards: []models.Card{
			card(1, 1, "List the main phases of the software development life cycle.",
				"Requirements analysis, design, implementation, testing, deployment, maintenance.",
				"The life cycle structures development into phases with their own activities and deliverables."),
			card(2, 2, "What is the difference between functional and non-functional requirements?",
				"Functional requirements state what the system does, non-functional ones state qualities such as performance or security.",
				""),
			card(3, 3, "Name sorting algorithms that run in O(n log n).",
				"Quicksort (average case), merge sort, heap sort.",
				"They are the usual choice for large inputs."),
		},
	}
}
