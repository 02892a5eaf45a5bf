package llm

import (
	"fmt"
	"strings"
)

var difficultyLevels = map[int]string{
	1: "an easy question about the basic definition of the concept",
	2: "a question about the main characteristics and basic applications",
	3: "an intermediate question about details and relations to other concepts",
	4: "a challenging question about complex aspects and real applications",
	5: "a hard question requiring advanced application and critical analysis",
}

func explainPrompt(concept string, context *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `You are an AI tutor. Give a clear, educational explanation of the following concept.

Concept: %s

Answer in this structure:
1. A short definition (1-2 sentences)
2. Why it matters or where it is used (2-3 sentences)
3. Main characteristics or components (3-5 items)
4. Related concepts (2-3)

Explanation:`, concept)
	if context != nil && *context != "" {
		fmt.Fprintf(&b, "\n\nAdditional context: %s", *context)
	}
	return b.String()
}

func questionPrompt(concept string, difficulty int) string {
	return fmt.Sprintf(`You write learning material. Create one study question about the following concept.

Concept: %s
Difficulty: %d/5 (%s)

1. The question must test how well the student understands the concept.
2. The answer must be clear and correct.
3. The explanation must help the student understand the concept more deeply.

Reply with JSON only, in this form:
{
  "question": "the question",
  "answer": "the answer",
  "explanation": "the explanation"
}`, concept, difficulty, difficultyLevels[difficulty])
}

func suggestPrompt(concept string) string {
	return fmt.Sprintf(`You are an education expert. Suggest five concepts related to the following concept.

Concept: %s

Cover prerequisites (what to know first), follow-ups (what to learn next) and similar concepts.

Reply with JSON only, in this form:
{
  "concepts": [
    {"name": "related concept", "relation": "how it relates"}
  ]
}`, concept)
}

const chatSystemPrompt = "You are a friendly AI tutor helping a student study. Answer concisely and accurately."
