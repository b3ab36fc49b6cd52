package ai

import (
	"fmt"
	"strings"
)

// User-safe failure strings. Any upstream generation failure is translated
// into one of these at the responder boundary and never surfaces as an error.
const (
	evaluationApology = "We're sorry - an error occurred while running the competency evaluation. Please wait a moment and try again."
	generalApology    = "We're sorry - a system error occurred. Please wait a moment and try again."
)

// buildEvaluationSystemPrompt renders the competency-evaluation template:
// the assistant persona, the full catalog with definitions, the course
// context, and the scoring/format instructions the model must follow.
func buildEvaluationSystemPrompt(c Catalog) string {
	var b strings.Builder

	b.WriteString(c.SystemRole)
	b.WriteString("\n\n## Competency definitions\nThe university emphasizes the following competencies:\n\n")
	for _, comp := range c.Competencies {
		fmt.Fprintf(&b, "- %s: %s\n", comp.Label, comp.Description)
	}

	b.WriteString(`
## Course context
- Course: Peer Support Theory
- Learning methods: group discussion, pair work, experiential learning, reflection activities
- Key concepts: peer support, counseling mindset, active listening, empathy, self-disclosure

## Evaluation guidelines
1. Identify the 2-3 competencies most strongly demonstrated in the student's input
2. Score each on a 5-point scale (1: not demonstrated - 5: excellent)
3. Provide constructive, specific feedback
4. Include suggestions that lead into the next stage of learning

## Response format
[Competency Evaluation Results]

- [competency] (star rating) ([score]/5)
- [competency] (star rating) ([score]/5)

[Summary]
[overall evaluation and growth points]

[Advice for Future Learning]
[specific suggestions]
`)
	return b.String()
}

// buildEvaluationUserPrompt wraps the student's reflection in the fixed
// evaluation framing.
func buildEvaluationUserPrompt(message string) string {
	return fmt.Sprintf(`The following is a student's description of their experiences and learning in the Peer Support Theory course.
Evaluate the competencies demonstrated by this input.

[Student input]
%s

From the content above, evaluate the competencies that are particularly well demonstrated and provide constructive feedback.
`, message)
}

// buildGeneralSystemPrompt renders the open-conversation template,
// enumerating in-scope and out-of-scope topics.
func buildGeneralSystemPrompt(c Catalog) string {
	return c.SystemRole + `

You support students' learning and provide appropriate help with questions and concerns related to the course.

## In scope
- Questions about the Peer Support Theory course content
- Counseling fundamentals
- Communication techniques
- Concerns about group work
- General study advice

## Out of scope
- Real-time information (weather, latest news, and so on)
- Individual grades or evaluations
- Other students' personal information
- Internal confidential university information

Respond warmly and supportively, in a positive tone that encourages the student's motivation to learn.
`
}
