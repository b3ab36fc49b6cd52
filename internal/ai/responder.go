package ai

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Responder produces the assistant side of a conversation turn. Both modes,
// the local mock and the live Azure deployment, satisfy it; implementations
// always return a usable reply string and fold their own failures into the
// fixed apology texts.
type Responder interface {
	// CompetencyEvaluation produces a structured competency report for the
	// student's message.
	CompetencyEvaluation(ctx context.Context, message string) string

	// GeneralResponse produces an open-conversation reply to the message.
	GeneralResponse(ctx context.Context, message string) string
}

// ErrMessageTooLong is returned when an input exceeds the configured rune
// budget.
var ErrMessageTooLong = errors.New("message exceeds maximum length")

// ErrEmptyMessage is returned for inputs that are empty.
var ErrEmptyMessage = errors.New("message is empty")

// ValidateMessageLength enforces the input budget in Unicode code points,
// not bytes, so multibyte text is not penalized. maxRunes <= 0 disables the
// upper bound.
func ValidateMessageLength(message string, maxRunes int) error {
	if message == "" {
		return ErrEmptyMessage
	}
	if maxRunes > 0 && utf8.RuneCountInString(message) > maxRunes {
		return fmt.Errorf("%w: %d runes over limit %d", ErrMessageTooLong, utf8.RuneCountInString(message), maxRunes)
	}
	return nil
}

// ListCompetencies exposes the catalog entries in their fixed order, for
// clients that render the evaluation rubric.
func ListCompetencies(c Catalog) []Competency {
	out := make([]Competency, len(c.Competencies))
	copy(out, c.Competencies)
	return out
}
