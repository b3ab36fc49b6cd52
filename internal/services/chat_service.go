// Package services – ChatService
//
// This file implements the ChatService, which orchestrates one chat turn:
// it validates the inbound message, dispatches to the response generator
// (competency evaluation or open conversation), and appends the completed
// turn to the persistence gateway. Persistence is best effort: a storage
// failure is logged and reported through the Saved flag, but the generated
// reply is still returned to the caller.
//
// Service-level errors (e.g., ErrEmptyMessage) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/campusmind/advising-backend/internal/ai"
	"github.com/campusmind/advising-backend/internal/domain"
	"github.com/campusmind/advising-backend/internal/store"
)

// History read bounds. Requests above MaxHistoryLimit are clamped, not
// rejected.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100
)

// SendInput is one inbound chat request after token verification.
type SendInput struct {
	// ChatID groups turns into one conversation. Empty means a new
	// conversation; a fresh id is generated.
	ChatID string
	// Message is the student's input text.
	Message string
	// Evaluation selects the competency-evaluation path instead of open
	// conversation.
	Evaluation bool
	// Session carries request metadata stored alongside the turn.
	Session domain.SessionInfo
}

// SendResult is the outcome of one chat turn.
type SendResult struct {
	ChatID     string
	Reply      string
	Evaluation bool
	Saved      bool
	Timestamp  time.Time
}

// ChatService coordinates the response generator and the persistence
// gateway for the chat endpoints.
type ChatService struct {
	// Store is the persistence gateway for chat turns.
	Store store.Store
	// Responder generates the assistant side of each turn.
	Responder ai.Responder

	// MaxMessageRunes caps inbound messages by rune length. Zero disables
	// the cap.
	MaxMessageRunes int
}

// NewChatService constructs a ChatService over the given backends.
func NewChatService(st store.Store, r ai.Responder, maxMessageRunes int) *ChatService {
	return &ChatService{Store: st, Responder: r, MaxMessageRunes: maxMessageRunes}
}

// Send runs one chat turn: validate, generate, persist best-effort.
// The reply is returned even when the append fails; Saved reports whether
// the turn was stored.
func (s *ChatService) Send(ctx context.Context, user domain.Identity, in SendInput) (*SendResult, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("user.id", user.ID),
			attribute.Bool("chat.evaluation", in.Evaluation),
		),
	)
	defer span.End()

	msg := strings.TrimSpace(in.Message)
	if err := ai.ValidateMessageLength(msg, s.MaxMessageRunes); err != nil {
		switch {
		case errors.Is(err, ai.ErrEmptyMessage):
			return nil, ErrEmptyMessage
		case errors.Is(err, ai.ErrMessageTooLong):
			return nil, ErrMessageTooLong
		default:
			return nil, err
		}
	}

	chatID := in.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}

	var reply string
	if in.Evaluation {
		reply = s.Responder.CompetencyEvaluation(ctx, msg)
	} else {
		reply = s.Responder.GeneralResponse(ctx, msg)
	}

	turn := domain.ChatTurn{
		ChatID:       chatID,
		UserID:       user.ID,
		UserMessage:  msg,
		AIResponse:   reply,
		IsEvaluation: in.Evaluation,
		Timestamp:    time.Now().UTC(),
		UserAgent:    in.Session.UserAgent,
		IPAddress:    in.Session.IPAddress,
	}

	saved := true
	if err := s.Store.AppendTurn(ctx, &turn); err != nil {
		saved = false
		log.Error().Err(err).
			Str("user_id", user.ID).
			Str("chat_id", chatID).
			Msg("chat turn not persisted")
	}

	return &SendResult{
		ChatID:     chatID,
		Reply:      reply,
		Evaluation: in.Evaluation,
		Saved:      saved,
		Timestamp:  turn.Timestamp,
	}, nil
}

// History returns the user's turns newest first. Out-of-range paging values
// are normalized: limit defaults to DefaultHistoryLimit, is clamped to
// MaxHistoryLimit, and a negative offset becomes zero.
func (s *ChatService) History(ctx context.Context, userID string, limit, offset int) ([]domain.ChatTurn, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	turns, err := s.Store.History(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if turns == nil {
		turns = []domain.ChatTurn{}
	}
	return turns, nil
}
