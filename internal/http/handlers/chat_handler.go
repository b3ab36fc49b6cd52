// Chat HTTP handlers.
//
// This file exposes the conversation endpoints:
//   - POST /chat/send              (one chat turn, evaluation or general)
//   - GET  /chat/history/:userID   (paginated transcript, newest first)
//   - GET  /chat/competencies      (the fixed evaluation rubric)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Authentication
// happens upstream in middleware; handlers read the verified identity from
// the Gin context.
package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusmind/advising-backend/internal/ai"
	"github.com/campusmind/advising-backend/internal/auth"
	"github.com/campusmind/advising-backend/internal/domain"
	"github.com/campusmind/advising-backend/internal/http/middleware"
	"github.com/campusmind/advising-backend/internal/services"
	"github.com/campusmind/advising-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines the chat-turn operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Send runs one validated chat turn and persists it best-effort.
	Send(ctx context.Context, user domain.Identity, in services.SendInput) (*services.SendResult, error)
	// History returns the user's turns newest first with normalized paging.
	History(ctx context.Context, userID string, limit, offset int) ([]domain.ChatTurn, error)
}

// ExportService defines the faculty reporting operations consumed by HTTP
// handlers.
type ExportService interface {
	// WriteEvaluationCSV streams the evaluation export and reports the row count.
	WriteEvaluationCSV(ctx context.Context, w io.Writer, start, end *time.Time) (int, error)
	// Stats recomputes the usage snapshot.
	Stats(ctx context.Context) (domain.UsageStats, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for authentication, chat, and the
// faculty admin views. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
type Handlers struct {
	directory *auth.Directory
	tokens    *auth.TokenService
	chatSvc   ChatService
	exportSvc ExportService
	catalog   ai.Catalog
}

// New constructs a Handlers instance bound to the given collaborators.
func New(directory *auth.Directory, tokens *auth.TokenService, chatSvc ChatService, exportSvc ExportService, catalog ai.Catalog) *Handlers {
	return &Handlers{
		directory: directory,
		tokens:    tokens,
		chatSvc:   chatSvc,
		exportSvc: exportSvc,
		catalog:   catalog,
	}
}

//
// DTOs
//

// SendMessageRequest is the JSON payload for one chat turn.
type SendMessageRequest struct {
	// Message is the student's input text.
	Message string `json:"message" binding:"required" example:"Today's pair work was hard but I managed to share my opinion."`
	// IsCompetencyEvaluation selects the evaluation path.
	IsCompetencyEvaluation bool `json:"is_competency_evaluation"`
	// ChatID continues an existing conversation; empty starts a new one.
	ChatID string `json:"chat_id,omitempty" example:"7f07b2c5-07cb-4e5e-9b1c-1a9be01b7a4d"`
}

// SendMessageResponse is the outcome of one chat turn.
type SendMessageResponse struct {
	Success   bool      `json:"success"`
	ChatID    string    `json:"chat_id"`
	Message   string    `json:"message"`
	Saved     bool      `json:"saved"`
	Timestamp time.Time `json:"timestamp"`
}

// HistoryResponse wraps a page of chat turns.
type HistoryResponse struct {
	Success bool              `json:"success"`
	History []domain.ChatTurn `json:"history"`
	Count   int               `json:"count"`
}

// CompetenciesResponse lists the fixed evaluation rubric.
type CompetenciesResponse struct {
	Competencies []ai.Competency `json:"competencies"`
}

//
// Handlers
//

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a chat message
// @Description Runs one chat turn: generates the reply (competency evaluation or open conversation) and stores the transcript best-effort. The reply is returned even when storage fails; `saved` reports the outcome.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.SendMessageRequest  true  "Chat turn payload"
//
// @Success     200  {object}  handlers.SendMessageResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Empty or oversized message"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Router      /chat/send [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	id, okID := middleware.IdentityFrom(c)
	if !okID {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid token")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	}

	res, err := h.chatSvc.Send(c.Request.Context(), id, services.SendInput{
		ChatID:     req.ChatID,
		Message:    req.Message,
		Evaluation: req.IsCompetencyEvaluation,
		Session: domain.SessionInfo{
			UserAgent: c.Request.UserAgent(),
			IPAddress: c.ClientIP(),
		},
	})
	switch {
	case errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message is required")
		return
	case errors.Is(err, services.ErrMessageTooLong):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message too long")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeChatFailed, err.Error())
		return
	}

	middleware.ObserveChatTurn(res.Evaluation, res.Saved)
	ok(c, http.StatusOK, SendMessageResponse{
		Success:   true,
		ChatID:    res.ChatID,
		Message:   res.Reply,
		Saved:     res.Saved,
		Timestamp: res.Timestamp,
	})
}

// GetHistory godoc
// @ID          getHistory
// @Summary     Read chat history
// @Description Returns the user's chat turns newest first. Students may read only their own transcript; staff and above may read any. `limit` is clamped to 100.
// @Tags        Chat
// @Produce     json
//
// @Param       Authorization  header  string  true   "Bearer token"
// @Param       userID         path    string  true   "Transcript owner"
// @Param       limit          query   int     false  "Max entries"  minimum(1) maximum(100) default(50)
// @Param       offset         query   int     false  "Entries to skip"  minimum(0) default(0)
//
// @Success     200  {object}  handlers.HistoryResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the transcript owner"
// @Router      /chat/history/{userID} [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	id, okID := middleware.IdentityFrom(c)
	if !okID {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing or invalid token")
		return
	}

	target := c.Param("userID")
	if target != id.ID && !auth.CheckPermission(id, domain.RoleStaff) {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "cannot read another user's history")
		return
	}

	limit := utils.AtoiDefault(c.Query("limit"), services.DefaultHistoryLimit)
	offset := utils.AtoiDefault(c.Query("offset"), 0)

	turns, err := h.chatSvc.History(c.Request.Context(), target, limit, offset)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeHistoryFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, HistoryResponse{Success: true, History: turns, Count: len(turns)})
}

// ListCompetencies godoc
// @ID          listCompetencies
// @Summary     List the competency rubric
// @Description Returns the fixed competency catalog used by evaluations.
// @Tags        Chat
// @Produce     json
//
// @Success     200  {object}  handlers.CompetenciesResponse
// @Router      /chat/competencies [get]
func (h *Handlers) ListCompetencies(c *gin.Context) {
	ok(c, http.StatusOK, CompetenciesResponse{Competencies: ai.ListCompetencies(h.catalog)})
}
