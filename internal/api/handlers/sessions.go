package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// TranscriptProvider loads a session's message history.
type TranscriptProvider interface {
	SessionMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error)
}

type SessionHandler struct {
	svc TranscriptProvider
}

func NewSessionHandler(svc TranscriptProvider) *SessionHandler {
	return &SessionHandler{svc: svc}
}

type MessageResponse struct {
	ID        int64  `json:"id"`
	SessionID string `json:"sessionId"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

type SessionMessagesResponse struct {
	SessionID string            `json:"sessionId"`
	Messages  []MessageResponse `json:"messages"`
}

// Messages returns the full transcript of a session in insertion order.
func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if sessionID == "" {
		api.Error(w, http.StatusBadRequest, "session id is required")
		return
	}

	messages, err := h.svc.SessionMessages(r.Context(), sessionID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			ID:        m.ID,
			SessionID: m.SessionID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	api.JSON(w, http.StatusOK, SessionMessagesResponse{SessionID: sessionID, Messages: out})
}
