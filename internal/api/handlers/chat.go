package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/service"
)

type ChatProvider interface {
	Chat(ctx context.Context, sessionID, message string) (*service.ChatResult, error)
	ChatStream(ctx context.Context, sessionID, message string) (string, <-chan service.StreamEvent, error)
}

type ChatHandler struct {
	svc ChatProvider
}

func NewChatHandler(svc ChatProvider) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message,omitempty"`
	Products  []ProductResponse `json:"products"`
	SessionID string            `json:"sessionId,omitempty"`
	Error     string            `json:"error,omitempty"`
}

type ProductResponse struct {
	ProductID        string   `json:"productId"`
	ProductHandle    string   `json:"productHandle"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Price            string   `json:"price"`
	AvailableForSale bool     `json:"availableForSale"`
	Tags             []string `json:"tags"`
}

func productsToResponse(results []domain.SearchResult) []ProductResponse {
	products := make([]ProductResponse, 0, len(results))
	for _, r := range results {
		products = append(products, ProductResponse{
			ProductID:        r.ProductID,
			ProductHandle:    r.ProductHandle,
			Title:            r.Metadata.Title,
			Description:      r.Metadata.Description,
			Price:            r.Metadata.Price,
			AvailableForSale: r.Metadata.AvailableForSale,
			Tags:             r.Metadata.Tags,
		})
	}
	return products
}

// Chat handles a batch chat turn.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: "invalid request body", Products: []ProductResponse{}})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.JSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: "message is required", Products: []ProductResponse{}})
		return
	}

	result, err := h.svc.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		api.JSON(w, api.DomainErrorToHTTP(err), ChatResponse{Success: false, Error: err.Error(), Products: []ProductResponse{}})
		return
	}

	api.JSON(w, http.StatusOK, ChatResponse{
		Success:   true,
		Message:   result.Message,
		Products:  productsToResponse(result.Products),
		SessionID: result.SessionID,
	})
}

// streamPayload is one SSE data frame.
type streamPayload struct {
	Type      string            `json:"type"`
	Content   string            `json:"content,omitempty"`
	Products  []ProductResponse `json:"products,omitempty"`
	SessionID string            `json:"sessionId,omitempty"`
}

// ChatStream handles a streaming chat turn over server-sent events. Events
// arrive in generation order: tokens, then products, then done.
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.JSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: "invalid request body", Products: []ProductResponse{}})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		api.JSON(w, http.StatusBadRequest, ChatResponse{Success: false, Error: "message is required", Products: []ProductResponse{}})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusServiceUnavailable, "streaming unsupported")
		return
	}

	sessionID, events, err := h.svc.ChatStream(r.Context(), req.SessionID, req.Message)
	if err != nil {
		api.JSON(w, api.DomainErrorToHTTP(err), ChatResponse{Success: false, Error: err.Error(), Products: []ProductResponse{}})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	writeEvent := func(p streamPayload) {
		payload, err := json.Marshal(p)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	for ev := range events {
		switch ev.Type {
		case service.StreamEventToken:
			writeEvent(streamPayload{Type: "token", Content: ev.Content})
		case service.StreamEventProducts:
			writeEvent(streamPayload{Type: "products", Products: productsToResponse(ev.Products)})
		case service.StreamEventError:
			writeEvent(streamPayload{Type: "error", Content: ev.Content})
		case service.StreamEventDone:
			writeEvent(streamPayload{Type: "done", SessionID: sessionID})
		}
	}
}
