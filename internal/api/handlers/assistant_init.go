package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// CatalogLoader provides the catalog items to embed.
type CatalogLoader interface {
	Products(ctx context.Context) ([]domain.CatalogItem, error)
}

// EmbeddingInitializer manages the embedding store lifecycle.
type EmbeddingInitializer interface {
	Initialize(ctx context.Context, items []domain.CatalogItem) (int, error)
	Reinitialize(ctx context.Context, items []domain.CatalogItem) (int, error)
	Status(ctx context.Context) (bool, int, error)
}

type InitHandler struct {
	embedder EmbeddingInitializer
	catalog  CatalogLoader
}

func NewInitHandler(embedder EmbeddingInitializer, catalog CatalogLoader) *InitHandler {
	return &InitHandler{embedder: embedder, catalog: catalog}
}

type InitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

type StatusResponse struct {
	Initialized bool `json:"initialized"`
	Count       int  `json:"count"`
}

type initActionRequest struct {
	Action string `json:"action"`
}

// Initialize embeds the catalog and loads the vector store. Idempotent: if
// embeddings already exist it reports the current count without re-embedding.
func (h *InitHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	initialized, count, err := h.embedder.Status(r.Context())
	if err != nil {
		api.JSON(w, http.StatusInternalServerError, InitResponse{Success: false, Error: err.Error()})
		return
	}
	if initialized {
		api.JSON(w, http.StatusOK, InitResponse{
			Success: true,
			Message: "Embeddings already initialized",
			Count:   count,
		})
		return
	}

	h.initialize(w, r, false)
}

// Action dispatches POST init requests: "status" reports the store state,
// "reinitialize" rebuilds it from scratch.
func (h *InitHandler) Action(w http.ResponseWriter, r *http.Request) {
	var req initActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "status":
		initialized, count, err := h.embedder.Status(r.Context())
		if err != nil {
			api.JSON(w, http.StatusInternalServerError, InitResponse{Success: false, Error: err.Error()})
			return
		}
		api.JSON(w, http.StatusOK, StatusResponse{Initialized: initialized, Count: count})
	case "reinitialize":
		h.initialize(w, r, true)
	default:
		api.Error(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *InitHandler) initialize(w http.ResponseWriter, r *http.Request, rebuild bool) {
	items, err := h.catalog.Products(r.Context())
	if err != nil {
		api.JSON(w, http.StatusInternalServerError, InitResponse{Success: false, Error: err.Error()})
		return
	}
	if len(items) == 0 {
		api.JSON(w, http.StatusNotFound, InitResponse{Success: false, Error: "no products found in catalog"})
		return
	}

	var count int
	if rebuild {
		count, err = h.embedder.Reinitialize(r.Context(), items)
	} else {
		count, err = h.embedder.Initialize(r.Context(), items)
	}
	if err != nil {
		api.JSON(w, http.StatusInternalServerError, InitResponse{Success: false, Error: err.Error()})
		return
	}

	message := "Product embeddings initialized successfully"
	if rebuild {
		message = "Embeddings reinitialized successfully"
	}
	api.JSON(w, http.StatusOK, InitResponse{Success: true, Message: message, Count: count})
}
