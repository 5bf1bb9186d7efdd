package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/repository"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/service"
)

// InsightsDataSource provides the raw ledger material and summary
// statistics behind the insights endpoint.
type InsightsDataSource interface {
	InsightsData(ctx context.Context, days int) (*repository.InsightsData, error)
	InsightsSummary(ctx context.Context, days int) (*repository.InsightsSummary, error)
}

// InsightGenerator turns raw activity into model-written insights.
type InsightGenerator interface {
	Generate(ctx context.Context, userQueries []string, searches []service.SearchSignal, missing []string) *service.AIInsights
}

type InsightsHandler struct {
	data      InsightsDataSource
	generator InsightGenerator
}

func NewInsightsHandler(data InsightsDataSource, generator InsightGenerator) *InsightsHandler {
	return &InsightsHandler{data: data, generator: generator}
}

type insightsResponse struct {
	Summary    *repository.InsightsSummary `json:"summary"`
	AIInsights *service.AIInsights         `json:"aiInsights"`
}

// Report returns model-generated insights plus summary statistics for the
// trailing N days (?days=N, default 7).
func (h *InsightsHandler) Report(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Error(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	data, err := h.data.InsightsData(r.Context(), days)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	summary, err := h.data.InsightsSummary(r.Context(), days)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	searches := make([]service.SearchSignal, 0, len(data.Searches))
	for _, s := range data.Searches {
		searches = append(searches, service.SearchSignal{Query: s.Query, ProductsFound: s.ProductsFound})
	}
	insights := h.generator.Generate(r.Context(), data.UserQueries, searches, data.MissingQueries)

	api.Success(w, http.StatusOK, insightsResponse{
		Summary:    summary,
		AIInsights: insights,
	})
}
