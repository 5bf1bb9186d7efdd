package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/api"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/repository"
)

// ReportBuilder computes aggregate conversation analytics.
type ReportBuilder interface {
	BuildReport(ctx context.Context, days int) (*repository.Report, error)
}

type AnalyticsHandler struct {
	analytics ReportBuilder
}

func NewAnalyticsHandler(analytics ReportBuilder) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Report returns the aggregate activity report for the trailing N days
// (?days=N, default 7).
func (h *AnalyticsHandler) Report(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Error(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		days = parsed
	}

	report, err := h.analytics.BuildReport(r.Context(), days)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, report)
}
