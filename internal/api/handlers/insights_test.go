package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/repository"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/service"
)

type MockInsightsDataSource struct {
	mock.Mock
}

func (m *MockInsightsDataSource) InsightsData(ctx context.Context, days int) (*repository.InsightsData, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.InsightsData), args.Error(1)
}

func (m *MockInsightsDataSource) InsightsSummary(ctx context.Context, days int) (*repository.InsightsSummary, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.InsightsSummary), args.Error(1)
}

type MockInsightGenerator struct {
	mock.Mock
}

func (m *MockInsightGenerator) Generate(ctx context.Context, userQueries []string, searches []service.SearchSignal, missing []string) *service.AIInsights {
	args := m.Called(ctx, userQueries, searches, missing)
	return args.Get(0).(*service.AIInsights)
}

func TestInsightsHandler_Report(t *testing.T) {
	data := new(MockInsightsDataSource)
	generator := new(MockInsightGenerator)
	handler := NewInsightsHandler(data, generator)

	data.On("InsightsData", mock.Anything, 14).Return(&repository.InsightsData{
		UserQueries:    []string{"show me hoodies"},
		Searches:       []repository.SearchOutcome{{Query: "show me hoodies", ProductsFound: 2}},
		MissingQueries: []string{"do you have umbrellas"},
	}, nil)
	data.On("InsightsSummary", mock.Anything, 14).Return(&repository.InsightsSummary{
		TotalQueries:       5,
		SuccessfulSearches: 4,
		FailedSearches:     1,
		SuccessRate:        80,
	}, nil)
	generator.On("Generate", mock.Anything,
		[]string{"show me hoodies"},
		[]service.SearchSignal{{Query: "show me hoodies", ProductsFound: 2}},
		[]string{"do you have umbrellas"},
	).Return(&service.AIInsights{
		HotProducts: []string{"Hoodies"},
		Summary:     "Hoodies are trending.",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/insights?days=14", nil)
	rec := httptest.NewRecorder()
	handler.Report(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data struct {
			Summary    repository.InsightsSummary `json:"summary"`
			AIInsights service.AIInsights         `json:"aiInsights"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, 5, envelope.Data.Summary.TotalQueries)
	assert.InDelta(t, 80, envelope.Data.Summary.SuccessRate, 0.001)
	assert.Equal(t, []string{"Hoodies"}, envelope.Data.AIInsights.HotProducts)
	assert.Equal(t, "Hoodies are trending.", envelope.Data.AIInsights.Summary)
	generator.AssertExpectations(t)
}

func TestInsightsHandler_Report_InvalidDays(t *testing.T) {
	data := new(MockInsightsDataSource)
	generator := new(MockInsightGenerator)
	handler := NewInsightsHandler(data, generator)

	for _, days := range []string{"abc", "-1", "0"} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/insights?days="+days, nil)
		rec := httptest.NewRecorder()
		handler.Report(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	data.AssertNotCalled(t, "InsightsData")
}
