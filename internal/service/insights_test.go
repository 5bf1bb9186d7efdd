package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/openai"
)

func TestInsightsGenerator_Generate(t *testing.T) {
	llm := new(MockCompletionClient)
	generator := NewInsightsGenerator(llm)

	llm.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []openai.Message) bool {
		if len(msgs) != 2 || msgs[0].Role != openai.RoleSystem {
			return false
		}
		prompt := msgs[1].Content
		return strings.Contains(prompt, "show me hoodies") &&
			strings.Contains(prompt, `"do you have umbrellas"`) &&
			strings.Contains(prompt, "(3 products found)")
	})).Return(`{
		"hotProducts": ["Hoodies", "T-Shirts"],
		"trendingCategories": ["Winter Clothing"],
		"customerIntent": ["Looking for warm apparel"],
		"recommendations": ["Stock more hoodies"],
		"summary": "Warm apparel dominates recent queries."
	}`, nil)

	insights := generator.Generate(context.Background(),
		[]string{"show me hoodies", "do you have umbrellas"},
		[]SearchSignal{{Query: "show me hoodies", ProductsFound: 3}},
		[]string{"do you have umbrellas"},
	)

	require.NotNil(t, insights)
	assert.Equal(t, []string{"Hoodies", "T-Shirts"}, insights.HotProducts)
	assert.Equal(t, []string{"Winter Clothing"}, insights.TrendingCategories)
	assert.Equal(t, "Warm apparel dominates recent queries.", insights.Summary)
	llm.AssertExpectations(t)
}

func TestInsightsGenerator_Generate_UnwrapsFencedJSON(t *testing.T) {
	llm := new(MockCompletionClient)
	generator := NewInsightsGenerator(llm)

	llm.On("Complete", mock.Anything, mock.Anything).
		Return("```json\n{\"hotProducts\": [\"Hoodies\"], \"summary\": \"ok\"}\n```", nil)

	insights := generator.Generate(context.Background(), []string{"hoodies"}, nil, nil)

	assert.Equal(t, []string{"Hoodies"}, insights.HotProducts)
	assert.Equal(t, "ok", insights.Summary)
	// Fields the model omitted come back as empty arrays, not null.
	assert.NotNil(t, insights.Recommendations)
	assert.Empty(t, insights.Recommendations)
}

func TestInsightsGenerator_Generate_FallbackOnModelError(t *testing.T) {
	llm := new(MockCompletionClient)
	generator := NewInsightsGenerator(llm)

	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("rate limited"))

	insights := generator.Generate(context.Background(), []string{"hoodies"}, nil, nil)

	require.NotNil(t, insights)
	assert.Empty(t, insights.HotProducts)
	assert.Equal(t, insightsFallbackSummary, insights.Summary)
}

func TestInsightsGenerator_Generate_FallbackOnBadJSON(t *testing.T) {
	llm := new(MockCompletionClient)
	generator := NewInsightsGenerator(llm)

	llm.On("Complete", mock.Anything, mock.Anything).Return("I could not produce insights.", nil)

	insights := generator.Generate(context.Background(), nil, nil, nil)

	require.NotNil(t, insights)
	assert.Equal(t, insightsFallbackSummary, insights.Summary)
	assert.NotNil(t, insights.HotProducts)
}

func TestInsightsGenerator_Generate_EmptyActivityPrompt(t *testing.T) {
	llm := new(MockCompletionClient)
	generator := NewInsightsGenerator(llm)

	llm.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []openai.Message) bool {
		prompt := msgs[len(msgs)-1].Content
		return strings.Contains(prompt, "No queries yet") &&
			strings.Contains(prompt, "No searches yet") &&
			strings.Contains(prompt, "No missing product requests")
	})).Return(`{"summary": "Not enough data yet"}`, nil)

	insights := generator.Generate(context.Background(), nil, nil, nil)

	assert.Equal(t, "Not enough data yet", insights.Summary)
	llm.AssertExpectations(t)
}
