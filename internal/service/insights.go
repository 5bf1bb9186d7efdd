package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/openai"
)

// insightsInstruction is the fixed system instruction for insight
// generation. The model must answer with a single JSON object.
const insightsInstruction = `You are an expert e-commerce data analyst. Analyze user queries and provide actionable insights in JSON format.`

// insightsFallbackSummary is returned when the model call or its JSON
// output fails.
const insightsFallbackSummary = "Unable to generate insights at this time. Please try again later."

// SearchSignal is one recorded retrieval fed into insight generation.
type SearchSignal struct {
	Query         string
	ProductsFound int
}

// AIInsights is the model's read of recent shopping activity: what sells,
// what trends, what customers want, and what the store should do about it.
type AIInsights struct {
	HotProducts        []string `json:"hotProducts"`
	TrendingCategories []string `json:"trendingCategories"`
	CustomerIntent     []string `json:"customerIntent"`
	Recommendations    []string `json:"recommendations"`
	Summary            string   `json:"summary"`
}

// InsightsGenerator turns raw ledger activity into business insights via
// the language model.
type InsightsGenerator struct {
	llm Completer
}

func NewInsightsGenerator(llm Completer) *InsightsGenerator {
	return &InsightsGenerator{llm: llm}
}

// Generate produces insights from recent user queries, search outcomes and
// missing-product requests. It never returns an error: model failures and
// unparseable output degrade to an empty result with an explanatory
// summary.
func (g *InsightsGenerator) Generate(ctx context.Context, userQueries []string, searches []SearchSignal, missing []string) *AIInsights {
	reply, err := g.llm.Complete(ctx, []openai.Message{
		{Role: openai.RoleSystem, Content: insightsInstruction},
		{Role: openai.RoleUser, Content: buildInsightsPrompt(userQueries, searches, missing)},
	})
	if err != nil {
		log.Printf("insight generation degraded to empty result: %v", err)
		return fallbackInsights()
	}

	insights := &AIInsights{}
	if err := json.Unmarshal([]byte(extractJSONObject(reply)), insights); err != nil {
		log.Printf("insight generation returned unparseable output: %v", err)
		return fallbackInsights()
	}
	normalizeInsights(insights)
	return insights
}

func fallbackInsights() *AIInsights {
	insights := &AIInsights{Summary: insightsFallbackSummary}
	normalizeInsights(insights)
	return insights
}

// normalizeInsights replaces nil slices so the JSON rendering always
// carries arrays.
func normalizeInsights(insights *AIInsights) {
	if insights.HotProducts == nil {
		insights.HotProducts = []string{}
	}
	if insights.TrendingCategories == nil {
		insights.TrendingCategories = []string{}
	}
	if insights.CustomerIntent == nil {
		insights.CustomerIntent = []string{}
	}
	if insights.Recommendations == nil {
		insights.Recommendations = []string{}
	}
}

// extractJSONObject trims any prose the model wrapped around the JSON
// object. Models occasionally fence the payload despite instructions.
func extractJSONObject(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return reply
	}
	return reply[start : end+1]
}

func buildInsightsPrompt(userQueries []string, searches []SearchSignal, missing []string) string {
	queriesSummary := "No queries yet"
	if len(userQueries) > 0 {
		queriesSummary = strings.Join(userQueries, "\n- ")
	}

	searchLines := make([]string, 0, len(searches))
	for _, s := range searches {
		searchLines = append(searchLines, fmt.Sprintf("%q (%d products found)", s.Query, s.ProductsFound))
	}
	searchesSummary := "No searches yet"
	if len(searchLines) > 0 {
		searchesSummary = strings.Join(searchLines, "\n- ")
	}

	missingLines := make([]string, 0, len(missing))
	for _, m := range missing {
		missingLines = append(missingLines, fmt.Sprintf("%q", m))
	}
	missingSummary := "No missing product requests"
	if len(missingLines) > 0 {
		missingSummary = strings.Join(missingLines, "\n- ")
	}

	return fmt.Sprintf(`You are an e-commerce analytics expert. Analyze the following user queries and search data from our shopping assistant chatbot to generate actionable insights.

**User Queries (%d total):**
- %s

**Product Searches (%d total):**
- %s

**Missing Product Requests (%d total):**
- %s

Based on this data, provide insights in the following JSON format:

{
  "hotProducts": ["product1", "product2", "product3"],
  "trendingCategories": ["category1", "category2", "category3"],
  "customerIntent": ["intent1", "intent2", "intent3"],
  "recommendations": ["recommendation1", "recommendation2", "recommendation3"],
  "summary": "A brief 2-3 sentence summary of key findings"
}

**Guidelines:**
- **hotProducts**: List 3-5 most frequently mentioned or searched products (e.g., "T-Shirts", "Hoodies", "Football Boots")
- **trendingCategories**: Identify 3-5 product categories users are interested in (e.g., "Sportswear", "Winter Clothing", "Accessories")
- **customerIntent**: Describe 3-5 common user intentions or needs (e.g., "Looking for winter clothing", "Searching for sports equipment", "Interested in casual wear")
- **recommendations**: Provide 3-5 actionable business recommendations (e.g., "Stock more football boots", "Add winter jacket collection", "Promote t-shirt deals")
- **summary**: A concise overview of the most important findings

**Important:**
- If there's no data, provide empty arrays and a message saying "Not enough data yet"
- Be specific and data-driven
- Focus on actionable insights
- Use the actual product names and categories from the queries

Return ONLY valid JSON, no additional text.`,
		len(userQueries), queriesSummary,
		len(searches), searchesSummary,
		len(missing), missingSummary)
}
