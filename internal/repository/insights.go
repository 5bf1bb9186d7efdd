package repository

import (
	"context"
	"time"
)

// SearchOutcome is one recorded retrieval with its result count.
type SearchOutcome struct {
	Query         string
	ProductsFound int
}

// InsightsData is the raw ledger material insight generation works from:
// what customers asked, what was searched, and what came up empty.
type InsightsData struct {
	UserQueries    []string
	Searches       []SearchOutcome
	MissingQueries []string
}

// InsightsSummary is the statistical companion to the generated insights.
type InsightsSummary struct {
	TotalQueries         int     `json:"total_queries"`
	SuccessfulSearches   int     `json:"successful_searches"`
	FailedSearches       int     `json:"failed_searches"`
	AvgProductsPerSearch float64 `json:"avg_products_per_search"`
	SuccessRate          float64 `json:"success_rate"`
}

// InsightsData collects user queries, search outcomes and missing-product
// requests from the trailing N days, newest first.
func (r *AnalyticsRepository) InsightsData(ctx context.Context, days int) (*InsightsData, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	data := &InsightsData{
		UserQueries:    []string{},
		Searches:       []SearchOutcome{},
		MissingQueries: []string{},
	}

	rows, err := r.pool.Query(ctx,
		`SELECT content FROM chat_messages
		 WHERE role = 'user' AND created_at >= $1
		 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		data.UserQueries = append(data.UserQueries, content)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	searchRows, err := r.pool.Query(ctx,
		`SELECT search_query, products_found FROM product_searches
		 WHERE created_at >= $1
		 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, err
	}
	defer searchRows.Close()
	for searchRows.Next() {
		var s SearchOutcome
		if err := searchRows.Scan(&s.Query, &s.ProductsFound); err != nil {
			return nil, err
		}
		data.Searches = append(data.Searches, s)
	}
	if err := searchRows.Err(); err != nil {
		return nil, err
	}

	missingRows, err := r.pool.Query(ctx,
		`SELECT search_query FROM missing_products
		 WHERE created_at >= $1
		 ORDER BY created_at DESC`, since)
	if err != nil {
		return nil, err
	}
	defer missingRows.Close()
	for missingRows.Next() {
		var query string
		if err := missingRows.Scan(&query); err != nil {
			return nil, err
		}
		data.MissingQueries = append(data.MissingQueries, query)
	}
	if err := missingRows.Err(); err != nil {
		return nil, err
	}

	return data, nil
}

// InsightsSummary computes success and volume statistics for the trailing
// N days.
func (r *AnalyticsRepository) InsightsSummary(ctx context.Context, days int) (*InsightsSummary, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	summary := &InsightsSummary{}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM chat_messages WHERE role = 'user' AND created_at >= $1`, &summary.TotalQueries},
		{`SELECT COUNT(*) FROM product_searches WHERE products_found > 0 AND created_at >= $1`, &summary.SuccessfulSearches},
		{`SELECT COUNT(*) FROM missing_products WHERE created_at >= $1`, &summary.FailedSearches},
	}
	for _, c := range counts {
		if err := r.pool.QueryRow(ctx, c.query, since).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(products_found), 0)::float8 FROM product_searches WHERE created_at >= $1`,
		since,
	).Scan(&summary.AvgProductsPerSearch)
	if err != nil {
		return nil, err
	}

	if summary.TotalQueries > 0 {
		summary.SuccessRate = float64(summary.SuccessfulSearches) / float64(summary.TotalQueries) * 100
	}

	return summary, nil
}
