package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// AnalyticsRepository stores search attempts and missing-query records for
// later reporting.
type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

// CreateSearchAttempt appends one search attempt record and returns it
// with its assigned id.
func (r *AnalyticsRepository) CreateSearchAttempt(ctx context.Context, attempt domain.SearchAttemptRecord) (domain.SearchAttemptRecord, error) {
	topProducts := attempt.TopProductIDs
	if topProducts == nil {
		topProducts = []string{}
	}
	topProductsJSON, err := json.Marshal(topProducts)
	if err != nil {
		return domain.SearchAttemptRecord{}, fmt.Errorf("failed to marshal top products: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO product_searches (session_id, message_id, search_query, products_found, top_products)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		attempt.SessionID,
		attempt.MessageID,
		attempt.Query,
		attempt.ProductsFound,
		topProductsJSON,
	).Scan(&attempt.ID, &attempt.CreatedAt)
	if err != nil {
		return domain.SearchAttemptRecord{}, err
	}
	return attempt, nil
}

// CreateMissingQuery appends one missing-query record and returns it with
// its assigned id.
func (r *AnalyticsRepository) CreateMissingQuery(ctx context.Context, missing domain.MissingQueryRecord) (domain.MissingQueryRecord, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO missing_products (session_id, message_id, search_query)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		missing.SessionID,
		missing.MessageID,
		missing.Query,
	).Scan(&missing.ID, &missing.CreatedAt)
	if err != nil {
		return domain.MissingQueryRecord{}, err
	}
	return missing, nil
}

// QueryCount is one aggregated query with its occurrence count.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// DayCount is one day's message volume.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Report aggregates ledger activity over a trailing time window.
type Report struct {
	TotalMessages  int          `json:"total_messages"`
	TotalSessions  int          `json:"total_sessions"`
	TotalSearches  int          `json:"total_searches"`
	MissingQueries int          `json:"missing_queries"`
	TopSearches    []QueryCount `json:"top_searches"`
	TopMissing     []QueryCount `json:"top_missing"`
	MessagesPerDay []DayCount   `json:"messages_per_day"`
}

// BuildReport computes the aggregate report for the trailing N days.
func (r *AnalyticsRepository) BuildReport(ctx context.Context, days int) (*Report, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	report := &Report{
		TopSearches:    []QueryCount{},
		TopMissing:     []QueryCount{},
		MessagesPerDay: []DayCount{},
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM chat_messages WHERE created_at >= $1`, &report.TotalMessages},
		{`SELECT COUNT(*) FROM chat_sessions WHERE created_at >= $1`, &report.TotalSessions},
		{`SELECT COUNT(*) FROM product_searches WHERE created_at >= $1`, &report.TotalSearches},
		{`SELECT COUNT(*) FROM missing_products WHERE created_at >= $1`, &report.MissingQueries},
	}
	for _, c := range counts {
		if err := r.pool.QueryRow(ctx, c.query, since).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	topSearches, err := r.queryCounts(ctx,
		`SELECT search_query, COUNT(*) AS count
		 FROM product_searches
		 WHERE created_at >= $1
		 GROUP BY search_query
		 ORDER BY count DESC
		 LIMIT 10`, since)
	if err != nil {
		return nil, err
	}
	report.TopSearches = topSearches

	topMissing, err := r.queryCounts(ctx,
		`SELECT search_query, COUNT(*) AS count
		 FROM missing_products
		 WHERE created_at >= $1
		 GROUP BY search_query
		 ORDER BY count DESC
		 LIMIT 10`, since)
	if err != nil {
		return nil, err
	}
	report.TopMissing = topMissing

	rows, err := r.pool.Query(ctx,
		`SELECT to_char(created_at::date, 'YYYY-MM-DD') AS date, COUNT(*) AS count
		 FROM chat_messages
		 WHERE created_at >= $1
		 GROUP BY created_at::date
		 ORDER BY date DESC`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		report.MessagesPerDay = append(report.MessagesPerDay, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return report, nil
}

func (r *AnalyticsRepository) queryCounts(ctx context.Context, query string, since time.Time) ([]QueryCount, error) {
	rows, err := r.pool.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]QueryCount, 0)
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, err
		}
		out = append(out, qc)
	}
	return out, rows.Err()
}
