//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/testutil"
)

// seedMessage creates a session and one user message, returning both ids.
func seedMessage(ctx context.Context, t *testing.T, sessions *SessionRepository, content string) (string, int64) {
	t.Helper()
	sessionID := uuid.NewString()
	msg, err := sessions.CreateMessage(ctx, sessionID, domain.MessageRoleUser, content)
	require.NoError(t, err)
	return sessionID, msg.ID
}

func TestAnalyticsRepository_CreateSearchAttempt(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	sessions := NewSessionRepository(pool)
	analytics := NewAnalyticsRepository(pool)

	sessionID, messageID := seedMessage(ctx, t, sessions, "show me hoodies")

	stored, err := analytics.CreateSearchAttempt(ctx, domain.SearchAttemptRecord{
		SessionID:     sessionID,
		MessageID:     messageID,
		Query:         "show me hoodies",
		ProductsFound: 2,
		TopProductIDs: []string{"p-1", "p-2"},
	})
	require.NoError(t, err)
	assert.Greater(t, stored.ID, int64(0))
	assert.False(t, stored.CreatedAt.IsZero())

	var query string
	var found int
	var topProducts []byte
	err = pool.QueryRow(ctx,
		`SELECT search_query, products_found, top_products FROM product_searches WHERE message_id = $1`,
		messageID,
	).Scan(&query, &found, &topProducts)
	require.NoError(t, err)
	assert.Equal(t, "show me hoodies", query)
	assert.Equal(t, 2, found)
	assert.JSONEq(t, `["p-1","p-2"]`, string(topProducts))
}

func TestAnalyticsRepository_CreateSearchAttempt_NilTopProducts(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	sessions := NewSessionRepository(pool)
	analytics := NewAnalyticsRepository(pool)

	sessionID, messageID := seedMessage(ctx, t, sessions, "anything here")

	_, err := analytics.CreateSearchAttempt(ctx, domain.SearchAttemptRecord{
		SessionID: sessionID,
		MessageID: messageID,
		Query:     "anything here",
	})
	require.NoError(t, err)

	var topProducts []byte
	err = pool.QueryRow(ctx,
		`SELECT top_products FROM product_searches WHERE message_id = $1`, messageID,
	).Scan(&topProducts)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(topProducts))
}

func TestAnalyticsRepository_CreateMissingQuery(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	sessions := NewSessionRepository(pool)
	analytics := NewAnalyticsRepository(pool)

	sessionID, messageID := seedMessage(ctx, t, sessions, "do you have umbrellas")

	stored, err := analytics.CreateMissingQuery(ctx, domain.MissingQueryRecord{
		SessionID: sessionID,
		MessageID: messageID,
		Query:     "do you have umbrellas",
	})
	require.NoError(t, err)
	assert.Greater(t, stored.ID, int64(0))

	var query string
	err = pool.QueryRow(ctx,
		`SELECT search_query FROM missing_products WHERE message_id = $1`, messageID,
	).Scan(&query)
	require.NoError(t, err)
	assert.Equal(t, "do you have umbrellas", query)
}

func TestAnalyticsRepository_BuildReport(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	sessions := NewSessionRepository(pool)
	analytics := NewAnalyticsRepository(pool)

	// Two sessions: one with two searches for the same query, one with a
	// missing query.
	firstSession := uuid.NewString()
	for i := 0; i < 2; i++ {
		msg, err := sessions.CreateMessage(ctx, firstSession, domain.MessageRoleUser, "show me hoodies")
		require.NoError(t, err)
		_, err = analytics.CreateSearchAttempt(ctx, domain.SearchAttemptRecord{
			SessionID:     firstSession,
			MessageID:     msg.ID,
			Query:         "show me hoodies",
			ProductsFound: 2,
			TopProductIDs: []string{"p-1", "p-2"},
		})
		require.NoError(t, err)
	}

	secondSession, missingMessageID := seedMessage(ctx, t, sessions, "do you have umbrellas")
	_, err := analytics.CreateSearchAttempt(ctx, domain.SearchAttemptRecord{
		SessionID: secondSession,
		MessageID: missingMessageID,
		Query:     "do you have umbrellas",
	})
	require.NoError(t, err)
	_, err = analytics.CreateMissingQuery(ctx, domain.MissingQueryRecord{
		SessionID: secondSession,
		MessageID: missingMessageID,
		Query:     "do you have umbrellas",
	})
	require.NoError(t, err)

	report, err := analytics.BuildReport(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalMessages)
	assert.Equal(t, 2, report.TotalSessions)
	assert.Equal(t, 3, report.TotalSearches)
	assert.Equal(t, 1, report.MissingQueries)

	require.NotEmpty(t, report.TopSearches)
	assert.Equal(t, "show me hoodies", report.TopSearches[0].Query)
	assert.Equal(t, 2, report.TopSearches[0].Count)

	require.Len(t, report.TopMissing, 1)
	assert.Equal(t, "do you have umbrellas", report.TopMissing[0].Query)

	require.Len(t, report.MessagesPerDay, 1)
	assert.Equal(t, 3, report.MessagesPerDay[0].Count)
}

func TestAnalyticsRepository_BuildReport_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	analytics := NewAnalyticsRepository(pool)

	// days <= 0 falls back to the default window.
	report, err := analytics.BuildReport(ctx, 0)
	require.NoError(t, err)

	assert.Zero(t, report.TotalMessages)
	assert.Zero(t, report.TotalSessions)
	assert.NotNil(t, report.TopSearches)
	assert.NotNil(t, report.TopMissing)
	assert.NotNil(t, report.MessagesPerDay)
	assert.Empty(t, report.TopSearches)
}
