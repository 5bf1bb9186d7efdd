package service

import (
	"context"
	"fmt"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// SessionStore persists conversation sessions and their messages.
type SessionStore interface {
	Ensure(ctx context.Context, sessionID string) (domain.ConversationSession, error)
	CreateMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string) (domain.ChatMessageRecord, error)
	GetByID(ctx context.Context, sessionID string) (domain.ConversationSession, error)
	ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error)
}

// AnalyticsStore persists search attempts and missing-product queries.
type AnalyticsStore interface {
	CreateSearchAttempt(ctx context.Context, attempt domain.SearchAttemptRecord) (domain.SearchAttemptRecord, error)
	CreateMissingQuery(ctx context.Context, missing domain.MissingQueryRecord) (domain.MissingQueryRecord, error)
}

// Ledger is the append-only record of conversations. Everything written
// through it survives the process; nothing is ever updated or deleted.
type Ledger struct {
	sessions  SessionStore
	analytics AnalyticsStore
}

func NewLedger(sessions SessionStore, analytics AnalyticsStore) *Ledger {
	return &Ledger{sessions: sessions, analytics: analytics}
}

// EnsureSession creates the session row if it does not exist and bumps
// its last-activity timestamp either way.
func (l *Ledger) EnsureSession(ctx context.Context, sessionID string) (domain.ConversationSession, error) {
	session, err := l.sessions.Ensure(ctx, sessionID)
	if err != nil {
		return domain.ConversationSession{}, fmt.Errorf("failed to ensure session: %w", err)
	}
	return session, nil
}

// RecordMessage appends one message to the session transcript and returns
// the stored record with its assigned id.
func (l *Ledger) RecordMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string) (domain.ChatMessageRecord, error) {
	if err := domain.ValidateChatMessage(sessionID, role, content); err != nil {
		return domain.ChatMessageRecord{}, err
	}
	msg, err := l.sessions.CreateMessage(ctx, sessionID, role, content)
	if err != nil {
		return domain.ChatMessageRecord{}, fmt.Errorf("failed to record message: %w", err)
	}
	return msg, nil
}

// RecordSearchAttempt logs a retrieval that ran for a product-seeking
// message, whether or not it found anything.
func (l *Ledger) RecordSearchAttempt(ctx context.Context, sessionID string, messageID int64, query string, results []domain.SearchResult) error {
	topIDs := make([]string, 0, len(results))
	for _, r := range results {
		topIDs = append(topIDs, r.ProductID)
	}
	_, err := l.analytics.CreateSearchAttempt(ctx, domain.SearchAttemptRecord{
		SessionID:     sessionID,
		MessageID:     messageID,
		Query:         query,
		ProductsFound: len(results),
		TopProductIDs: topIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to record search attempt: %w", err)
	}
	return nil
}

// RecordMissingQuery logs a product-seeking query that matched nothing,
// feeding the missing-products report.
func (l *Ledger) RecordMissingQuery(ctx context.Context, sessionID string, messageID int64, query string) error {
	_, err := l.analytics.CreateMissingQuery(ctx, domain.MissingQueryRecord{
		SessionID: sessionID,
		MessageID: messageID,
		Query:     query,
	})
	if err != nil {
		return fmt.Errorf("failed to record missing query: %w", err)
	}
	return nil
}

// SessionMessages returns the full transcript of a session in insertion
// order. Unknown sessions yield domain.ErrSessionNotFound.
func (l *Ledger) SessionMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error) {
	if _, err := l.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return l.sessions.ListMessages(ctx, sessionID)
}
