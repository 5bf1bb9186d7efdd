package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// SessionRepository persists conversation sessions and their messages.
// Both tables are append-only from the pipeline's perspective.
type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Ensure creates the session on first reference and touches last_activity
// on every subsequent one. last_activity never moves backwards.
func (r *SessionRepository) Ensure(ctx context.Context, sessionID string) (domain.ConversationSession, error) {
	var session domain.ConversationSession
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_sessions (id) VALUES ($1)
		 ON CONFLICT (id) DO UPDATE SET
			last_activity = GREATEST(chat_sessions.last_activity, now())
		 RETURNING id, created_at, last_activity`,
		sessionID,
	).Scan(&session.ID, &session.CreatedAt, &session.LastActivity)
	if err != nil {
		return domain.ConversationSession{}, err
	}
	return session, nil
}

// CreateMessage appends one message and returns the stored record with its
// globally increasing id. The session is ensured first.
func (r *SessionRepository) CreateMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string) (domain.ChatMessageRecord, error) {
	if _, err := r.Ensure(ctx, sessionID); err != nil {
		return domain.ChatMessageRecord{}, err
	}

	msg := domain.ChatMessageRecord{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (session_id, role, content) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		sessionID, string(role), content,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return domain.ChatMessageRecord{}, err
	}
	return msg, nil
}

// GetByID returns a session or domain.ErrSessionNotFound.
func (r *SessionRepository) GetByID(ctx context.Context, sessionID string) (domain.ConversationSession, error) {
	var session domain.ConversationSession
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at, last_activity FROM chat_sessions WHERE id = $1`,
		sessionID,
	).Scan(&session.ID, &session.CreatedAt, &session.LastActivity)
	if err != nil {
		if isNoRows(err) {
			return domain.ConversationSession{}, domain.ErrSessionNotFound
		}
		return domain.ConversationSession{}, err
	}
	return session, nil
}

// ListMessages returns all messages of a session in id order.
func (r *SessionRepository) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, role, content, created_at
		 FROM chat_messages
		 WHERE session_id = $1
		 ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]domain.ChatMessageRecord, 0)
	for rows.Next() {
		var m domain.ChatMessageRecord
		var role string
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.MessageRole(role)
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
