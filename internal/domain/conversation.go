package domain

import (
	"fmt"
	"time"
)

// MessageRole identifies who authored a chat message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ConversationSession is a logical chat thread. Sessions are created lazily
// on the first message referencing an unseen id; LastActivity never moves
// backwards.
type ConversationSession struct {
	ID           string
	CreatedAt    time.Time
	LastActivity time.Time
}

// ChatMessageRecord is one persisted message. IDs are assigned by the store
// and strictly increase globally, giving a stable total order across
// sessions. Records are append-only.
type ChatMessageRecord struct {
	ID        int64
	SessionID string
	Role      MessageRole
	Content   string
	CreatedAt time.Time
}

// SearchAttemptRecord captures one product-seeking user message and its
// retrieval outcome. Exactly one is written per product-seeking message.
type SearchAttemptRecord struct {
	ID            int64
	SessionID     string
	MessageID     int64
	Query         string
	ProductsFound int
	TopProductIDs []string
	CreatedAt     time.Time
}

// MissingQueryRecord is written if and only if a product-seeking message
// yielded zero qualifying results. It is mutually exclusive with a
// non-empty SearchAttemptRecord for the same message.
type MissingQueryRecord struct {
	ID        int64
	SessionID string
	MessageID int64
	Query     string
	CreatedAt time.Time
}

func isValidMessageRole(r MessageRole) bool {
	return r == MessageRoleUser || r == MessageRoleAssistant
}

// ValidateChatMessage checks a message before it is appended.
func ValidateChatMessage(sessionID string, role MessageRole, content string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}
	if !isValidMessageRole(role) {
		return ErrInvalidRole
	}
	if content == "" {
		return ErrEmptyMessage
	}
	return nil
}
