package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/telemetry"
)

// IntentDecider reports whether a message is product-seeking.
type IntentDecider interface {
	Classify(ctx context.Context, message string) bool
}

// ProductSearcher finds catalog products relevant to a query.
type ProductSearcher interface {
	Search(ctx context.Context, query string, topK int, minSimilarity float32) ([]domain.SearchResult, error)
}

// Responder generates the assistant's reply from message, history and
// retrieved products.
type Responder interface {
	Respond(ctx context.Context, userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) (string, error)
	RespondStream(ctx context.Context, userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) (<-chan StreamEvent, error)
}

// ConversationLedger is the persistence surface a chat turn writes to.
type ConversationLedger interface {
	EnsureSession(ctx context.Context, sessionID string) (domain.ConversationSession, error)
	RecordMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string) (domain.ChatMessageRecord, error)
	RecordSearchAttempt(ctx context.Context, sessionID string, messageID int64, query string, results []domain.SearchResult) error
	RecordMissingQuery(ctx context.Context, sessionID string, messageID int64, query string) error
	SessionMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error)
}

// ReadinessProbe reports whether product embeddings are loaded.
type ReadinessProbe interface {
	Initialized(ctx context.Context) (bool, error)
}

// ChatResult is the outcome of one batch chat turn.
type ChatResult struct {
	SessionID string
	Message   string
	Products  []domain.SearchResult
}

// ChatService orchestrates one conversational turn: validation, session
// bookkeeping, intent classification, retrieval, response generation and
// the ledger writes that make the turn auditable.
type ChatService struct {
	readiness     ReadinessProbe
	retriever     ProductSearcher
	intent        IntentDecider
	assistant     Responder
	ledger        ConversationLedger
	topK          int
	minSimilarity float32
}

func NewChatService(readiness ReadinessProbe, retriever ProductSearcher, intent IntentDecider, assistant Responder, ledger ConversationLedger, topK int, minSimilarity float32) *ChatService {
	return &ChatService{
		readiness:     readiness,
		retriever:     retriever,
		intent:        intent,
		assistant:     assistant,
		ledger:        ledger,
		topK:          topK,
		minSimilarity: minSimilarity,
	}
}

// turn carries everything the response phase needs after the shared
// preamble (validation, session, intent, retrieval, ledger) has run.
type turn struct {
	sessionID      string
	message        string
	history        []domain.ChatMessageRecord
	productSeeking bool
	products       []domain.SearchResult
}

// prepare runs the shared front half of a chat turn. Retrieval always
// runs so the assistant can ground even borderline intents; the returned
// products are already gated by the intent decision.
func (s *ChatService) prepare(ctx context.Context, sessionID, message string) (*turn, error) {
	if strings.TrimSpace(message) == "" {
		return nil, domain.ErrEmptyMessage
	}

	ready, err := s.readiness.Initialized(ctx)
	if err != nil {
		return nil, err
	}
	if !ready {
		return nil, domain.ErrNotInitialized
	}

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if _, err := s.ledger.EnsureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	// History is the transcript before this turn, so fetch it before the
	// user message is appended.
	history, err := s.ledger.SessionMessages(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userMsg, err := s.ledger.RecordMessage(ctx, sessionID, domain.MessageRoleUser, message)
	if err != nil {
		return nil, err
	}

	productSeeking := s.intent.Classify(ctx, message)

	results, err := s.retriever.Search(ctx, ExpandQuery(message), s.topK, s.minSimilarity)
	if err != nil {
		return nil, err
	}

	// Analytics writes degrade without failing the turn: the reply still
	// goes out when a reporting row cannot be stored.
	if productSeeking {
		if err := s.ledger.RecordSearchAttempt(ctx, sessionID, userMsg.ID, message, results); err != nil {
			telemetry.CaptureError(ctx, err)
			log.Printf("search attempt not recorded for session %s: %v", sessionID, err)
		}
		if len(results) == 0 {
			if err := s.ledger.RecordMissingQuery(ctx, sessionID, userMsg.ID, message); err != nil {
				telemetry.CaptureError(ctx, err)
				log.Printf("missing query not recorded for session %s: %v", sessionID, err)
			}
		}
	}

	products := results
	if !productSeeking {
		products = nil
	}

	return &turn{
		sessionID:      sessionID,
		message:        message,
		history:        history,
		productSeeking: productSeeking,
		products:       products,
	}, nil
}

// Chat handles one batch turn and returns the complete reply.
func (s *ChatService) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Chat", telemetry.SpanAttributes{
		SessionID: sessionID,
		Operation: "chat",
	})
	defer span.End()

	t, err := s.prepare(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	reply, err := s.assistant.Respond(ctx, t.message, t.history, t.productSeeking, t.products)
	if err != nil {
		return nil, err
	}

	if _, err := s.ledger.RecordMessage(ctx, t.sessionID, domain.MessageRoleAssistant, reply); err != nil {
		return nil, err
	}

	return &ChatResult{
		SessionID: t.sessionID,
		Message:   reply,
		Products:  t.products,
	}, nil
}

// ChatStream handles one streaming turn. The returned channel carries
// token events in generation order, a products event when there are
// products to show, then exactly one done event. The assistant message is
// written to the ledger once the stream completes; a turn abandoned by
// the client leaves no assistant message behind.
func (s *ChatService) ChatStream(ctx context.Context, sessionID, message string) (string, <-chan StreamEvent, error) {
	t, err := s.prepare(ctx, sessionID, message)
	if err != nil {
		return "", nil, err
	}

	upstream, err := s.assistant.RespondStream(ctx, t.message, t.history, t.productSeeking, t.products)
	if err != nil {
		return "", nil, err
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)

		var reply strings.Builder
		var finished bool
		for ev := range upstream {
			switch ev.Type {
			case StreamEventToken, StreamEventError:
				reply.WriteString(ev.Content)
			case StreamEventDone:
				finished = true
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}

		if !finished || reply.Len() == 0 {
			return
		}
		if _, err := s.ledger.RecordMessage(ctx, t.sessionID, domain.MessageRoleAssistant, reply.String()); err != nil {
			telemetry.CaptureError(ctx, err)
			log.Printf("assistant message not recorded for session %s: %v", t.sessionID, err)
		}
	}()

	return t.sessionID, events, nil
}

// SessionMessages exposes a session transcript for replay.
func (s *ChatService) SessionMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error) {
	return s.ledger.SessionMessages(ctx, sessionID)
}
