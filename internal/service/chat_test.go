package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
)

// MockIntentDecider is a mock implementation of IntentDecider
type MockIntentDecider struct {
	mock.Mock
}

func (m *MockIntentDecider) Classify(ctx context.Context, message string) bool {
	args := m.Called(ctx, message)
	return args.Bool(0)
}

// MockProductSearcher is a mock implementation of ProductSearcher
type MockProductSearcher struct {
	mock.Mock
}

func (m *MockProductSearcher) Search(ctx context.Context, query string, topK int, minSimilarity float32) ([]domain.SearchResult, error) {
	args := m.Called(ctx, query, topK, minSimilarity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

// MockResponder is a mock implementation of Responder
type MockResponder struct {
	mock.Mock
}

func (m *MockResponder) Respond(ctx context.Context, userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) (string, error) {
	args := m.Called(ctx, userMessage, history, productSeeking, products)
	return args.String(0), args.Error(1)
}

func (m *MockResponder) RespondStream(ctx context.Context, userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) (<-chan StreamEvent, error) {
	args := m.Called(ctx, userMessage, history, productSeeking, products)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan StreamEvent), args.Error(1)
}

// MockConversationLedger is a mock implementation of ConversationLedger
type MockConversationLedger struct {
	mock.Mock
}

func (m *MockConversationLedger) EnsureSession(ctx context.Context, sessionID string) (domain.ConversationSession, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(domain.ConversationSession), args.Error(1)
}

func (m *MockConversationLedger) RecordMessage(ctx context.Context, sessionID string, role domain.MessageRole, content string) (domain.ChatMessageRecord, error) {
	args := m.Called(ctx, sessionID, role, content)
	return args.Get(0).(domain.ChatMessageRecord), args.Error(1)
}

func (m *MockConversationLedger) RecordSearchAttempt(ctx context.Context, sessionID string, messageID int64, query string, results []domain.SearchResult) error {
	args := m.Called(ctx, sessionID, messageID, query, results)
	return args.Error(0)
}

func (m *MockConversationLedger) RecordMissingQuery(ctx context.Context, sessionID string, messageID int64, query string) error {
	args := m.Called(ctx, sessionID, messageID, query)
	return args.Error(0)
}

func (m *MockConversationLedger) SessionMessages(ctx context.Context, sessionID string) ([]domain.ChatMessageRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessageRecord), args.Error(1)
}

// MockReadinessProbe is a mock implementation of ReadinessProbe
type MockReadinessProbe struct {
	mock.Mock
}

func (m *MockReadinessProbe) Initialized(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

type chatFixture struct {
	readiness *MockReadinessProbe
	retriever *MockProductSearcher
	intent    *MockIntentDecider
	assistant *MockResponder
	ledger    *MockConversationLedger
	service   *ChatService
}

func newChatFixture() *chatFixture {
	f := &chatFixture{
		readiness: new(MockReadinessProbe),
		retriever: new(MockProductSearcher),
		intent:    new(MockIntentDecider),
		assistant: new(MockResponder),
		ledger:    new(MockConversationLedger),
	}
	f.service = NewChatService(f.readiness, f.retriever, f.intent, f.assistant, f.ledger, 5, 0.5)
	return f
}

func (f *chatFixture) expectSession(sessionID string, history []domain.ChatMessageRecord, userMsgID int64, message string) {
	f.readiness.On("Initialized", mock.Anything).Return(true, nil)
	f.ledger.On("EnsureSession", mock.Anything, sessionID).Return(domain.ConversationSession{ID: sessionID}, nil)
	f.ledger.On("SessionMessages", mock.Anything, sessionID).Return(history, nil)
	f.ledger.On("RecordMessage", mock.Anything, sessionID, domain.MessageRoleUser, message).
		Return(domain.ChatMessageRecord{ID: userMsgID, SessionID: sessionID, Role: domain.MessageRoleUser, Content: message}, nil)
}

func TestChatService_Chat_EmptyMessage(t *testing.T) {
	f := newChatFixture()

	_, err := f.service.Chat(context.Background(), "s1", "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	f.readiness.AssertNotCalled(t, "Initialized")
}

func TestChatService_Chat_NotInitialized(t *testing.T) {
	f := newChatFixture()
	f.readiness.On("Initialized", mock.Anything).Return(false, nil)

	_, err := f.service.Chat(context.Background(), "s1", "hoodies?")

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	f.ledger.AssertNotCalled(t, "EnsureSession")
}

func TestChatService_Chat_GeneratesSessionID(t *testing.T) {
	f := newChatFixture()
	f.readiness.On("Initialized", mock.Anything).Return(true, nil)
	f.ledger.On("EnsureSession", mock.Anything, mock.MatchedBy(func(id string) bool {
		return id != ""
	})).Return(domain.ConversationSession{}, nil)
	f.ledger.On("SessionMessages", mock.Anything, mock.Anything).Return([]domain.ChatMessageRecord{}, nil)
	f.ledger.On("RecordMessage", mock.Anything, mock.Anything, domain.MessageRoleUser, "hello").
		Return(domain.ChatMessageRecord{ID: 1}, nil)
	f.intent.On("Classify", mock.Anything, "hello").Return(false)
	f.retriever.On("Search", mock.Anything, mock.Anything, 5, float32(0.5)).Return([]domain.SearchResult{}, nil)
	f.assistant.On("Respond", mock.Anything, "hello", mock.Anything, false, mock.Anything).Return("Hi!", nil)
	f.ledger.On("RecordMessage", mock.Anything, mock.Anything, domain.MessageRoleAssistant, "Hi!").
		Return(domain.ChatMessageRecord{ID: 2}, nil)

	result, err := f.service.Chat(context.Background(), "", "hello")

	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
}

func TestChatService_Chat_ProductSeekingWithResults(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "do you have hoodies?")

	results := []domain.SearchResult{searchResult("p1", 0.9), searchResult("p2", 0.7)}
	f.intent.On("Classify", mock.Anything, "do you have hoodies?").Return(true)
	f.retriever.On("Search", mock.Anything, "do you have hoodies?", 5, float32(0.5)).Return(results, nil)
	f.ledger.On("RecordSearchAttempt", mock.Anything, "s1", int64(10), "do you have hoodies?", results).Return(nil)
	f.assistant.On("Respond", mock.Anything, "do you have hoodies?", mock.Anything, true, results).
		Return("Try the **Acme Hoodie**!", nil)
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "Try the **Acme Hoodie**!").
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	result, err := f.service.Chat(context.Background(), "s1", "do you have hoodies?")

	require.NoError(t, err)
	assert.Equal(t, "s1", result.SessionID)
	assert.Equal(t, "Try the **Acme Hoodie**!", result.Message)
	assert.Len(t, result.Products, 2)
	f.ledger.AssertNotCalled(t, "RecordMissingQuery")
	f.ledger.AssertExpectations(t)
}

func TestChatService_Chat_AnalyticsFailureDoesNotFailTurn(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "do you sell umbrellas?")

	f.intent.On("Classify", mock.Anything, "do you sell umbrellas?").Return(true)
	f.retriever.On("Search", mock.Anything, "do you sell umbrellas?", 5, float32(0.5)).Return([]domain.SearchResult{}, nil)
	f.ledger.On("RecordSearchAttempt", mock.Anything, "s1", int64(10), "do you sell umbrellas?", mock.Anything).
		Return(errors.New("analytics table unavailable"))
	f.ledger.On("RecordMissingQuery", mock.Anything, "s1", int64(10), "do you sell umbrellas?").
		Return(errors.New("analytics table unavailable"))
	f.assistant.On("Respond", mock.Anything, "do you sell umbrellas?", mock.Anything, true, mock.Anything).
		Return("Sorry, no umbrellas.", nil)
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "Sorry, no umbrellas.").
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	// The reply still goes out when the analytics rows cannot be stored.
	result, err := f.service.Chat(context.Background(), "s1", "do you sell umbrellas?")

	require.NoError(t, err)
	assert.Equal(t, "Sorry, no umbrellas.", result.Message)
	f.ledger.AssertExpectations(t)
}

func TestChatService_Chat_CasualConversation(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "hello there")

	// Retrieval still runs, but the results are discarded for casual chat.
	f.intent.On("Classify", mock.Anything, "hello there").Return(false)
	f.retriever.On("Search", mock.Anything, "hello there", 5, float32(0.5)).
		Return([]domain.SearchResult{searchResult("p1", 0.6)}, nil)
	f.assistant.On("Respond", mock.Anything, "hello there", mock.Anything, false, mock.MatchedBy(func(p []domain.SearchResult) bool {
		return len(p) == 0
	})).Return("Hi! How can I help?", nil)
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "Hi! How can I help?").
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	result, err := f.service.Chat(context.Background(), "s1", "hello there")

	require.NoError(t, err)
	assert.Empty(t, result.Products)
	f.ledger.AssertNotCalled(t, "RecordSearchAttempt")
	f.ledger.AssertNotCalled(t, "RecordMissingQuery")
}

func TestChatService_Chat_ProductSeekingNoResults(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "do you sell umbrellas?")

	f.intent.On("Classify", mock.Anything, "do you sell umbrellas?").Return(true)
	f.retriever.On("Search", mock.Anything, "do you sell umbrellas?", 5, float32(0.5)).
		Return([]domain.SearchResult{}, nil)
	f.ledger.On("RecordSearchAttempt", mock.Anything, "s1", int64(10), "do you sell umbrellas?", mock.Anything).Return(nil)
	f.ledger.On("RecordMissingQuery", mock.Anything, "s1", int64(10), "do you sell umbrellas?").Return(nil)
	f.assistant.On("Respond", mock.Anything, "do you sell umbrellas?", mock.Anything, true, mock.MatchedBy(func(p []domain.SearchResult) bool {
		return len(p) == 0
	})).Return("Sorry, we don't carry umbrellas.", nil)
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "Sorry, we don't carry umbrellas.").
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	result, err := f.service.Chat(context.Background(), "s1", "do you sell umbrellas?")

	require.NoError(t, err)
	assert.Empty(t, result.Products)
	f.ledger.AssertExpectations(t)
}

func TestChatService_Chat_ExpandsQueryForRetrieval(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "something for winter")

	f.intent.On("Classify", mock.Anything, "something for winter").Return(true)
	// Retrieval sees the expanded query; the ledger records the original.
	f.retriever.On("Search", mock.Anything, "something for winter warm hoodie fleece jacket beanie cold weather", 5, float32(0.5)).
		Return([]domain.SearchResult{searchResult("p1", 0.8)}, nil)
	f.ledger.On("RecordSearchAttempt", mock.Anything, "s1", int64(10), "something for winter", mock.Anything).Return(nil)
	f.assistant.On("Respond", mock.Anything, "something for winter", mock.Anything, true, mock.Anything).Return("ok", nil)
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "ok").
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	_, err := f.service.Chat(context.Background(), "s1", "something for winter")

	require.NoError(t, err)
	f.retriever.AssertExpectations(t)
	f.ledger.AssertExpectations(t)
}

func TestChatService_Chat_PassesHistoryToAssistant(t *testing.T) {
	f := newChatFixture()
	history := []domain.ChatMessageRecord{
		{ID: 1, Role: domain.MessageRoleUser, Content: "hi"},
		{ID: 2, Role: domain.MessageRoleAssistant, Content: "hello!"},
	}
	f.expectSession("s1", history, 10, "and hoodies?")

	f.intent.On("Classify", mock.Anything, mock.Anything).Return(false)
	f.retriever.On("Search", mock.Anything, mock.Anything, 5, float32(0.5)).Return([]domain.SearchResult{}, nil)
	f.assistant.On("Respond", mock.Anything, "and hoodies?", history, false, mock.Anything).Return("sure", nil)
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "sure").
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	_, err := f.service.Chat(context.Background(), "s1", "and hoodies?")

	require.NoError(t, err)
	f.assistant.AssertExpectations(t)
}

func TestChatService_ChatStream_PersistsReplyOnDone(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "hoodies?")

	results := []domain.SearchResult{searchResult("p1", 0.9)}
	f.intent.On("Classify", mock.Anything, "hoodies?").Return(true)
	f.retriever.On("Search", mock.Anything, "hoodies?", 5, float32(0.5)).Return(results, nil)
	f.ledger.On("RecordSearchAttempt", mock.Anything, "s1", int64(10), "hoodies?", results).Return(nil)

	upstream := make(chan StreamEvent, 4)
	upstream <- StreamEvent{Type: StreamEventToken, Content: "Try the "}
	upstream <- StreamEvent{Type: StreamEventToken, Content: "**Acme Hoodie**!"}
	upstream <- StreamEvent{Type: StreamEventProducts, Products: results}
	upstream <- StreamEvent{Type: StreamEventDone}
	close(upstream)
	f.assistant.On("RespondStream", mock.Anything, "hoodies?", mock.Anything, true, results).
		Return((<-chan StreamEvent)(upstream), nil)

	recorded := make(chan struct{})
	f.ledger.On("RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, "Try the **Acme Hoodie**!").
		Run(func(mock.Arguments) { close(recorded) }).
		Return(domain.ChatMessageRecord{ID: 11}, nil)

	sessionID, events, err := f.service.ChatStream(context.Background(), "s1", "hoodies?")
	require.NoError(t, err)
	assert.Equal(t, "s1", sessionID)

	var types []StreamEventType
	for ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []StreamEventType{StreamEventToken, StreamEventToken, StreamEventProducts, StreamEventDone}, types)

	select {
	case <-recorded:
	case <-time.After(time.Second):
		t.Fatal("assistant message was not recorded after the stream completed")
	}
}

func TestChatService_ChatStream_AbandonedStreamNotPersisted(t *testing.T) {
	f := newChatFixture()
	f.expectSession("s1", []domain.ChatMessageRecord{}, 10, "hoodies?")

	f.intent.On("Classify", mock.Anything, mock.Anything).Return(false)
	f.retriever.On("Search", mock.Anything, mock.Anything, 5, float32(0.5)).Return([]domain.SearchResult{}, nil)

	// The upstream never reaches done.
	upstream := make(chan StreamEvent, 1)
	upstream <- StreamEvent{Type: StreamEventToken, Content: "Try"}
	close(upstream)
	f.assistant.On("RespondStream", mock.Anything, mock.Anything, mock.Anything, false, mock.Anything).
		Return((<-chan StreamEvent)(upstream), nil)

	_, events, err := f.service.ChatStream(context.Background(), "s1", "hoodies?")
	require.NoError(t, err)
	for range events {
	}

	// Give the relay goroutine a moment to finish before asserting.
	time.Sleep(50 * time.Millisecond)
	f.ledger.AssertNotCalled(t, "RecordMessage", mock.Anything, "s1", domain.MessageRoleAssistant, mock.Anything)
}
