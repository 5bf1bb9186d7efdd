package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultEmbeddingModel is the OpenAI model used for generating embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
	// DefaultEmbeddingDimensions is the expected dimension of embeddings from text-embedding-3-small
	DefaultEmbeddingDimensions = 1536
	// DefaultChatModel is the OpenAI model used for assistant responses
	DefaultChatModel = openai.GPT4oMini
	// DefaultTemperature keeps phrasing natural but stable
	DefaultTemperature float32 = 0.7
	// DefaultMaxTokens bounds the length of a single assistant response
	DefaultMaxTokens = 800
)

var (
	// ErrEmptyText is returned when text is empty
	ErrEmptyText = errors.New("text cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions, expected 1536")
	// ErrNoAPIKey is returned when OpenAI API key is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrNoChoices is returned when a completion response carries no choices
	ErrNoChoices = errors.New("no completion choices returned")
)

// Message is one chat turn sent to the completion API.
type Message struct {
	Role    string
	Content string
}

// Chat message roles.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// TokenStream is a finite, non-restartable sequence of text fragments.
// Recv returns io.EOF after the final fragment; Close releases the
// underlying connection and must always be called.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// CompletionAPI defines the interface for embedding and chat generation
type CompletionAPI interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	CreateChatCompletion(ctx context.Context, messages []Message) (string, error)
	CreateChatCompletionStream(ctx context.Context, messages []Message) (TokenStream, error)
}

// Client wraps the OpenAI API client with dimension and input validation
type Client struct {
	api        CompletionAPI
	dimensions int
}

type OpenAIAdapter struct {
	client         *openai.Client
	embeddingModel openai.EmbeddingModel
	chatModel      string
	temperature    float32
	maxTokens      int
}

func NewOpenAIAdapter(apiKey string, embeddingModel openai.EmbeddingModel, chatModel string) *OpenAIAdapter {
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	return &OpenAIAdapter{
		client:         openai.NewClient(apiKey),
		embeddingModel: embeddingModel,
		chatModel:      chatModel,
		temperature:    DefaultTemperature,
		maxTokens:      DefaultMaxTokens,
	}
}

// CreateEmbeddings calls the OpenAI API to create one embedding per input text
func (a *OpenAIAdapter) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}
	return embeddings, nil
}

// CreateChatCompletion calls the OpenAI chat API and returns the full response text
func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, messages []Message) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, a.chatRequest(messages))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// CreateChatCompletionStream opens an incremental completion. Fragments are
// produced in model order; the caller owns the stream and must Close it.
func (a *OpenAIAdapter) CreateChatCompletionStream(ctx context.Context, messages []Message) (TokenStream, error) {
	req := a.chatRequest(messages)
	req.Stream = true

	stream, err := a.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, err
	}
	return &openaiTokenStream{stream: stream}, nil
}

func (a *OpenAIAdapter) chatRequest(messages []Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return openai.ChatCompletionRequest{
		Model:       a.chatModel,
		Messages:    msgs,
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	}
}

type openaiTokenStream struct {
	stream *openai.ChatCompletionStream
}

func (s *openaiTokenStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			continue
		}
		content := resp.Choices[0].Delta.Content
		if content == "" {
			// Role-only or empty delta chunks carry no text.
			continue
		}
		return content, nil
	}
}

func (s *openaiTokenStream) Close() error {
	return s.stream.Close()
}

type Config struct {
	APIKey              string
	EmbeddingModel      string
	EmbeddingDimensions int
	ChatModel           string
}

// NewClient creates a new OpenAI client using defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a new OpenAI client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{
		api:        NewOpenAIAdapter(cfg.APIKey, openai.EmbeddingModel(cfg.EmbeddingModel), cfg.ChatModel),
		dimensions: dimensions,
	}
}

// NewClientFromEnv creates a new OpenAI client using OPENAI_API_KEY environment variable
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// GenerateEmbedding generates an embedding for the given text
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	embeddings, err := c.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// GenerateEmbeddings generates one embedding per input text in a single call
func (c *Client) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyText
	}
	for _, t := range texts {
		if t == "" {
			return nil, ErrEmptyText
		}
	}

	embeddings, err := c.api.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	for _, e := range embeddings {
		if len(e) != c.dimensions {
			return nil, ErrWrongDimensions
		}
	}
	return embeddings, nil
}

// Complete runs a single-shot chat completion and returns the response text
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrEmptyText
	}

	text, err := c.api.CreateChatCompletion(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	return text, nil
}

// CompleteStream opens a streamed chat completion. The returned TokenStream
// yields fragments in arrival order and io.EOF when the model is done.
func (c *Client) CompleteStream(ctx context.Context, messages []Message) (TokenStream, error) {
	if len(messages) == 0 {
		return nil, ErrEmptyText
	}

	stream, err := c.api.CreateChatCompletionStream(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat completion stream: %w", err)
	}
	return stream, nil
}

// DrainStream reads a TokenStream to completion, concatenating all fragments.
// Mostly useful in tests and diagnostics.
func DrainStream(stream TokenStream) (string, error) {
	defer stream.Close()

	var out []byte
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return string(out), nil
		}
		if err != nil {
			return string(out), err
		}
		out = append(out, fragment...)
	}
}
