package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/domain"
	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/openai"
)

const assistantPersona = `You are a knowledgeable and friendly shopping assistant for an online store. You answer
product questions, recommend items, compare similar products, and give style advice.

Response guidelines:
- For product questions, give specific details: price, key features, availability. Be concise.
- For recommendations, suggest 2-3 of the most relevant products and explain why each fits.
- For comparisons, focus on price, style, and intended use so the customer can decide.
- Friendly and conversational, like a knowledgeable store associate. Confident but not pushy.

Formatting rules:
- ALWAYS use **bold** for product names (e.g., **Acme T-Shirt**).
- ALWAYS use **bold** for prices (e.g., **$25.00**).
- Keep responses natural and conversational. Use at most 1-2 emojis per response.

Critical rules, never violate:
1. ONLY recommend products from the "AVAILABLE PRODUCTS" list provided to you.
2. NEVER make up, invent, or hallucinate product names, prices, or details.
3. If no products are provided or none match, say so honestly. Do not invent alternatives.
4. Always use the EXACT product names and prices from the list.
5. Product cards are displayed automatically, so focus on helpful context.

Keep simple answers to 2-4 sentences; recommendations may run up to 6-8 sentences.`

const noResultsContext = `

**NO PRODUCTS FOUND**
No products in the catalog match this request. Tell the customer honestly that there is no
match, and politely suggest different keywords or browsing the full catalog. Do not make up
or suggest products that do not exist.`

const casualContext = `

**CASUAL CONVERSATION**
The customer is not looking for products right now. Just have a friendly conversation. Do
not mention or recommend any products unless they specifically ask.`

// streamErrorText is emitted as the assistant's reply when the upstream
// stream breaks mid-response.
const streamErrorText = "I'm sorry, I ran into a problem while answering. Please try again."

// StreamEventType discriminates the events on an assistant response stream.
type StreamEventType string

const (
	StreamEventToken    StreamEventType = "token"
	StreamEventProducts StreamEventType = "products"
	StreamEventDone     StreamEventType = "done"
	StreamEventError    StreamEventType = "error"
)

// StreamEvent is one element of a streaming assistant response. Token
// events carry Content; the products event carries Products; done and
// error close out the stream.
type StreamEvent struct {
	Type     StreamEventType
	Content  string
	Products []domain.SearchResult
}

// Streamer opens a streaming chat completion.
type Streamer interface {
	CompleteStream(ctx context.Context, messages []openai.Message) (openai.TokenStream, error)
}

// CompletionClient is the slice of the language model client the assistant
// needs: batch and streaming completions.
type CompletionClient interface {
	Completer
	Streamer
}

// Assistant turns a user message, conversation history and retrieved
// products into a grounded reply. It owns prompt construction; retrieval
// and persistence live elsewhere.
type Assistant struct {
	llm          CompletionClient
	historyLimit int
}

func NewAssistant(llm CompletionClient, historyLimit int) *Assistant {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Assistant{llm: llm, historyLimit: historyLimit}
}

// buildContext produces the product context block appended to the persona
// prompt. Three cases: products to ground on, a product-seeking query with
// no matches, or casual conversation.
func buildContext(productSeeking bool, products []domain.SearchResult) string {
	switch {
	case productSeeking && len(products) > 0:
		var b strings.Builder
		b.WriteString("\n\n**AVAILABLE PRODUCTS (Most Relevant First):**\n")
		for i, p := range products {
			fmt.Fprintf(&b, "\n%d. **%s** - %s\n", i+1, p.Metadata.Title, p.Metadata.Price)
			fmt.Fprintf(&b, "   Description: %s\n", p.Metadata.Description)
			availability := "Yes"
			if !p.Metadata.AvailableForSale {
				availability = "No (Out of Stock)"
			}
			fmt.Fprintf(&b, "   In Stock: %s\n", availability)
			fmt.Fprintf(&b, "   Categories: %s\n", strings.Join(p.Metadata.Tags, ", "))
			fmt.Fprintf(&b, "   Handle: %s\n", p.ProductHandle)
		}
		b.WriteString("\n---\n**STRICT INSTRUCTIONS:**\n")
		b.WriteString("- ONLY recommend products from the list above\n")
		b.WriteString("- Use EXACT product names and prices as shown\n")
		b.WriteString("- DO NOT invent or mention any other products\n")
		b.WriteString("- Explain why these specific products match the customer's needs")
		return b.String()
	case productSeeking:
		return noResultsContext
	default:
		return casualContext
	}
}

// buildMessages assembles the full prompt: persona plus context as the
// system message, capped history, then the current user message.
func (a *Assistant) buildMessages(userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) []openai.Message {
	if len(history) > a.historyLimit {
		history = history[len(history)-a.historyLimit:]
	}

	messages := make([]openai.Message, 0, len(history)+2)
	messages = append(messages, openai.Message{
		Role:    openai.RoleSystem,
		Content: assistantPersona + buildContext(productSeeking, products),
	})
	for _, m := range history {
		messages = append(messages, openai.Message{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, openai.Message{Role: openai.RoleUser, Content: userMessage})
	return messages
}

// Respond produces the complete reply in one call.
func (a *Assistant) Respond(ctx context.Context, userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) (string, error) {
	reply, err := a.llm.Complete(ctx, a.buildMessages(userMessage, history, productSeeking, products))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to generate response", err)
	}
	return reply, nil
}

// RespondStream produces the reply as an ordered event stream: zero or
// more token events, then a products event when there are products to
// show, then exactly one done event. On a mid-stream failure the channel
// carries an error event with an apologetic fragment before done. The
// channel is closed after done; cancelling ctx stops the producer.
func (a *Assistant) RespondStream(ctx context.Context, userMessage string, history []domain.ChatMessageRecord, productSeeking bool, products []domain.SearchResult) (<-chan StreamEvent, error) {
	stream, err := a.llm.CompleteStream(ctx, a.buildMessages(userMessage, history, productSeeking, products))
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeUpstream, "failed to generate response", err)
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()

		emit := func(ev StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			token, err := stream.Recv()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				if ctx.Err() != nil {
					return
				}
				// A broken stream terminates immediately: the error
				// fragment is followed by done, never by products.
				if emit(StreamEvent{Type: StreamEventError, Content: streamErrorText}) {
					emit(StreamEvent{Type: StreamEventDone})
				}
				return
			}
			if !emit(StreamEvent{Type: StreamEventToken, Content: token}) {
				return
			}
		}

		if len(products) > 0 {
			if !emit(StreamEvent{Type: StreamEventProducts, Products: products}) {
				return
			}
		}
		emit(StreamEvent{Type: StreamEventDone})
	}()

	return events, nil
}
