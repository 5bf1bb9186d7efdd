package service

import (
	"context"
	"log"
	"strings"

	"github.com/Tanmoy-SWE/Intelligent-AI-Based-Ecommerce-Platform/internal/openai"
)

// classifierInstruction is the fixed system instruction for intent
// classification. The model must answer with exactly "true" or "false";
// anything else is treated as false.
const classifierInstruction = `You are an intent classifier for an e-commerce shopping assistant.
Decide whether the user's message is asking to see, find, or buy products ("product-seeking")
or is just casual conversation.

Respond with exactly one word: "true" if the message is product-seeking, "false" otherwise.
Do not include any other text.`

// fallbackIntentKeywords drive the keyword heuristic used only when the
// classifier call itself fails. Deliberately coarser than the model.
var fallbackIntentKeywords = []string{"show", "find", "have", "need", "want", "buy"}

// Completer runs a single-shot chat completion.
type Completer interface {
	Complete(ctx context.Context, messages []openai.Message) (string, error)
}

// IntentClassifier decides whether a message is product-seeking. The
// primary strategy delegates to a language model; a keyword heuristic
// covers classifier outages so one degraded guess never fails the turn.
type IntentClassifier struct {
	llm Completer
}

func NewIntentClassifier(llm Completer) *IntentClassifier {
	return &IntentClassifier{llm: llm}
}

// Classify returns true when the message is product-seeking. It never
// returns an error: classifier failures degrade to the keyword fallback.
func (c *IntentClassifier) Classify(ctx context.Context, message string) bool {
	reply, err := c.llm.Complete(ctx, []openai.Message{
		{Role: openai.RoleSystem, Content: classifierInstruction},
		{Role: openai.RoleUser, Content: message},
	})
	if err != nil {
		log.Printf("intent classification degraded to keyword fallback: %v", err)
		return keywordIntent(message)
	}

	return strings.EqualFold(strings.TrimSpace(reply), "true")
}

func keywordIntent(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range fallbackIntentKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// expansionGroup maps trigger words to the synonym terms appended when any
// trigger occurs in the query.
type expansionGroup struct {
	triggers []string
	terms    string
}

// expansionGroups fire in definition order; every matching group appends.
var expansionGroups = []expansionGroup{
	{
		triggers: []string{"winter", "cold"},
		terms:    "warm hoodie fleece jacket beanie cold weather",
	},
	{
		triggers: []string{"summer", "hot"},
		terms:    "lightweight breathable t-shirt tee shorts hot weather",
	},
	{
		triggers: []string{"collection", "catalog", "products"},
		terms:    "clothing apparel shirt hoodie accessories",
	},
}

// ExpandQuery appends season and category synonym terms for recognized
// trigger words. The original query is preserved verbatim as a prefix and
// the expansion is deterministic, with no external call.
func ExpandQuery(query string) string {
	lower := strings.ToLower(query)

	expanded := query
	for _, group := range expansionGroups {
		for _, trigger := range group.triggers {
			if strings.Contains(lower, trigger) {
				expanded += " " + group.terms
				break
			}
		}
	}

	return expanded
}
