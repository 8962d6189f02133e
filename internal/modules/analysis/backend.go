// Package analysis turns stored documents into summaries, risk lists,
// glossaries and conversational answers through a generative-model
// backend.
package analysis

import (
	"context"

	"github.com/clausewise/core/internal/models"
)

const (
	// MaxRisks caps the risk list regardless of what the model returns.
	MaxRisks = 6
	// MaxGlossary caps the glossary the same way.
	MaxGlossary = 10
	// maxChatTurns bounds prompt size for chat invocations.
	maxChatTurns = 12
)

// Reference is a fully-qualified locator plus its MIME type, derived
// fresh for each analysis request and never persisted.
type Reference struct {
	Locator string
	MIME    string
}

// ChatTurn is one prior message in a conversation.
type ChatTurn struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// Backend is the single availability seam over the generative-model
// service. Exactly one implementation is chosen at startup: the live
// backend when a provider is configured, the stand-in otherwise.
//
// Free-text tasks (Summarize, Chat) may return a degraded placeholder
// string alongside a non-nil error; bounded-array tasks return a
// synthetic record the same way. Callers use IsFatal to decide whether
// the degraded value is servable.
type Backend interface {
	Summarize(ctx context.Context, ref Reference, lang string) (string, error)
	ExtractRisks(ctx context.Context, ref Reference) ([]models.Risk, error)
	ExtractGlossary(ctx context.Context, ref Reference, lang string) ([]models.GlossaryEntry, error)
	AnswerQuestion(ctx context.Context, ref *Reference, question, lang string) (string, error)
	Chat(ctx context.Context, turns []ChatTurn, ref *Reference) (string, error)
}
