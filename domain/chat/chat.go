// Package chat provides assistant conversation value types and pure functions.
package chat

import "errors"

// ErrQuotaExhausted signals the upstream completion API rejected the request
// for quota/billing reasons. Callers convert it into a user-facing fallback
// message, never a 5xx.
var ErrQuotaExhausted = errors.New("chat: completion quota exhausted")

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn (value type).
type Message struct {
	Role    Role
	Content string
}

// Usage carries token accounting reported by the completion API.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the result of one completion call.
type Completion struct {
	Message Message
	Usage   Usage
}

// Stage describes where in a guided workflow the user is chatting from.
// Product and Slug select the system prompt template.
type Stage struct {
	Product string
	Slug    string
}

// FallbackMessage is returned when the completion API is unavailable or out
// of quota. The chat surface must always answer.
const FallbackMessage = "I'm having trouble reaching my brain right now. " +
	"Your work is saved - please try again in a moment."

const basePrompt = "You are Aviate's product co-pilot. Be concise, concrete, " +
	"and bias toward the next actionable step. Never invent data the user has " +
	"not provided."

// stagePrompts maps product/stage to the system prompt addendum.
var stagePrompts = map[string]string{
	"foundry/spark":    "The user is capturing a raw idea. Help them sharpen the problem statement.",
	"foundry/validate": "The user is validating demand. Push for falsifiable assumptions and cheap tests.",
	"foundry/shape":    "The user is shaping an MVP. Help them cut scope ruthlessly.",
	"foundry/build":    "The user is building. Keep answers tactical and unblock them fast.",
	"launch/position":  "The user is positioning their product. Help them name the audience and the pain.",
	"launch/message":   "The user is writing launch copy. Offer punchy alternatives, not essays.",
	"launch/channels":  "The user is picking launch channels. Rank options by effort versus reach.",
	"launch/liftoff":   "The user is launching this week. Focus on sequencing and momentum.",
}

// SystemPrompt returns the full system prompt for a stage. Unknown stages
// fall back to the base prompt alone.
// This is a PURE function.
func SystemPrompt(s Stage) string {
	if addendum, ok := stagePrompts[s.Product+"/"+s.Slug]; ok {
		return basePrompt + " " + addendum
	}
	return basePrompt
}

// BuildPrompt prepends the stage system prompt to the user-supplied history.
// This is a PURE function.
func BuildPrompt(s Stage, history []Message) []Message {
	out := make([]Message, 0, len(history)+1)
	out = append(out, Message{Role: RoleSystem, Content: SystemPrompt(s)})
	out = append(out, history...)
	return out
}

// Validate checks that a message history is sendable: non-empty, ends with a
// user turn, and contains no client-injected system messages.
func Validate(history []Message) error {
	if len(history) == 0 {
		return errors.New("chat: empty message history")
	}
	for _, m := range history {
		if m.Role == RoleSystem {
			return errors.New("chat: system messages are not accepted from clients")
		}
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return errors.New("chat: unknown role " + string(m.Role))
		}
		if m.Content == "" {
			return errors.New("chat: empty message content")
		}
	}
	if history[len(history)-1].Role != RoleUser {
		return errors.New("chat: history must end with a user message")
	}
	return nil
}
