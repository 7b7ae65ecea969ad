package app

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aviatehq/aviate/domain/chat"
	"github.com/aviatehq/aviate/ports"
	"github.com/rs/zerolog"
)

// ChatService answers workspace chat requests through the external
// completion API and persists the exchange.
type ChatService struct {
	provider      ports.ChatProvider
	conversations ports.ConversationStore
	clock         ports.Clock
	idGen         ports.IDGenerator
	logger        zerolog.Logger
}

// ChatDeps contains dependencies for ChatService.
type ChatDeps struct {
	Provider      ports.ChatProvider
	Conversations ports.ConversationStore
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	Logger        zerolog.Logger
}

// NewChatService creates a chat service.
func NewChatService(deps ChatDeps) *ChatService {
	return &ChatService{
		provider:      deps.Provider,
		conversations: deps.Conversations,
		clock:         deps.Clock,
		idGen:         deps.IDGen,
		logger:        deps.Logger.With().Str("component", "chat").Logger(),
	}
}

// ChatRequest is one assistant invocation.
type ChatRequest struct {
	UserID    string
	ProjectID string
	Stage     chat.Stage
	Messages  []chat.Message
}

// ChatResult carries the assistant reply.
type ChatResult struct {
	ConversationID string
	Message        chat.Message
	Usage          chat.Usage
	Fallback       bool // true when the provider failed and a canned reply was served
}

// Send validates the history, runs the completion, and records the
// exchange. Provider failures of any kind degrade to the fallback message;
// the chat surface never propagates a 5xx for upstream trouble.
func (s *ChatService) Send(ctx context.Context, req ChatRequest) (ChatResult, error) {
	if err := chat.Validate(req.Messages); err != nil {
		return ChatResult{}, err
	}

	now := s.clock.Now()
	conv, err := s.conversations.FindOrCreate(ctx, ports.Conversation{
		ID:        s.idGen.New(),
		UserID:    req.UserID,
		ProjectID: req.ProjectID,
		Product:   req.Stage.Product,
		Stage:     req.Stage.Slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return ChatResult{}, err
	}

	result := ChatResult{ConversationID: conv.ID}

	completion, err := s.provider.Complete(ctx, chat.BuildPrompt(req.Stage, req.Messages))
	if err != nil {
		s.logger.Warn().Err(err).Str("conversation", conv.ID).Msg("completion failed, serving fallback")
		result.Message = chat.Message{Role: chat.RoleAssistant, Content: chat.FallbackMessage}
		result.Fallback = true
	} else {
		result.Message = completion.Message
		result.Usage = completion.Usage
	}

	userTurn := req.Messages[len(req.Messages)-1]
	stored := []ports.StoredMessage{
		{ID: s.idGen.New(), Role: userTurn.Role, Content: userTurn.Content, CreatedAt: now},
		{ID: s.idGen.New(), Role: result.Message.Role, Content: result.Message.Content, CreatedAt: now},
	}
	if err := s.conversations.AppendMessages(ctx, conv.ID, stored); err != nil {
		// History is best-effort; the reply still goes out.
		s.logger.Error().Err(err).Str("conversation", conv.ID).Msg("failed to persist chat history")
	}

	return result, nil
}

// History returns a conversation's stored messages after checking
// ownership.
func (s *ChatService) History(ctx context.Context, userID, conversationID string, limit int) ([]ports.StoredMessage, error) {
	conv, err := s.conversations.Get(ctx, conversationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, ErrForbidden
	}
	return s.conversations.Messages(ctx, conversationID, limit)
}
