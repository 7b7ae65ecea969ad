package web

import (
	"net/http"
	"time"

	"github.com/aviatehq/aviate/app"
	"github.com/aviatehq/aviate/domain/chat"
	"github.com/go-chi/chi/v5"
)

type chatMessageJSON struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	ProjectID string            `json:"projectId,omitempty"`
	Stage     *chatStageJSON    `json:"stage,omitempty"`
	Messages  []chatMessageJSON `json:"messages"`
}

type chatStageJSON struct {
	Product string `json:"product"`
	Slug    string `json:"slug"`
}

type chatResponse struct {
	ConversationID string          `json:"conversationId"`
	Message        chatMessageJSON `json:"message"`
	Usage          chatUsageJSON   `json:"usage"`
	Fallback       bool            `json:"fallback,omitempty"`
}

type chatUsageJSON struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// Chat runs one assistant turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	messages := make([]chat.Message, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = chat.Message{Role: chat.Role(m.Role), Content: m.Content}
	}
	var stage chat.Stage
	if req.Stage != nil {
		stage = chat.Stage{Product: req.Stage.Product, Slug: req.Stage.Slug}
	}

	result, err := h.chat.Send(r.Context(), app.ChatRequest{
		UserID:    currentUser(r.Context()).ID,
		ProjectID: req.ProjectID,
		Stage:     stage,
		Messages:  messages,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}

	if h.metrics != nil {
		outcome := "ok"
		if result.Fallback {
			outcome = "fallback"
		}
		h.metrics.ChatCompletions.WithLabelValues(outcome).Inc()
		h.metrics.ChatTokens.WithLabelValues("prompt").Add(float64(result.Usage.PromptTokens))
		h.metrics.ChatTokens.WithLabelValues("completion").Add(float64(result.Usage.CompletionTokens))
	}

	respondJSON(w, http.StatusOK, chatResponse{
		ConversationID: result.ConversationID,
		Message:        chatMessageJSON{Role: string(result.Message.Role), Content: result.Message.Content},
		Usage: chatUsageJSON{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
		Fallback: result.Fallback,
	})
}

type historyMessageJSON struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// ChatHistory returns a conversation's stored messages.
func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.chat.History(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"), 200)
	if err != nil {
		respondAppError(w, err)
		return
	}

	out := make([]historyMessageJSON, len(msgs))
	for i, m := range msgs {
		out[i] = historyMessageJSON{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": out})
}
