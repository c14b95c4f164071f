package handlers

import (
	"context"
	"net/http"

	"github.com/winr/fiat-onramp-app/backend/internal/chat/clients"
)

type ChatClient interface {
	Complete(ctx context.Context, messages []clients.Message) (string, error)
	IsEnabled() bool
}

// Chat forwards a conversation to the chat model upstream, or answers with
// the canned reply when the proxy is disabled.
func (h *HTTPHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Messages []clients.Message `json:"messages"`
	}
	if !h.decodeBody(w, r, &body) {
		return
	}
	if len(body.Messages) == 0 {
		h.writeError(w, http.StatusBadRequest, "messages must not be empty")
		return
	}

	reply, err := h.chatClient.Complete(r.Context(), body.Messages)
	if err != nil {
		h.logger.Error("chat completion failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "chat upstream unavailable")
		return
	}
	h.writeData(w, http.StatusOK, map[string]any{"reply": reply, "proxied": h.chatClient.IsEnabled()})
}
