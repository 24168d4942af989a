package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/nanobanana/agent/pkg/api/response"
	"github.com/nanobanana/agent/pkg/domain"
)

type ConversationProvider interface {
	GetConversation(ctx context.Context, conversationID string) (domain.Conversation, error)
}

type getConversation struct {
	provider ConversationProvider
	writer   response.JSONResponseWriter
}

func NewGetConversation(provider ConversationProvider) *getConversation {
	return &getConversation{provider: provider}
}

func (h *getConversation) Handle(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.provider.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			h.writer.WriteErrorResponse(w, http.StatusNotFound, "Conversation not found.")
			return
		}
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, conversation)
}
