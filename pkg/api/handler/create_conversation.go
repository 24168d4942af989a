package handler

import (
	"context"
	"net/http"

	"github.com/nanobanana/agent/pkg/api/response"
	"github.com/nanobanana/agent/pkg/domain"
)

type ConversationStarter interface {
	StartConversation(ctx context.Context) domain.Conversation
}

type createConversation struct {
	starter ConversationStarter
	writer  response.JSONResponseWriter
}

func NewCreateConversation(starter ConversationStarter) *createConversation {
	return &createConversation{starter: starter}
}

func (h *createConversation) Handle(w http.ResponseWriter, r *http.Request) {
	conversation := h.starter.StartConversation(r.Context())

	h.writer.WriteCreatedResponse(w, map[string]string{
		"id": conversation.ID,
	})
}
