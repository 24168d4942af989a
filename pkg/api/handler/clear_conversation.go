package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/nanobanana/agent/pkg/api/response"
	"github.com/nanobanana/agent/pkg/domain"
)

type ConversationClearer interface {
	ClearConversation(ctx context.Context, conversationID string) error
}

type clearConversation struct {
	clearer ConversationClearer
	writer  response.JSONResponseWriter
}

func NewClearConversation(clearer ConversationClearer) *clearConversation {
	return &clearConversation{clearer: clearer}
}

// Handle empties the turn list. Clearing is irreversible, so the caller must
// say confirm=true explicitly.
func (h *clearConversation) Handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.writer.WriteNoticeResponse(w, http.StatusBadRequest, "Clearing is irreversible. Repeat the request with confirm=true.")
		return
	}

	if err := h.clearer.ClearConversation(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			h.writer.WriteErrorResponse(w, http.StatusNotFound, "Conversation not found.")
			return
		}
		if errors.Is(err, domain.ErrConversationBusy) {
			h.writer.WriteNoticeResponse(w, http.StatusConflict, "Please wait for the current reply to finish.")
			return
		}
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.writer.WriteSuccessResponse(w, map[string]string{
		"status": "cleared",
	})
}
