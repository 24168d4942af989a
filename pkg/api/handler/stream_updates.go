package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nanobanana/agent/pkg/api/response"
	"github.com/nanobanana/agent/pkg/domain"
	"github.com/nanobanana/agent/pkg/logger"
)

type UpdateSubscriber interface {
	Subscribe(conversationID string) chan domain.Update
	Unsubscribe(conversationID string, ch chan domain.Update)
}

type streamUpdates struct {
	provider   ConversationProvider
	subscriber UpdateSubscriber
	writer     response.JSONResponseWriter
}

func NewStreamUpdates(provider ConversationProvider, subscriber UpdateSubscriber) *streamUpdates {
	return &streamUpdates{provider: provider, subscriber: subscriber}
}

// Handle streams conversation updates as server-sent events until the client
// goes away.
func (h *streamUpdates) Handle(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	if _, err := h.provider.GetConversation(r.Context(), conversationID); err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			h.writer.WriteErrorResponse(w, http.StatusNotFound, "Conversation not found.")
			return
		}
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported.")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates := h.subscriber.Subscribe(conversationID)
	defer h.subscriber.Unsubscribe(conversationID, updates)

	slog.InfoContext(r.Context(), "Update stream opened", "conversationID", conversationID)
	defer slog.InfoContext(r.Context(), "Update stream closed", "conversationID", conversationID)

	for {
		select {
		case <-r.Context().Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(update)
			if err != nil {
				slog.ErrorContext(r.Context(), "marshaling update", logger.Err(err))
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}
