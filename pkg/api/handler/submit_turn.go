package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nanobanana/agent/pkg/api/response"
	"github.com/nanobanana/agent/pkg/domain"
)

type TurnSubmitter interface {
	SubmitTurn(ctx context.Context, conversationID, text, attachedImage string, imageMode bool) (domain.Turn, error)
}

type submitTurnRequest struct {
	Text      string `json:"text"`
	Image     string `json:"image,omitempty"`
	ImageMode bool   `json:"imageMode,omitempty"`
}

type submitTurn struct {
	submitter TurnSubmitter
	writer    response.JSONResponseWriter
}

func NewSubmitTurn(submitter TurnSubmitter) *submitTurn {
	return &submitTurn{submitter: submitter}
}

// Handle runs the whole exchange in the request goroutine and answers with
// the final agent turn; intermediate states are observable on the event
// stream.
func (h *submitTurn) Handle(w http.ResponseWriter, r *http.Request) {
	var req submitTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "Request body is not valid JSON.")
		return
	}

	agentTurn, err := h.submitter.SubmitTurn(r.Context(), r.PathValue("id"), req.Text, req.Image, req.ImageMode)
	switch {
	case err == nil:
		h.writer.WriteSuccessResponse(w, agentTurn)
	case errors.Is(err, domain.ErrEmptySubmission):
		h.writer.WriteNoticeResponse(w, http.StatusBadRequest, "Type a message or attach an image first.")
	case errors.Is(err, domain.ErrConversationBusy):
		h.writer.WriteNoticeResponse(w, http.StatusConflict, "Please wait for the current reply to finish.")
	case errors.Is(err, domain.ErrConversationNotFound):
		h.writer.WriteErrorResponse(w, http.StatusNotFound, "Conversation not found.")
	default:
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}
