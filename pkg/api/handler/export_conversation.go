package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/nanobanana/agent/pkg/api/response"
	"github.com/nanobanana/agent/pkg/domain"
)

type TranscriptExporter interface {
	Export(conversationID string, format string) (domain.File, error)
}

type exportConversation struct {
	exporter TranscriptExporter
	writer   response.JSONResponseWriter
}

func NewExportConversation(exporter TranscriptExporter) *exportConversation {
	return &exportConversation{exporter: exporter}
}

func (h *exportConversation) Handle(w http.ResponseWriter, r *http.Request) {
	format := lo.CoalesceOrEmpty(r.URL.Query().Get("format"), "text")

	file, err := h.exporter.Export(r.PathValue("id"), format)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmptyConversation):
		h.writer.WriteNoticeResponse(w, http.StatusConflict, "Nothing to export yet.")
		return
	case errors.Is(err, domain.ErrConversationNotFound):
		h.writer.WriteErrorResponse(w, http.StatusNotFound, "Conversation not found.")
		return
	default:
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	contentType := lo.Ternary(format == "html", "text/html; charset=utf-8", "text/plain; charset=utf-8")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}
