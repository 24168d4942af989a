package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/nanobanana/agent/pkg/domain"
	"github.com/nanobanana/agent/pkg/render"
)

const (
	ExportFormatText = "text"
	ExportFormatHTML = "html"
)

type ConversationReader interface {
	Get(conversationID string) (domain.Conversation, bool)
}

type exportService struct {
	repo ConversationReader
}

func NewExportService(repo ConversationReader) *exportService {
	return &exportService{repo: repo}
}

// Export serializes the full turn list into a downloadable transcript, one
// block per turn in chronological order. Exporting an empty conversation is
// an error, not an empty file.
func (s *exportService) Export(conversationID string, format string) (domain.File, error) {
	conversation, ok := s.repo.Get(conversationID)
	if !ok {
		return domain.File{}, domain.ErrConversationNotFound
	}
	if len(conversation.Turns) == 0 {
		return domain.File{}, domain.ErrEmptyConversation
	}

	var body string
	var ext string
	switch format {
	case ExportFormatHTML:
		body, ext = renderHTMLTranscript(conversation), "html"
	case ExportFormatText, "":
		body, ext = renderTextTranscript(conversation), "txt"
	default:
		return domain.File{}, fmt.Errorf("unsupported export format %q", format)
	}

	name := fmt.Sprintf("conversation-%.8s-%s.%s", conversation.ID, time.Now().Format("20060102-150405"), ext)

	return domain.File{Name: name, Data: []byte(body)}, nil
}

func renderTextTranscript(conversation domain.Conversation) string {
	blocks := lo.Map(conversation.Turns, func(turn domain.Turn, _ int) string {
		var b strings.Builder
		fmt.Fprintf(&b, "[%s] %s:\n", turn.CreatedAt.Format(time.DateTime), roleLabel(turn.Role))
		for _, part := range turn.Parts {
			if part.Type == domain.ContentPartTypeText {
				b.WriteString(part.Data)
			} else {
				b.WriteString("[image]")
			}
			b.WriteString("\n")
		}
		return b.String()
	})
	return strings.Join(blocks, "\n")
}

func renderHTMLTranscript(conversation domain.Conversation) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html><body>\n")
	for _, turn := range conversation.Turns {
		fmt.Fprintf(&b, "<article>\n<header>[%s] %s</header>\n", turn.CreatedAt.Format(time.DateTime), roleLabel(turn.Role))
		for _, part := range turn.Parts {
			if part.Type == domain.ContentPartTypeText {
				b.WriteString(render.ToHTML(part.Data))
			} else {
				fmt.Fprintf(&b, `<img src=%q alt="generated image"/>`, part.Data)
			}
			b.WriteString("\n")
		}
		b.WriteString("</article>\n")
	}
	b.WriteString("</body></html>\n")
	return b.String()
}

func roleLabel(role domain.Role) string {
	return lo.Ternary(role == domain.RoleUser, "User", "Agent")
}
