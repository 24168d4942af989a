package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/nanobanana/agent/pkg/domain"
	"github.com/nanobanana/agent/pkg/logger"
)

type ConversationRepository interface {
	Create() domain.Conversation
	Get(conversationID string) (domain.Conversation, bool)
	StartExchange(conversationID string, userTurn, agentTurn domain.Turn) (domain.Conversation, error)
	UpdateTurn(conversationID string, turn domain.Turn) error
	Clear(conversationID string) error
}

type AIClient interface {
	GenerateTextResponse(ctx context.Context, prompt string, history []domain.Turn, attachedImage string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type IntentDetector interface {
	ShouldGenerateImage(prompt string) bool
}

const (
	imageAckTemplate    = "Generating your visualization of %q now…"
	imageAckPrompt      = "The user asked you to create this visualization: %q. Reply with one short sentence confirming you are generating it now."
	defaultVisionPrompt = "What's in this image?"
)

type conversationService struct {
	repo        ConversationRepository
	aiClient    AIClient
	intent      IntentDetector
	historySize int
	updatesCh   chan<- domain.Update
}

func NewConversationService(
	repo ConversationRepository,
	aiClient AIClient,
	intent IntentDetector,
	historySize int,
	updatesCh chan<- domain.Update,
) *conversationService {
	return &conversationService{
		repo:        repo,
		aiClient:    aiClient,
		intent:      intent,
		historySize: historySize,
		updatesCh:   updatesCh,
	}
}

func (s *conversationService) StartConversation(ctx context.Context) domain.Conversation {
	conversation := s.repo.Create()
	slog.InfoContext(ctx, "Conversation started", "conversationID", conversation.ID)
	return conversation
}

func (s *conversationService) GetConversation(ctx context.Context, conversationID string) (domain.Conversation, error) {
	conversation, ok := s.repo.Get(conversationID)
	if !ok {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	return conversation, nil
}

// SubmitTurn runs one exchange: it appends the user turn and a pending agent
// turn, picks the image or text path, and mutates the agent turn through its
// intermediate states until it is finalized. Every mutation is published to
// the updates channel as it happens. A capability failure finalizes the agent
// turn with the fixed failure text; only precondition violations are returned
// as errors.
func (s *conversationService) SubmitTurn(ctx context.Context, conversationID, text, attachedImage string, imageMode bool) (domain.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" && attachedImage == "" {
		return domain.Turn{}, domain.ErrEmptySubmission
	}

	now := time.Now()
	userTurn := domain.Turn{Role: domain.RoleUser, CreatedAt: now}
	if text != "" {
		userTurn.Parts = append(userTurn.Parts, domain.TextPart(text))
	}
	if attachedImage != "" {
		userTurn.Parts = append(userTurn.Parts, domain.ImagePart(attachedImage))
	}
	agentTurn := domain.Turn{Role: domain.RoleAgent, CreatedAt: now, Pending: true}

	conversation, err := s.repo.StartExchange(conversationID, userTurn, agentTurn)
	if err != nil {
		return domain.Turn{}, err
	}

	userTurn = conversation.Turns[len(conversation.Turns)-2]
	agentTurn = conversation.Turns[len(conversation.Turns)-1]

	s.publishTyping(conversationID, true)
	defer s.publishTyping(conversationID, false)
	s.publishTurn(conversationID, userTurn)
	s.publishTurn(conversationID, agentTurn)

	// The in-flight pair is not part of its own history.
	history := HistoryWindow(conversation.Turns[:len(conversation.Turns)-2], s.historySize)

	imagePath := attachedImage == "" && (imageMode || s.intent.ShouldGenerateImage(text))

	var parts []domain.ContentPart
	if imagePath {
		parts, err = s.runImagePath(ctx, conversationID, &agentTurn, text, imageMode)
	} else {
		parts, err = s.runTextPath(ctx, history, text, attachedImage)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Exchange failed", "conversationID", conversationID, "turnID", agentTurn.ID, logger.Err(err))
		parts = []domain.ContentPart{domain.TextPart(domain.GenerationFailedMessage)}
	}

	agentTurn.Parts = parts
	agentTurn.Pending = false
	if err := s.repo.UpdateTurn(conversationID, agentTurn); err != nil {
		return domain.Turn{}, fmt.Errorf("finalizing agent turn: %w", err)
	}
	s.publishTurn(conversationID, agentTurn)

	return agentTurn, nil
}

// runImagePath acknowledges the request first, then generates the image. The
// two calls are strictly sequential; the acknowledgement is visible to the
// rendering layer while the image is still being produced.
func (s *conversationService) runImagePath(ctx context.Context, conversationID string, agentTurn *domain.Turn, text string, imageMode bool) ([]domain.ContentPart, error) {
	slog.InfoContext(ctx, "Taking image generation path", "conversationID", conversationID, "forced", imageMode)

	var ack string
	if imageMode {
		ack = fmt.Sprintf(imageAckTemplate, text)
	} else {
		var err error
		ack, err = s.aiClient.GenerateTextResponse(ctx, fmt.Sprintf(imageAckPrompt, text), nil, "")
		if err != nil {
			return nil, fmt.Errorf("generating acknowledgement: %w", err)
		}
	}

	agentTurn.Parts = []domain.ContentPart{domain.TextPart(ack)}
	if err := s.repo.UpdateTurn(conversationID, *agentTurn); err != nil {
		return nil, fmt.Errorf("storing acknowledgement: %w", err)
	}
	s.publishTurn(conversationID, *agentTurn)

	image, err := s.aiClient.GenerateImage(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("generating image: %w", err)
	}

	return []domain.ContentPart{domain.TextPart(ack), domain.ImagePart(image)}, nil
}

func (s *conversationService) runTextPath(ctx context.Context, history []domain.Turn, text, attachedImage string) ([]domain.ContentPart, error) {
	prompt := lo.Ternary(text == "" && attachedImage != "", defaultVisionPrompt, text)

	slog.InfoContext(ctx, "Calling model for text response", "historyTurns", len(history), "hasImage", attachedImage != "")

	reply, err := s.aiClient.GenerateTextResponse(ctx, prompt, history, attachedImage)
	if err != nil {
		return nil, fmt.Errorf("generating text response: %w", err)
	}

	return []domain.ContentPart{domain.TextPart(reply)}, nil
}

func (s *conversationService) ClearConversation(ctx context.Context, conversationID string) error {
	if err := s.repo.Clear(conversationID); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Conversation cleared", "conversationID", conversationID)
	return nil
}

func (s *conversationService) publishTurn(conversationID string, turn domain.Turn) {
	s.updatesCh <- domain.Update{ConversationID: conversationID, Turn: &turn}
}

func (s *conversationService) publishTyping(conversationID string, typing bool) {
	s.updatesCh <- domain.Update{ConversationID: conversationID, Typing: &typing}
}
