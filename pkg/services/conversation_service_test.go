package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nanobanana/agent/pkg/domain"
	"github.com/nanobanana/agent/pkg/repository"
)

type textCall struct {
	prompt        string
	history       []domain.Turn
	attachedImage string
}

type fakeAIClient struct {
	textResponse string
	textErr      error
	imageURI     string
	imageErr     error

	textCalls  []textCall
	imageCalls []string
}

func (f *fakeAIClient) GenerateTextResponse(_ context.Context, prompt string, history []domain.Turn, attachedImage string) (string, error) {
	f.textCalls = append(f.textCalls, textCall{prompt: prompt, history: history, attachedImage: attachedImage})
	return f.textResponse, f.textErr
}

func (f *fakeAIClient) GenerateImage(_ context.Context, prompt string) (string, error) {
	f.imageCalls = append(f.imageCalls, prompt)
	return f.imageURI, f.imageErr
}

type detectorFunc func(string) bool

func (d detectorFunc) ShouldGenerateImage(prompt string) bool { return d(prompt) }

type testEnv struct {
	service *conversationService
	repo    ConversationRepository
	ai      *fakeAIClient
	updates chan domain.Update
}

func newTestEnv(detect detectorFunc) *testEnv {
	repo := repository.NewConversationRepository()
	ai := &fakeAIClient{
		textResponse: "model reply",
		imageURI:     "data:image/png;base64,aW1n",
	}
	updates := make(chan domain.Update, 128)
	return &testEnv{
		service: NewConversationService(repo, ai, detect, 6, updates),
		repo:    repo,
		ai:      ai,
		updates: updates,
	}
}

func neverImage(string) bool  { return false }
func alwaysImage(string) bool { return true }

func (e *testEnv) drainUpdates() []domain.Update {
	var out []domain.Update
	for {
		select {
		case u := <-e.updates:
			out = append(out, u)
		default:
			return out
		}
	}
}

func TestSubmitTurnEmptySubmissionIsNoOp(t *testing.T) {
	env := newTestEnv(neverImage)
	conversation := env.service.StartConversation(context.Background())

	_, err := env.service.SubmitTurn(context.Background(), conversation.ID, "   ", "", false)
	if !errors.Is(err, domain.ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}

	current, _ := env.repo.Get(conversation.ID)
	if len(current.Turns) != 0 {
		t.Errorf("turn list changed: %d turns", len(current.Turns))
	}
	if len(env.ai.textCalls)+len(env.ai.imageCalls) != 0 {
		t.Error("capability called for empty submission")
	}
	if got := env.drainUpdates(); len(got) != 0 {
		t.Errorf("expected no updates, got %d", len(got))
	}
}

func TestSubmitTurnRejectedWhileExchangePending(t *testing.T) {
	env := newTestEnv(neverImage)
	conversation := env.service.StartConversation(context.Background())

	// Leave a pending agent turn in place, as if an exchange were running.
	_, err := env.repo.StartExchange(conversation.ID,
		domain.Turn{Role: domain.RoleUser, Parts: []domain.ContentPart{domain.TextPart("first")}},
		domain.Turn{Role: domain.RoleAgent, Pending: true},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = env.service.SubmitTurn(context.Background(), conversation.ID, "second", "", false)
	if !errors.Is(err, domain.ErrConversationBusy) {
		t.Fatalf("expected ErrConversationBusy, got %v", err)
	}

	current, _ := env.repo.Get(conversation.ID)
	if len(current.Turns) != 2 {
		t.Errorf("turn list changed: %d turns", len(current.Turns))
	}
	if len(env.ai.textCalls)+len(env.ai.imageCalls) != 0 {
		t.Error("capability called while busy")
	}
}

func TestSubmitTurnForcedImageMode(t *testing.T) {
	env := newTestEnv(neverImage)
	conversation := env.service.StartConversation(context.Background())

	agentTurn, err := env.service.SubmitTurn(context.Background(), conversation.ID, "a cyberpunk city", "", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if agentTurn.Pending {
		t.Error("agent turn still pending")
	}
	if len(agentTurn.Parts) != 2 {
		t.Fatalf("expected ack + image, got %d parts", len(agentTurn.Parts))
	}
	if agentTurn.Parts[0].Type != domain.ContentPartTypeText || !strings.Contains(agentTurn.Parts[0].Data, "a cyberpunk city") {
		t.Errorf("ack does not reference the request: %+v", agentTurn.Parts[0])
	}
	if agentTurn.Parts[1].Type != domain.ContentPartTypeImage || agentTurn.Parts[1].Data != env.ai.imageURI {
		t.Errorf("unexpected image part: %+v", agentTurn.Parts[1])
	}

	// Forced mode synthesizes the ack locally.
	if len(env.ai.textCalls) != 0 {
		t.Errorf("expected no text call, got %d", len(env.ai.textCalls))
	}
	if len(env.ai.imageCalls) != 1 || env.ai.imageCalls[0] != "a cyberpunk city" {
		t.Errorf("unexpected image calls: %v", env.ai.imageCalls)
	}
}

func TestSubmitTurnHeuristicImagePathAsksModelForAck(t *testing.T) {
	env := newTestEnv(alwaysImage)
	env.ai.textResponse = "On it, drawing your mountain."
	conversation := env.service.StartConversation(context.Background())

	agentTurn, err := env.service.SubmitTurn(context.Background(), conversation.ID, "draw me a mountain", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.ai.textCalls) != 1 {
		t.Fatalf("expected one ack call, got %d", len(env.ai.textCalls))
	}
	if env.ai.textCalls[0].history != nil || env.ai.textCalls[0].attachedImage != "" {
		t.Errorf("ack call should carry no history or image: %+v", env.ai.textCalls[0])
	}
	if agentTurn.Parts[0].Data != "On it, drawing your mountain." {
		t.Errorf("unexpected ack: %q", agentTurn.Parts[0].Data)
	}
	if len(env.ai.imageCalls) != 1 {
		t.Fatalf("expected one image call, got %d", len(env.ai.imageCalls))
	}
}

func TestSubmitTurnTextPath(t *testing.T) {
	env := newTestEnv(neverImage)
	conversation := env.service.StartConversation(context.Background())

	agentTurn, err := env.service.SubmitTurn(context.Background(), conversation.ID, "hello, how are you", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.ai.textCalls) != 1 {
		t.Fatalf("expected one text call, got %d", len(env.ai.textCalls))
	}
	if len(env.ai.imageCalls) != 0 {
		t.Fatalf("expected no image calls, got %d", len(env.ai.imageCalls))
	}
	if agentTurn.Pending || len(agentTurn.Parts) != 1 || agentTurn.Parts[0].Data != "model reply" {
		t.Errorf("unexpected final turn: %+v", agentTurn)
	}
}

func TestSubmitTurnAttachedImageForcesTextPath(t *testing.T) {
	env := newTestEnv(alwaysImage)
	conversation := env.service.StartConversation(context.Background())

	attached := "data:image/jpeg;base64,cGhvdG8="
	_, err := env.service.SubmitTurn(context.Background(), conversation.ID, "", attached, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(env.ai.imageCalls) != 0 {
		t.Error("image generation must not run when an image is attached")
	}
	if len(env.ai.textCalls) != 1 {
		t.Fatalf("expected one text call, got %d", len(env.ai.textCalls))
	}
	if env.ai.textCalls[0].prompt != defaultVisionPrompt {
		t.Errorf("expected default vision prompt, got %q", env.ai.textCalls[0].prompt)
	}
	if env.ai.textCalls[0].attachedImage != attached {
		t.Errorf("attached image not forwarded: %q", env.ai.textCalls[0].attachedImage)
	}
}

func TestSubmitTurnImageFailureIsTerminalForTurnOnly(t *testing.T) {
	env := newTestEnv(neverImage)
	env.ai.imageErr = errors.New("model unavailable")
	conversation := env.service.StartConversation(context.Background())

	agentTurn, err := env.service.SubmitTurn(context.Background(), conversation.ID, "a red panda", "", true)
	if err != nil {
		t.Fatalf("failure must not surface as submission error, got %v", err)
	}

	if agentTurn.Pending {
		t.Error("failed turn left pending")
	}
	if len(agentTurn.Parts) != 1 || agentTurn.Parts[0].Data != domain.GenerationFailedMessage {
		t.Errorf("expected fixed failure message, got %+v", agentTurn.Parts)
	}

	// The conversation stays usable.
	env.ai.imageErr = nil
	if _, err := env.service.SubmitTurn(context.Background(), conversation.ID, "try again", "", true); err != nil {
		t.Fatalf("conversation unusable after failure: %v", err)
	}
}

func TestSubmitTurnBoundedHistoryWindow(t *testing.T) {
	env := newTestEnv(neverImage)
	conversation := env.service.StartConversation(context.Background())

	// Five completed exchanges leave ten prior turns.
	for i := 0; i < 5; i++ {
		if _, err := env.service.SubmitTurn(context.Background(), conversation.ID, fmt.Sprintf("message %d", i), "", false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if _, err := env.service.SubmitTurn(context.Background(), conversation.ID, "latest", "", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	last := env.ai.textCalls[len(env.ai.textCalls)-1]
	if len(last.history) != 6 {
		t.Fatalf("expected window of 6, got %d", len(last.history))
	}
	// Most recent six of the ten prior turns, original order: IDs 5..10.
	for i, turn := range last.history {
		if want := int64(5 + i); turn.ID != want {
			t.Errorf("history[%d]: got turn %d, want %d", i, turn.ID, want)
		}
	}
}

func TestSubmitTurnPublishesIntermediateStates(t *testing.T) {
	env := newTestEnv(neverImage)
	conversation := env.service.StartConversation(context.Background())

	if _, err := env.service.SubmitTurn(context.Background(), conversation.ID, "a castle", "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updates := env.drainUpdates()

	var turnStates []string
	var typingStates []bool
	for _, u := range updates {
		if u.Turn != nil && u.Turn.Role == domain.RoleAgent {
			turnStates = append(turnStates, fmt.Sprintf("parts=%d pending=%t", len(u.Turn.Parts), u.Turn.Pending))
		}
		if u.Typing != nil {
			typingStates = append(typingStates, *u.Typing)
		}
	}

	want := []string{"parts=0 pending=true", "parts=1 pending=true", "parts=2 pending=false"}
	if len(turnStates) != len(want) {
		t.Fatalf("agent turn updates: got %v, want %v", turnStates, want)
	}
	for i := range want {
		if turnStates[i] != want[i] {
			t.Errorf("update %d: got %q, want %q", i, turnStates[i], want[i])
		}
	}

	if len(typingStates) != 2 || !typingStates[0] || typingStates[1] {
		t.Errorf("expected typing true then false, got %v", typingStates)
	}
}
