package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nanobanana/agent/pkg/domain"
)

// conversationRepository keeps conversations in memory for the lifetime of
// the process. Callers get and put value copies, so a snapshot handed to the
// rendering layer is never mutated behind its back.
type conversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]domain.Conversation
}

func NewConversationRepository() *conversationRepository {
	return &conversationRepository{
		conversations: make(map[string]domain.Conversation),
	}
}

func (r *conversationRepository) Create() domain.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation := domain.Conversation{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now(),
		NextTurnID: 1,
	}
	r.conversations[conversation.ID] = conversation

	return cloneConversation(conversation)
}

func (r *conversationRepository) Get(conversationID string) (domain.Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return domain.Conversation{}, false
	}
	return cloneConversation(conversation), true
}

// StartExchange atomically checks the in-flight guard and appends the new
// user/agent turn pair, assigning monotonic turn IDs. It is the only door
// into a new exchange, so two concurrent submissions cannot both pass the
// pending check.
func (r *conversationRepository) StartExchange(conversationID string, userTurn, agentTurn domain.Turn) (domain.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return domain.Conversation{}, domain.ErrConversationNotFound
	}
	if conversation.InFlight() {
		return domain.Conversation{}, domain.ErrConversationBusy
	}

	userTurn.ID = conversation.NextTurnID
	agentTurn.ID = conversation.NextTurnID + 1
	conversation.NextTurnID += 2
	conversation.Turns = append(conversation.Turns, userTurn, agentTurn)

	r.conversations[conversationID] = conversation

	return cloneConversation(conversation), nil
}

// UpdateTurn replaces the stored turn with the same ID.
func (r *conversationRepository) UpdateTurn(conversationID string, turn domain.Turn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}

	for i := range conversation.Turns {
		if conversation.Turns[i].ID == turn.ID {
			conversation.Turns[i] = turn
			r.conversations[conversationID] = conversation
			return nil
		}
	}

	return domain.ErrConversationNotFound
}

// Clear empties the turn list. Turn IDs keep counting up so a cleared
// conversation never reuses an ID the rendering layer has already seen.
// A conversation with a pending exchange cannot be cleared; the running
// exchange still has to finalize its agent turn.
func (r *conversationRepository) Clear(conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conversation, ok := r.conversations[conversationID]
	if !ok {
		return domain.ErrConversationNotFound
	}
	if conversation.InFlight() {
		return domain.ErrConversationBusy
	}

	conversation.Turns = nil
	r.conversations[conversationID] = conversation

	return nil
}

func cloneConversation(c domain.Conversation) domain.Conversation {
	clone := c
	clone.Turns = make([]domain.Turn, len(c.Turns))
	for i, turn := range c.Turns {
		clone.Turns[i] = cloneTurn(turn)
	}
	return clone
}

func cloneTurn(t domain.Turn) domain.Turn {
	clone := t
	clone.Parts = append([]domain.ContentPart(nil), t.Parts...)
	return clone
}
