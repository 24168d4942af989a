// Package sse fans conversation updates out to server-sent-event
// subscribers.
package sse

import (
	"log/slog"
	"sync"

	"github.com/nanobanana/agent/pkg/domain"
)

const subscriberBuffer = 16

type Broker struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan domain.Update]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string]map[chan domain.Update]struct{}),
	}
}

// Subscribe registers a listener for one conversation's updates. The caller
// must Unsubscribe when done.
func (b *Broker) Subscribe(conversationID string) chan domain.Update {
	ch := make(chan domain.Update, subscriberBuffer)

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[conversationID] == nil {
		b.subscribers[conversationID] = make(map[chan domain.Update]struct{})
	}
	b.subscribers[conversationID][ch] = struct{}{}

	return ch
}

func (b *Broker) Unsubscribe(conversationID string, ch chan domain.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs, ok := b.subscribers[conversationID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}

	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(b.subscribers, conversationID)
	}
}

// Publish delivers an update to every subscriber of its conversation. A slow
// subscriber loses the update rather than stalling the exchange.
func (b *Broker) Publish(update domain.Update) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers[update.ConversationID] {
		select {
		case ch <- update:
		default:
			slog.Warn("Dropping update for slow subscriber", "conversationID", update.ConversationID)
		}
	}
}
