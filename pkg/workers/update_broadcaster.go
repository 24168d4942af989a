package workers

import (
	"context"
	"log/slog"

	"github.com/nanobanana/agent/pkg/domain"
)

type UpdatePublisher interface {
	Publish(update domain.Update)
}

// updateBroadcaster drains the orchestrator's updates channel and fans each
// update out to the stream subscribers of its conversation.
type updateBroadcaster struct {
	updatesCh <-chan domain.Update
	publisher UpdatePublisher
}

func NewUpdateBroadcaster(updatesCh <-chan domain.Update, publisher UpdatePublisher) *updateBroadcaster {
	return &updateBroadcaster{
		updatesCh: updatesCh,
		publisher: publisher,
	}
}

func (u *updateBroadcaster) Name() string { return "update_broadcaster" }

func (u *updateBroadcaster) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", u.Name())
	defer slog.Info("Worker stopped", "name", u.Name())

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-u.updatesCh:
			u.publisher.Publish(update)
		}
	}
}
