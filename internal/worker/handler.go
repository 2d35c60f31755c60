package worker

import (
	"context"
	"fmt"
	"log"

	"pulsefeed/internal/queue"
)

// MediaRemover abstracts the media service so workers don't depend on the
// storage client directly. Remove must treat a missing object as success.
type MediaRemover interface {
	RemovePostImage(ctx context.Context, key string) error
}

// Handler processes cleanup events from the queue.
type Handler struct {
	remover MediaRemover
}

// NewHandler creates a new event handler.
func NewHandler(remover MediaRemover) *Handler {
	return &Handler{remover: remover}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.CleanupEvent) error {
	switch event.Type {
	case queue.EventMediaCleanup:
		return h.handleMediaCleanup(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}
}

// handleMediaCleanup removes the media object left behind by a deleted post.
// The delete is idempotent, so redelivered events are harmless.
func (h *Handler) handleMediaCleanup(ctx context.Context, event queue.CleanupEvent) error {
	if event.MediaKey == "" {
		return nil
	}

	if err := h.remover.RemovePostImage(ctx, event.MediaKey); err != nil {
		return fmt.Errorf("remove media key=%s: %w", event.MediaKey, err)
	}

	log.Printf("[Worker] MediaCleanup OK: post=%d key=%s", event.PostID, event.MediaKey)
	return nil
}
