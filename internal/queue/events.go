package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the cleanup stream
const (
	EventMediaCleanup = "media_cleanup"
)

// Stream names
const (
	StreamCleanup = "stream:cleanup"
)

// Consumer group name for cleanup workers
const (
	ConsumerGroupCleanup = "cleanup_workers"
)

// CleanupEvent asks the workers to remove an orphaned media object after its
// post is gone. Removal is best-effort: a post delete never fails because of it.
type CleanupEvent struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	PostID   int64  `json:"post_id"`
	MediaKey string `json:"media_key"`
}

// NewMediaCleanupEvent creates an event for when a post with an attached
// image has been deleted.
func NewMediaCleanupEvent(postID int64, mediaKey string) CleanupEvent {
	return CleanupEvent{
		Type:      EventMediaCleanup,
		Timestamp: time.Now().Unix(),
		PostID:    postID,
		MediaKey:  mediaKey,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so the event is serialized to JSON
// in a "data" field alongside the bare type for quick inspection.
func (e CleanupEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseCleanupEvent parses a CleanupEvent from Redis stream message values.
func ParseCleanupEvent(values map[string]interface{}) (CleanupEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return CleanupEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event CleanupEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return CleanupEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
