// Package events publishes document lifecycle events to Redis Streams.
// Publishing is optional: a nil Publisher is a safe no-op so the pipeline
// never depends on Redis being available.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/document-manager/internal/logger"
)

// StreamName is the Redis stream document events are published to.
const StreamName = "document-manager:events"

// asyncPublishTimeout is the context timeout for async publish operations.
const asyncPublishTimeout = 5 * time.Second

// EventType identifies a document lifecycle event.
type EventType string

const (
	EventDocumentCreated EventType = "document.created"
	EventBatchCompleted  EventType = "batch.completed"
)

// DocumentEvent describes one lifecycle event.
type DocumentEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	EventType  EventType `json:"event_type"`
	DocumentID string    `json:"document_id,omitempty"`
	Filename   string    `json:"filename,omitempty"`
	Title      string    `json:"title,omitempty"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	Succeeded  int       `json:"succeeded,omitempty"`
	Failed     int       `json:"failed,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher publishes document events to Redis Streams.
type Publisher struct {
	client *redis.Client
	log    logger.Logger
}

// NewPublisher creates a new event publisher. Returns nil if client is nil.
func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	if client == nil {
		return nil
	}
	return &Publisher{
		client: client,
		log:    log,
	}
}

// Publish sends an event to the Redis stream.
func (p *Publisher) Publish(ctx context.Context, event DocumentEvent) error {
	if p == nil || p.client == nil {
		return nil // No-op if publisher not configured
	}

	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamName,
		Values: map[string]any{
			"event": string(payload),
		},
	})

	if publishErr := result.Err(); publishErr != nil {
		p.log.Error("Failed to publish event",
			logger.String("event_type", string(event.EventType)),
			logger.String("document_id", event.DocumentID),
			logger.Error(publishErr),
		)
		return fmt.Errorf("publish to stream: %w", publishErr)
	}

	p.log.Debug("Published document event",
		logger.String("event_type", string(event.EventType)),
		logger.String("document_id", event.DocumentID),
		logger.String("stream_id", result.Val()),
	)

	return nil
}

// PublishAsync publishes an event asynchronously. Errors are logged but not
// returned; event delivery is never on the ingestion critical path.
func (p *Publisher) PublishAsync(event DocumentEvent) {
	if p == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncPublishTimeout)
		defer cancel()

		if err := p.Publish(ctx, event); err != nil {
			p.log.Error("Async publish failed",
				logger.String("event_type", string(event.EventType)),
				logger.Error(err),
			)
		}
	}()
}
