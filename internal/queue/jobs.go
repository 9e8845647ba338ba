package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// IngestPhotoTask is scheduled each time an album photo is uploaded.
	IngestPhotoTask = "photo:ingest"
)

// IngestPayload is serialized into the task payload so the worker knows which
// object to probe.
type IngestPayload struct {
	PhotoID   string `json:"photo_id"`
	ObjectKey string `json:"object_key"`
	FileName  string `json:"file_name"`
}

// Enqueuer is what the API server needs from the queue; tests stub it.
type Enqueuer interface {
	EnqueueIngest(ctx context.Context, payload IngestPayload) error
}

// Client wraps an asynq client as an Enqueuer.
type Client struct {
	inner *asynq.Client
}

// NewClient wraps an asynq client.
func NewClient(inner *asynq.Client) *Client {
	return &Client{inner: inner}
}

var _ Enqueuer = (*Client)(nil)

// EnqueueIngest enqueues a photo ingest job.
func (c *Client) EnqueueIngest(ctx context.Context, payload IngestPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(IngestPhotoTask, data)
	if _, err := c.inner.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue ingest task: %w", err)
	}
	return nil
}
