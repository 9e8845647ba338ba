package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/model"
	"github.com/bbasketballer75/guestfolio/internal/queue"
	"github.com/bbasketballer75/guestfolio/internal/repository"
)

// Blobs is what ingest needs from the blob store.
type Blobs interface {
	Stat(ctx context.Context, objectKey string) (int64, string, error)
	Get(ctx context.Context, objectKey string) (io.ReadCloser, error)
}

// Processor is plugged into the asynq worker loop. It probes freshly uploaded
// photos and marks them ready for moderation.
type Processor struct {
	photos repository.PhotoStore
	store  Blobs
	log    *zap.Logger
}

// NewProcessor constructs a worker processor.
func NewProcessor(photos repository.PhotoStore, store Blobs, log *zap.Logger) *Processor {
	return &Processor{photos: photos, store: store, log: log}
}

// Handler registers the ingest job handler.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.IngestPhotoTask, p.handleIngest)
	return mux
}

func (p *Processor) handleIngest(ctx context.Context, task *asynq.Task) error {
	var payload queue.IngestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	failure := func(err error) error {
		p.log.Error("photo ingest failed",
			zap.String("photo_id", payload.PhotoID),
			zap.Error(err))
		_ = p.photos.UpdatePhotoIngest(ctx, payload.PhotoID, 0, 0, "", model.PhotoFailed)
		return err
	}
	size, contentType, err := p.store.Stat(ctx, payload.ObjectKey)
	if err != nil {
		return failure(err)
	}
	obj, err := p.store.Get(ctx, payload.ObjectKey)
	if err != nil {
		return failure(err)
	}
	defer obj.Close()
	width, height, err := probeDimensions(obj)
	if err != nil {
		return failure(fmt.Errorf("probe %s: %w", payload.FileName, err))
	}
	if err := p.photos.UpdatePhotoIngest(ctx, payload.PhotoID, width, height, contentType, model.PhotoReady); err != nil {
		return failure(err)
	}
	p.log.Info("photo ingested",
		zap.String("photo_id", payload.PhotoID),
		zap.Int64("size", size),
		zap.Int("width", width),
		zap.Int("height", height))
	return nil
}

// probeDimensions decodes only the image header. Codecs are registered via
// the blank imports above; anything else fails ingest.
func probeDimensions(r io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
