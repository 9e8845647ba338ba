package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/model"
	"github.com/bbasketballer75/guestfolio/internal/queue"
	"github.com/bbasketballer75/guestfolio/internal/repository"
)

type fakeBlobs struct {
	objects map[string][]byte
}

func (f *fakeBlobs) Stat(_ context.Context, objectKey string) (int64, string, error) {
	data, ok := f.objects[objectKey]
	if !ok {
		return 0, "", io.ErrUnexpectedEOF
	}
	return int64(len(data)), "image/png", nil
}

func (f *fakeBlobs) Get(_ context.Context, objectKey string) (io.ReadCloser, error) {
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func ingestTask(t *testing.T, payload queue.IngestPayload) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return asynq.NewTask(queue.IngestPhotoTask, data)
}

func TestIngestMarksPhotoReady(t *testing.T) {
	mem := repository.NewMemory()
	require.NoError(t, mem.CreatePhoto(context.Background(), &model.Photo{
		ID:        "p1",
		ObjectKey: "album/p1/pic.png",
		Status:    model.PhotoUploaded,
	}))
	blobs := &fakeBlobs{objects: map[string][]byte{
		"album/p1/pic.png": encodePNG(t, 640, 480),
	}}
	p := NewProcessor(mem, blobs, zap.NewNop())

	task := ingestTask(t, queue.IngestPayload{PhotoID: "p1", ObjectKey: "album/p1/pic.png", FileName: "pic.png"})
	require.NoError(t, p.handleIngest(context.Background(), task))

	photo, err := mem.GetPhoto(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, model.PhotoReady, photo.Status)
	require.Equal(t, 640, photo.Width)
	require.Equal(t, 480, photo.Height)
	// Ingest never grants approval.
	require.False(t, photo.Approved)
}

func TestIngestMarksPhotoFailedOnMissingBlob(t *testing.T) {
	mem := repository.NewMemory()
	require.NoError(t, mem.CreatePhoto(context.Background(), &model.Photo{
		ID:        "p1",
		ObjectKey: "album/p1/pic.png",
		Status:    model.PhotoUploaded,
	}))
	p := NewProcessor(mem, &fakeBlobs{objects: map[string][]byte{}}, zap.NewNop())

	task := ingestTask(t, queue.IngestPayload{PhotoID: "p1", ObjectKey: "album/p1/pic.png"})
	require.Error(t, p.handleIngest(context.Background(), task))

	photo, err := mem.GetPhoto(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, model.PhotoFailed, photo.Status)
}

func TestIngestMarksPhotoFailedOnCorruptImage(t *testing.T) {
	mem := repository.NewMemory()
	require.NoError(t, mem.CreatePhoto(context.Background(), &model.Photo{
		ID:        "p1",
		ObjectKey: "album/p1/pic.png",
		Status:    model.PhotoUploaded,
	}))
	blobs := &fakeBlobs{objects: map[string][]byte{
		"album/p1/pic.png": []byte("not an image"),
	}}
	p := NewProcessor(mem, blobs, zap.NewNop())

	task := ingestTask(t, queue.IngestPayload{PhotoID: "p1", ObjectKey: "album/p1/pic.png", FileName: "pic.png"})
	require.Error(t, p.handleIngest(context.Background(), task))

	photo, err := mem.GetPhoto(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, model.PhotoFailed, photo.Status)
}
