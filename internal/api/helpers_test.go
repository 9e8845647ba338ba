package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/config"
	"github.com/bbasketballer75/guestfolio/internal/queue"
	"github.com/bbasketballer75/guestfolio/internal/repository"
)

const testAdminToken = "test-admin-token"

// fakeBlobs records blob operations in memory.
type fakeBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	removed []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Upload(_ context.Context, objectKey string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[objectKey] = data
	return nil
}

func (f *fakeBlobs) Get(_ context.Context, objectKey string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[objectKey]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) Remove(_ context.Context, objectKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, objectKey)
	f.removed = append(f.removed, objectKey)
	return nil
}

func (f *fakeBlobs) PresignGet(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + objectKey, nil
}

func (f *fakeBlobs) has(objectKey string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[objectKey]
	return ok
}

// fakeEnqueuer collects ingest payloads instead of talking to Redis.
type fakeEnqueuer struct {
	mu       sync.Mutex
	enqueued []queue.IngestPayload
}

func (f *fakeEnqueuer) EnqueueIngest(_ context.Context, payload queue.IngestPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, payload)
	return nil
}

// fakeLimiter counts hits per key in process, mirroring the fixed-window
// contract without a broker.
type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int)}
}

func (f *fakeLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key] <= limit, nil
}

type testEnv struct {
	server  *Server
	handler http.Handler
	mem     *repository.Memory
	blobs   *fakeBlobs
	queue   *fakeEnqueuer
	limiter *fakeLimiter
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Address:           ":0",
		MediaBucket:       "test-media",
		MaxUploadBytes:    1 << 20,
		AllowedMediaTypes: []string{"image/jpeg", "image/png", "image/gif"},
		SigningSecret:     []byte("test-secret"),
		SignedURLTTL:      10 * time.Minute,
		AdminToken:        testAdminToken,
		VisitWindow:       24 * time.Hour,
		VisitLimit:        10,
	}
	mem := repository.NewMemory()
	blobs := newFakeBlobs()
	enq := &fakeEnqueuer{}
	limiter := newFakeLimiter()
	server := New(cfg, Stores{
		Stories:   mem,
		Guestbook: mem,
		Photos:    mem,
		Locations: mem,
		Visits:    mem,
	}, blobs, enq, limiter, zap.NewNop())
	return &testEnv{
		server:  server,
		handler: server.Handler(),
		mem:     mem,
		blobs:   blobs,
		queue:   enq,
		limiter: limiter,
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+testAdminToken)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
		Message string                 `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if env.Data == nil {
		env.Data = map[string]interface{}{}
	}
	env.Data["_success"] = env.Success
	env.Data["_message"] = env.Message
	return env.Data
}
