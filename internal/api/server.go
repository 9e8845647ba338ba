// Package api exposes the Guestfolio HTTP endpoints: guest submissions,
// admin moderation, public reads, and media downloads.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/classify"
	"github.com/bbasketballer75/guestfolio/internal/config"
	"github.com/bbasketballer75/guestfolio/internal/queue"
	"github.com/bbasketballer75/guestfolio/internal/ratelimit"
	"github.com/bbasketballer75/guestfolio/internal/repository"
	"github.com/bbasketballer75/guestfolio/internal/signing"
)

// BlobStore is what the handlers need from the media blob store.
type BlobStore interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) error
	Get(ctx context.Context, objectKey string) (io.ReadCloser, error)
	Remove(ctx context.Context, objectKey string) error
	PresignGet(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// Stores bundles the repositories the server reads and writes.
type Stores struct {
	Stories   repository.StoryStore
	Guestbook repository.GuestbookStore
	Photos    repository.PhotoStore
	Locations repository.LocationStore
	Visits    repository.VisitStore
}

// Server hosts the HTTP handlers and their dependencies.
type Server struct {
	cfg        *config.Config
	stores     Stores
	blobs      BlobStore
	queue      queue.Enqueuer
	signer     *signing.Signer
	limiter    ratelimit.Limiter
	classifier *classify.Classifier
	log        *zap.Logger
	server     *http.Server
	once       sync.Once
}

// New constructs a Server.
func New(cfg *config.Config, stores Stores, blobs BlobStore, enqueuer queue.Enqueuer, limiter ratelimit.Limiter, log *zap.Logger) *Server {
	return &Server{
		cfg:        cfg,
		stores:     stores,
		blobs:      blobs,
		queue:      enqueuer,
		signer:     signing.NewSigner(cfg.SigningSecret),
		limiter:    limiter,
		classifier: classify.Default(),
		log:        log,
	}
}

// Handler returns the routed handler with middleware applied. Tests drive it
// directly via httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/guest-stories", s.handleStories)
	mux.HandleFunc("/guest-stories/", s.handleStoryRoute)

	mux.HandleFunc("/guestbook", s.handleGuestbook)
	mux.HandleFunc("/guestbook/", s.handleGuestbookRoute)

	mux.HandleFunc("/album", s.handleAlbum)
	mux.HandleFunc("/album/", s.handleAlbumRoute)
	mux.HandleFunc("/media/download", s.handleMediaDownload)

	mux.HandleFunc("/map/locations", s.handleLocations)
	mux.HandleFunc("/map/log-visit", s.handleLogVisit)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.once.Do(func() {
		s.server = &http.Server{
			Addr:    s.cfg.Address,
			Handler: s.Handler(),
		}
	})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
	s.log.Info("api listening", zap.String("address", s.cfg.Address))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
