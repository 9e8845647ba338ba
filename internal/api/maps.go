package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listLocations(w, r)
	case http.MethodPost:
		s.requireAdmin(s.createLocation)(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.stores.Locations.ListLocations(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if locations == nil {
		locations = []model.Location{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"locations": locations,
	})
}

type locationPayload struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Description string  `json:"description"`
}

func (s *Server) createLocation(w http.ResponseWriter, r *http.Request) {
	var payload locationPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name := strings.TrimSpace(payload.Name)
	if name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if payload.Latitude < -90 || payload.Latitude > 90 ||
		payload.Longitude < -180 || payload.Longitude > 180 {
		respondError(w, http.StatusBadRequest, "latitude or longitude out of range")
		return
	}
	loc := &model.Location{
		ID:          uuid.NewString(),
		Name:        name,
		Latitude:    payload.Latitude,
		Longitude:   payload.Longitude,
		Description: strings.TrimSpace(payload.Description),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.stores.Locations.CreateLocation(r.Context(), loc); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]interface{}{
		"location": loc,
	})
}

func (s *Server) handleLogVisit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()
	ip := clientIP(r)

	// Abuse cap first: the endpoint itself is limited per IP and window.
	ok, err := s.limiter.Allow(ctx, "log-visit:"+ip, s.cfg.VisitLimit, s.cfg.VisitWindow)
	if err != nil {
		s.log.Error("rate limit check failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "rate limit unavailable")
		return
	}
	if !ok {
		respondError(w, http.StatusTooManyRequests, "too many requests")
		return
	}

	// Dedupe: one visit row per IP per window. A repeat short-circuits
	// without writing anything.
	fresh, err := s.limiter.Allow(ctx, "visit:"+ip, 1, s.cfg.VisitWindow)
	if err != nil {
		s.log.Error("visit dedupe check failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "rate limit unavailable")
		return
	}
	if !fresh {
		respondData(w, http.StatusOK, map[string]interface{}{
			"logged":  false,
			"message": "visit already logged recently",
		})
		return
	}
	visit := &model.Visit{
		ID:        uuid.NewString(),
		IP:        ip,
		UserAgent: r.UserAgent(),
		VisitedAt: time.Now().UTC(),
	}
	if err := s.stores.Visits.CreateVisit(ctx, visit); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]interface{}{
		"logged": true,
	})
}
