package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bbasketballer75/guestfolio/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// envelope is the JSON shape every endpoint returns.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeEnvelope(w, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, envelope{Success: false, Message: message})
}

func writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// respondStoreError maps repository failures onto the error taxonomy: unknown
// ids are 404s, everything else is a generic 500 with no retry.
func respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}
	respondError(w, http.StatusInternalServerError, "storage operation failed")
}

func decodeJSON(body io.Reader, dst interface{}) error {
	// Unknown fields are ignored on purpose: a client sending approved=true
	// on a submission must not error out, and must not get approval either.
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return err
	}
	return nil
}

// parsePage reads limit/offset query params with clamped defaults.
func parsePage(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
