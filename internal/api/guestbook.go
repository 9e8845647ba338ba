package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

func (s *Server) handleGuestbook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listGuestbook(w, r)
	case http.MethodPost:
		s.createGuestbookEntry(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleGuestbookRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/guestbook/")
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 2 && parts[0] == "admin" && parts[1] == "all":
		s.requireAdmin(s.listAllGuestbook)(w, r)
	case len(parts) == 3 && parts[0] == "admin" && parts[2] == "status":
		entryID := parts[1]
		s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
			s.moderateGuestbookEntry(w, r, entryID)
		})(w, r)
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

type guestbookPayload struct {
	AuthorName string `json:"authorName"`
	Message    string `json:"message"`
}

func (s *Server) createGuestbookEntry(w http.ResponseWriter, r *http.Request) {
	var payload guestbookPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(payload.Message)
	if message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}
	entry := &model.GuestbookEntry{
		ID:          uuid.NewString(),
		AuthorName:  strings.TrimSpace(payload.AuthorName),
		Message:     message,
		Approved:    false,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.stores.Guestbook.CreateEntry(r.Context(), entry); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]interface{}{
		"id":      entry.ID,
		"message": "entry submitted and awaiting approval",
		"entry":   entry,
	})
}

func (s *Server) listGuestbook(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePage(r)
	entries, total, err := s.stores.Guestbook.ListApprovedEntries(r.Context(), limit, offset)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if entries == nil {
		entries = []model.GuestbookEntry{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"hasMore": offset+limit < total,
	})
}

func (s *Server) listAllGuestbook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	entries, err := s.stores.Guestbook.ListAllEntries(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if entries == nil {
		entries = []model.GuestbookEntry{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

func (s *Server) moderateGuestbookEntry(w http.ResponseWriter, r *http.Request, entryID string) {
	if r.Method != http.MethodPatch {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload statusPayload
	if err := decodeJSON(r.Body, &payload); err != nil || payload.Approved == nil {
		respondError(w, http.StatusBadRequest, "approved must be a boolean")
		return
	}
	// Guestbook rejection only hides the entry; the row stays for audit.
	entry, err := s.stores.Guestbook.SetEntryStatus(r.Context(), entryID, *payload.Approved, time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	message := "entry rejected"
	if entry.Approved {
		message = "entry approved"
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"message":  message,
		"entryId":  entry.ID,
		"approved": entry.Approved,
	})
}
