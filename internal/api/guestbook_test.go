package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

func seedEntry(t *testing.T, env *testEnv, id string, approved bool, submittedAt time.Time) {
	t.Helper()
	require.NoError(t, env.mem.CreateEntry(context.Background(), &model.GuestbookEntry{
		ID:          id,
		AuthorName:  "Guest " + id,
		Message:     "Message " + id,
		Approved:    approved,
		SubmittedAt: submittedAt,
	}))
}

func TestCreateGuestbookEntry(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/guestbook", map[string]interface{}{
		"message": "Congratulations!",
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	entry := decodeBody(t, rec)["entry"].(map[string]interface{})
	require.False(t, entry["approved"].(bool))
	// authorName is optional for the guestbook.
	_, hasAuthor := entry["authorName"]
	require.False(t, hasAuthor)
}

func TestCreateGuestbookEntryRequiresMessage(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/guestbook", map[string]interface{}{
		"authorName": "Sam",
		"message":    "   ",
	}, false)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 0, env.mem.EntryCount())
}

func TestListGuestbookPagination(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seedEntry(t, env, "e1", true, base)
	seedEntry(t, env, "e2", true, base.Add(time.Minute))
	seedEntry(t, env, "hidden", false, base.Add(2*time.Minute))

	rec := env.do(t, http.MethodGet, "/guestbook?limit=1&offset=0", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	entries := data["entries"].([]interface{})
	require.Len(t, entries, 1)
	require.Equal(t, "e2", entries[0].(map[string]interface{})["id"])
	require.Equal(t, float64(2), data["total"])
	require.True(t, data["hasMore"].(bool))
}

func TestModerateGuestbookHidesWithoutDeleting(t *testing.T) {
	env := newTestEnv(t)
	seedEntry(t, env, "e1", true, time.Now().UTC())

	rec := env.do(t, http.MethodPatch, "/guestbook/admin/e1/status",
		map[string]interface{}{"approved": false}, true)
	require.Equal(t, http.StatusOK, rec.Code)

	// The row survives rejection; it is only hidden from public reads.
	entry, err := env.mem.GetEntry(context.Background(), "e1")
	require.NoError(t, err)
	require.False(t, entry.Approved)
	require.NotNil(t, entry.ReviewedAt)

	rec = env.do(t, http.MethodGet, "/guestbook", nil, false)
	require.Len(t, decodeBody(t, rec)["entries"].([]interface{}), 0)

	rec = env.do(t, http.MethodGet, "/guestbook/admin/all", nil, true)
	require.Len(t, decodeBody(t, rec)["entries"].([]interface{}), 1)
}

func TestModerateGuestbookUnknownID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPatch, "/guestbook/admin/nope/status",
		map[string]interface{}{"approved": true}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
