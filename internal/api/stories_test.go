package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

func TestCreateStoryDefaultsUnapproved(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/guest-stories", map[string]interface{}{
		"guestName":    "Sam",
		"storyTitle":   "T",
		"storyContent": "We met at the wedding ceremony and laughed all night",
		// Clients cannot self-approve.
		"approved": true,
		"featured": true,
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	data := decodeBody(t, rec)
	story := data["story"].(map[string]interface{})
	require.False(t, story["approved"].(bool))
	require.False(t, story["featured"].(bool))
	// "ceremony" matches wedding-day before the funny/memories rules.
	require.Equal(t, "wedding-day", story["category"])
	require.NotEmpty(t, data["id"])
}

func TestCreateStoryValidation(t *testing.T) {
	env := newTestEnv(t)
	cases := []map[string]interface{}{
		{"storyTitle": "T", "storyContent": "C"},
		{"guestName": "Sam", "storyContent": "C"},
		{"guestName": "Sam", "storyTitle": "T"},
		{"guestName": "   ", "storyTitle": "T", "storyContent": "C"},
	}
	for _, payload := range cases {
		rec := env.do(t, http.MethodPost, "/guest-stories", payload, false)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	}
	// No store write happened for any rejected submission.
	require.Equal(t, 0, env.mem.StoryCount())
}

func TestCreateStoryExplicitCategoryWins(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/guest-stories", map[string]interface{}{
		"guestName":    "Ana",
		"storyTitle":   "Ceremony tears",
		"storyContent": "the ceremony was lovely",
		"category":     "funny",
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	story := decodeBody(t, rec)["story"].(map[string]interface{})
	require.Equal(t, "funny", story["category"])
}

func TestCreateStoryUnknownCategoryFallsBack(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/guest-stories", map[string]interface{}{
		"guestName":    "Ana",
		"storyTitle":   "Ceremony tears",
		"storyContent": "the ceremony was lovely",
		"category":     "not-a-bucket",
	}, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	story := decodeBody(t, rec)["story"].(map[string]interface{})
	require.Equal(t, "wedding-day", story["category"])
}

func seedStory(t *testing.T, env *testEnv, id, category string, approved, featured bool, submittedAt time.Time) {
	t.Helper()
	require.NoError(t, env.mem.CreateStory(context.Background(), &model.Story{
		ID:           id,
		GuestName:    "Guest " + id,
		StoryTitle:   "Title " + id,
		StoryContent: "Content " + id,
		Category:     category,
		Approved:     approved,
		Featured:     featured,
		SubmittedAt:  submittedAt,
	}))
}

func TestListStoriesApprovalGate(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seedStory(t, env, "a", "funny", true, false, base)
	seedStory(t, env, "b", "funny", false, false, base.Add(time.Minute))
	seedStory(t, env, "c", "heartfelt", true, false, base.Add(2*time.Minute))

	rec := env.do(t, http.MethodGet, "/guest-stories", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	stories := data["stories"].([]interface{})
	require.Len(t, stories, 2)
	// Newest first; the unapproved story never appears.
	require.Equal(t, "c", stories[0].(map[string]interface{})["id"])
	require.Equal(t, "a", stories[1].(map[string]interface{})["id"])
	require.Equal(t, float64(2), data["total"])
	require.False(t, data["hasMore"].(bool))
}

func TestListStoriesCategoryPagination(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedStory(t, env, fmt.Sprintf("funny-%d", i), "funny", true, false, base.Add(time.Duration(i)*time.Minute))
	}
	seedStory(t, env, "other", "heartfelt", true, false, base.Add(time.Hour))

	rec := env.do(t, http.MethodGet, "/guest-stories?category=funny&limit=1&offset=1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	stories := data["stories"].([]interface{})
	require.Len(t, stories, 1)
	// Desc order: funny-2, funny-1, funny-0. Offset 1 lands on funny-1.
	require.Equal(t, "funny-1", stories[0].(map[string]interface{})["id"])
	// Total counts only the category-filtered set.
	require.Equal(t, float64(3), data["total"])
	require.True(t, data["hasMore"].(bool))

	rec = env.do(t, http.MethodGet, "/guest-stories?category=funny&limit=1&offset=2", nil, false)
	data = decodeBody(t, rec)
	require.False(t, data["hasMore"].(bool))

	// Facets cover all approved stories regardless of the filter.
	facets := data["categories"].([]interface{})
	require.Len(t, facets, 2)
	first := facets[0].(map[string]interface{})
	require.Equal(t, "funny", first["id"])
	require.Equal(t, "Funny Moments", first["label"])
	require.Equal(t, float64(3), first["count"])
}

func TestFeaturedStories(t *testing.T) {
	env := newTestEnv(t)
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seedStory(t, env, "f1", "funny", true, true, base)
	seedStory(t, env, "plain", "funny", true, false, base.Add(time.Minute))
	seedStory(t, env, "hidden", "funny", false, false, base.Add(2*time.Minute))

	rec := env.do(t, http.MethodGet, "/guest-stories/featured", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	stories := decodeBody(t, rec)["stories"].([]interface{})
	require.Len(t, stories, 1)
	require.Equal(t, "f1", stories[0].(map[string]interface{})["id"])
}

func TestModerateStory(t *testing.T) {
	env := newTestEnv(t)
	seedStory(t, env, "s1", "funny", false, false, time.Now().UTC())

	rec := env.do(t, http.MethodPatch, "/guest-stories/admin/s1/status",
		map[string]interface{}{"approved": true, "featured": true}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	require.True(t, data["approved"].(bool))
	require.True(t, data["featured"].(bool))

	story, err := env.mem.GetStory(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, story.ReviewedAt)
}

func TestModerateStoryRejectClearsFeatured(t *testing.T) {
	env := newTestEnv(t)
	seedStory(t, env, "s1", "funny", true, true, time.Now().UTC())

	rec := env.do(t, http.MethodPatch, "/guest-stories/admin/s1/status",
		map[string]interface{}{"approved": false}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody(t, rec)
	require.False(t, data["approved"].(bool))
	require.False(t, data["featured"].(bool))
}

func TestModerateStoryIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedStory(t, env, "s1", "funny", false, false, time.Now().UTC())

	for i := 0; i < 2; i++ {
		rec := env.do(t, http.MethodPatch, "/guest-stories/admin/s1/status",
			map[string]interface{}{"approved": true}, true)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	story, err := env.mem.GetStory(context.Background(), "s1")
	require.NoError(t, err)
	require.True(t, story.Approved)
	require.False(t, story.Featured)
}

func TestModerateStoryErrors(t *testing.T) {
	env := newTestEnv(t)
	seedStory(t, env, "s1", "funny", false, false, time.Now().UTC())

	// Missing approved boolean.
	rec := env.do(t, http.MethodPatch, "/guest-stories/admin/s1/status",
		map[string]interface{}{"featured": true}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// approved of the wrong JSON type.
	rec = env.do(t, http.MethodPatch, "/guest-stories/admin/s1/status",
		map[string]interface{}{"approved": "yes"}, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown id.
	rec = env.do(t, http.MethodPatch, "/guest-stories/admin/nope/status",
		map[string]interface{}{"approved": true}, true)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	seedStory(t, env, "s1", "funny", false, false, time.Now().UTC())

	rec := env.do(t, http.MethodGet, "/guest-stories/admin/all", nil, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPatch, "/guest-stories/admin/s1/status",
		map[string]interface{}{"approved": true}, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Admin listing includes unapproved records.
	rec = env.do(t, http.MethodGet, "/guest-stories/admin/all", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	stories := decodeBody(t, rec)["stories"].([]interface{})
	require.Len(t, stories, 1)
}
