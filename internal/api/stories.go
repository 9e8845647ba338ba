package api

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bbasketballer75/guestfolio/internal/classify"
	"github.com/bbasketballer75/guestfolio/internal/model"
)

func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listStories(w, r)
	case http.MethodPost:
		s.createStory(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleStoryRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/guest-stories/")
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1 && parts[0] == "featured":
		s.listFeaturedStories(w, r)
	case len(parts) == 2 && parts[0] == "admin" && parts[1] == "all":
		s.requireAdmin(s.listAllStories)(w, r)
	case len(parts) == 3 && parts[0] == "admin" && parts[2] == "status":
		storyID := parts[1]
		s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
			s.moderateStory(w, r, storyID)
		})(w, r)
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

type storyPayload struct {
	GuestName      string `json:"guestName"`
	StoryTitle     string `json:"storyTitle"`
	StoryContent   string `json:"storyContent"`
	Relationship   string `json:"relationship"`
	FavoriteMemory string `json:"favoriteMemory"`
	WishForCouple  string `json:"wishForCouple"`
	Category       string `json:"category"`
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var payload storyPayload
	if err := decodeJSON(r.Body, &payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	guestName := strings.TrimSpace(payload.GuestName)
	title := strings.TrimSpace(payload.StoryTitle)
	content := strings.TrimSpace(payload.StoryContent)
	if guestName == "" || title == "" || content == "" {
		respondError(w, http.StatusBadRequest, "guestName, storyTitle and storyContent are required")
		return
	}
	// An explicit category wins as long as it is one of the known buckets;
	// anything else falls through to classification.
	category := strings.TrimSpace(payload.Category)
	if category == "" || !s.classifier.KnownCategory(category) {
		category = s.classifier.Category(title + " " + content)
	}
	story := &model.Story{
		ID:             uuid.NewString(),
		GuestName:      guestName,
		StoryTitle:     title,
		StoryContent:   content,
		Relationship:   strings.TrimSpace(payload.Relationship),
		FavoriteMemory: strings.TrimSpace(payload.FavoriteMemory),
		WishForCouple:  strings.TrimSpace(payload.WishForCouple),
		Category:       category,
		Tags:           s.classifier.Tags(content),
		Approved:       false,
		Featured:       false,
		SubmittedAt:    time.Now().UTC(),
	}
	if err := s.stores.Stories.CreateStory(r.Context(), story); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]interface{}{
		"id":      story.ID,
		"message": "story submitted and awaiting approval",
		"story":   story,
	})
}

func (s *Server) listStories(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	limit, offset := parsePage(r)
	stories, total, err := s.stores.Stories.ListApprovedStories(r.Context(), category, limit, offset)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	counts, err := s.stores.Stories.CategoryCounts(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"stories":    emptyIfNilStories(stories),
		"total":      total,
		"hasMore":    offset+limit < total,
		"categories": s.categoryFacets(counts),
	})
}

func (s *Server) listFeaturedStories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stories, err := s.stores.Stories.ListFeaturedStories(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"stories": emptyIfNilStories(stories),
	})
}

func (s *Server) listAllStories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	stories, err := s.stores.Stories.ListAllStories(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"stories": emptyIfNilStories(stories),
	})
}

type statusPayload struct {
	Approved *bool `json:"approved"`
	Featured *bool `json:"featured"`
}

func (s *Server) moderateStory(w http.ResponseWriter, r *http.Request, storyID string) {
	if r.Method != http.MethodPatch {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload statusPayload
	if err := decodeJSON(r.Body, &payload); err != nil || payload.Approved == nil {
		respondError(w, http.StatusBadRequest, "approved must be a boolean")
		return
	}
	featured := false
	if payload.Featured != nil {
		featured = *payload.Featured
	}
	story, err := s.stores.Stories.SetStoryStatus(r.Context(), storyID, *payload.Approved, featured, time.Now().UTC())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	message := "story rejected"
	if story.Approved {
		message = "story approved"
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"message":  message,
		"storyId":  story.ID,
		"approved": story.Approved,
		"featured": story.Featured,
	})
}

// categoryFacets converts raw counts into the facet list, in classifier table
// order, with any off-table categories appended alphabetically.
func (s *Server) categoryFacets(counts map[string]int) []model.CategoryFacet {
	facets := make([]model.CategoryFacet, 0, len(counts))
	seen := make(map[string]bool, len(counts))
	for _, rule := range classify.DefaultCategories {
		if n, ok := counts[rule.ID]; ok && n > 0 {
			facets = append(facets, model.CategoryFacet{ID: rule.ID, Label: rule.Label, Count: n})
			seen[rule.ID] = true
		}
	}
	var extras []string
	for id := range counts {
		if !seen[id] && counts[id] > 0 {
			extras = append(extras, id)
		}
	}
	sort.Strings(extras)
	for _, id := range extras {
		facets = append(facets, model.CategoryFacet{ID: id, Label: s.classifier.Label(id), Count: counts[id]})
	}
	return facets
}

func emptyIfNilStories(stories []model.Story) []model.Story {
	if stories == nil {
		return []model.Story{}
	}
	return stories
}
