package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

// Memory is an in-process implementation of every store interface, guarded by
// a single RWMutex. Handler tests run against it so they exercise the same
// interfaces the Postgres repositories implement.
type Memory struct {
	mu        sync.RWMutex
	stories   map[string]*model.Story
	entries   map[string]*model.GuestbookEntry
	photos    map[string]*model.Photo
	locations map[string]*model.Location
	visits    map[string]*model.Visit
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		stories:   make(map[string]*model.Story),
		entries:   make(map[string]*model.GuestbookEntry),
		photos:    make(map[string]*model.Photo),
		locations: make(map[string]*model.Location),
		visits:    make(map[string]*model.Visit),
	}
}

// Interface checks.
var (
	_ StoryStore     = (*Memory)(nil)
	_ GuestbookStore = (*Memory)(nil)
	_ PhotoStore     = (*Memory)(nil)
	_ LocationStore  = (*Memory)(nil)
	_ VisitStore     = (*Memory)(nil)
)

func (m *Memory) CreateStory(_ context.Context, story *model.Story) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *story
	m.stories[story.ID] = &clone
	return nil
}

func (m *Memory) GetStory(_ context.Context, id string) (*model.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	story, ok := m.stories[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *story
	return &clone, nil
}

func (m *Memory) ListApprovedStories(_ context.Context, category string, limit, offset int) ([]model.Story, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []model.Story
	for _, story := range m.stories {
		if !story.Approved {
			continue
		}
		if category != "" && story.Category != category {
			continue
		}
		matched = append(matched, *story)
	}
	sortStoriesDesc(matched)
	total := len(matched)
	return pageStories(matched, limit, offset), total, nil
}

func (m *Memory) ListFeaturedStories(_ context.Context) ([]model.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []model.Story
	for _, story := range m.stories {
		if story.Approved && story.Featured {
			matched = append(matched, *story)
		}
	}
	sortStoriesDesc(matched)
	return matched, nil
}

func (m *Memory) ListAllStories(_ context.Context) ([]model.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []model.Story
	for _, story := range m.stories {
		all = append(all, *story)
	}
	sortStoriesDesc(all)
	return all, nil
}

func (m *Memory) CategoryCounts(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int)
	for _, story := range m.stories {
		if story.Approved {
			counts[story.Category]++
		}
	}
	return counts, nil
}

func (m *Memory) SetStoryStatus(_ context.Context, id string, approved, featured bool, reviewedAt time.Time) (*model.Story, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	story, ok := m.stories[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !approved {
		featured = false
	}
	story.Approved = approved
	story.Featured = featured
	story.ReviewedAt = &reviewedAt
	clone := *story
	return &clone, nil
}

func (m *Memory) CreateEntry(_ context.Context, entry *model.GuestbookEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *entry
	m.entries[entry.ID] = &clone
	return nil
}

func (m *Memory) GetEntry(_ context.Context, id string) (*model.GuestbookEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *entry
	return &clone, nil
}

func (m *Memory) ListApprovedEntries(_ context.Context, limit, offset int) ([]model.GuestbookEntry, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []model.GuestbookEntry
	for _, entry := range m.entries {
		if entry.Approved {
			matched = append(matched, *entry)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].SubmittedAt.After(matched[j].SubmittedAt)
	})
	total := len(matched)
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *Memory) ListAllEntries(_ context.Context) ([]model.GuestbookEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []model.GuestbookEntry
	for _, entry := range m.entries {
		all = append(all, *entry)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].SubmittedAt.After(all[j].SubmittedAt)
	})
	return all, nil
}

func (m *Memory) SetEntryStatus(_ context.Context, id string, approved bool, reviewedAt time.Time) (*model.GuestbookEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	entry.Approved = approved
	entry.ReviewedAt = &reviewedAt
	clone := *entry
	return &clone, nil
}

func (m *Memory) CreatePhoto(_ context.Context, photo *model.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *photo
	m.photos[photo.ID] = &clone
	return nil
}

func (m *Memory) GetPhoto(_ context.Context, id string) (*model.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	photo, ok := m.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *photo
	return &clone, nil
}

func (m *Memory) ListApprovedPhotos(_ context.Context) ([]model.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []model.Photo
	for _, photo := range m.photos {
		if photo.Approved && photo.Status == model.PhotoReady {
			matched = append(matched, *photo)
		}
	}
	sortPhotosDesc(matched)
	return matched, nil
}

func (m *Memory) ListAllPhotos(_ context.Context) ([]model.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []model.Photo
	for _, photo := range m.photos {
		all = append(all, *photo)
	}
	sortPhotosDesc(all)
	return all, nil
}

func (m *Memory) UpdatePhotoIngest(_ context.Context, id string, width, height int, contentType string, status model.PhotoStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	photo, ok := m.photos[id]
	if !ok {
		return ErrNotFound
	}
	photo.Width = width
	photo.Height = height
	if contentType != "" {
		photo.ContentType = contentType
	}
	photo.Status = status
	return nil
}

func (m *Memory) SetPhotoApproval(_ context.Context, id string, approved bool, reviewedAt time.Time) (*model.Photo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	photo, ok := m.photos[id]
	if !ok {
		return nil, ErrNotFound
	}
	photo.Approved = approved
	photo.ReviewedAt = &reviewedAt
	clone := *photo
	return &clone, nil
}

func (m *Memory) DeletePhoto(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.photos[id]; !ok {
		return ErrNotFound
	}
	delete(m.photos, id)
	return nil
}

func (m *Memory) CreateLocation(_ context.Context, loc *model.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *loc
	m.locations[loc.ID] = &clone
	return nil
}

func (m *Memory) ListLocations(_ context.Context) ([]model.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []model.Location
	for _, loc := range m.locations {
		all = append(all, *loc)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})
	return all, nil
}

func (m *Memory) CreateVisit(_ context.Context, visit *model.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *visit
	m.visits[visit.ID] = &clone
	return nil
}

// VisitCount reports stored visits; only tests use it.
func (m *Memory) VisitCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.visits)
}

// StoryCount reports stored stories regardless of state; only tests use it.
func (m *Memory) StoryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.stories)
}

// EntryCount reports stored guestbook entries; only tests use it.
func (m *Memory) EntryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func sortStoriesDesc(stories []model.Story) {
	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].SubmittedAt.After(stories[j].SubmittedAt)
	})
}

func sortPhotosDesc(photos []model.Photo) {
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].SubmittedAt.After(photos[j].SubmittedAt)
	})
}

func pageStories(stories []model.Story, limit, offset int) []model.Story {
	if offset >= len(stories) {
		return nil
	}
	stories = stories[offset:]
	if limit > 0 && limit < len(stories) {
		stories = stories[:limit]
	}
	return stories
}
