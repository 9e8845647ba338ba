// Package repository persists Guestfolio records. Interfaces here are the
// seam between HTTP handlers and storage; Postgres implementations live
// alongside them, and in-memory implementations back the tests.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

// ErrNotFound is returned when a record id does not resolve.
var ErrNotFound = errors.New("record not found")

// StoryStore persists guest stories.
type StoryStore interface {
	CreateStory(ctx context.Context, story *model.Story) error
	GetStory(ctx context.Context, id string) (*model.Story, error)
	// ListApprovedStories returns the requested page of approved stories
	// (newest first) plus the total count under the same category filter.
	ListApprovedStories(ctx context.Context, category string, limit, offset int) ([]model.Story, int, error)
	ListFeaturedStories(ctx context.Context) ([]model.Story, error)
	ListAllStories(ctx context.Context) ([]model.Story, error)
	// CategoryCounts is computed over all approved stories regardless of any
	// active filter.
	CategoryCounts(ctx context.Context) (map[string]int, error)
	// SetStoryStatus updates the moderation flags and reviewed_at, returning
	// the updated record. Rejection must force featured to false.
	SetStoryStatus(ctx context.Context, id string, approved, featured bool, reviewedAt time.Time) (*model.Story, error)
}

// GuestbookStore persists guestbook entries.
type GuestbookStore interface {
	CreateEntry(ctx context.Context, entry *model.GuestbookEntry) error
	GetEntry(ctx context.Context, id string) (*model.GuestbookEntry, error)
	ListApprovedEntries(ctx context.Context, limit, offset int) ([]model.GuestbookEntry, int, error)
	ListAllEntries(ctx context.Context) ([]model.GuestbookEntry, error)
	SetEntryStatus(ctx context.Context, id string, approved bool, reviewedAt time.Time) (*model.GuestbookEntry, error)
}

// PhotoStore persists album photo metadata.
type PhotoStore interface {
	CreatePhoto(ctx context.Context, photo *model.Photo) error
	GetPhoto(ctx context.Context, id string) (*model.Photo, error)
	ListApprovedPhotos(ctx context.Context) ([]model.Photo, error)
	ListAllPhotos(ctx context.Context) ([]model.Photo, error)
	UpdatePhotoIngest(ctx context.Context, id string, width, height int, contentType string, status model.PhotoStatus) error
	SetPhotoApproval(ctx context.Context, id string, approved bool, reviewedAt time.Time) (*model.Photo, error)
	// DeletePhoto removes the row; the caller is responsible for the blob.
	DeletePhoto(ctx context.Context, id string) error
}

// LocationStore persists guest map pins.
type LocationStore interface {
	CreateLocation(ctx context.Context, loc *model.Location) error
	ListLocations(ctx context.Context) ([]model.Location, error)
}

// VisitStore persists deduplicated visit logs.
type VisitStore interface {
	CreateVisit(ctx context.Context, visit *model.Visit) error
}
