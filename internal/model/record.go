// Package model contains the record structs shared by the API, repositories,
// and worker.
package model

import "time"

// PhotoStatus tracks ingest health of an uploaded album photo. The approval
// flag, not the status, decides public visibility.
type PhotoStatus string

const (
	PhotoUploaded PhotoStatus = "uploaded"
	PhotoReady    PhotoStatus = "ready"
	PhotoFailed   PhotoStatus = "failed"
)

// Story is a guest-submitted story. It is created unapproved and becomes
// publicly visible only after moderation flips Approved.
type Story struct {
	ID             string     `json:"id"`
	GuestName      string     `json:"guestName"`
	StoryTitle     string     `json:"storyTitle"`
	StoryContent   string     `json:"storyContent"`
	Relationship   string     `json:"relationship,omitempty"`
	FavoriteMemory string     `json:"favoriteMemory,omitempty"`
	WishForCouple  string     `json:"wishForCouple,omitempty"`
	Category       string     `json:"category"`
	Tags           []string   `json:"tags,omitempty"`
	Approved       bool       `json:"approved"`
	Featured       bool       `json:"featured"`
	SubmittedAt    time.Time  `json:"submittedAt"`
	ReviewedAt     *time.Time `json:"reviewedAt,omitempty"`
}

// GuestbookEntry is a short guestbook message. AuthorName is optional.
type GuestbookEntry struct {
	ID          string     `json:"id"`
	AuthorName  string     `json:"authorName,omitempty"`
	Message     string     `json:"message"`
	Approved    bool       `json:"approved"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
}

// Photo is the metadata row for an uploaded album binary. The binary itself
// lives in the blob store under ObjectKey.
type Photo struct {
	ID          string      `json:"id"`
	FileName    string      `json:"fileName"`
	ObjectKey   string      `json:"-"`
	ContentType string      `json:"contentType"`
	SizeBytes   int64       `json:"sizeBytes"`
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
	Caption     string      `json:"caption,omitempty"`
	UploadedBy  string      `json:"uploadedBy,omitempty"`
	Status      PhotoStatus `json:"status"`
	Approved    bool        `json:"approved"`
	SubmittedAt time.Time   `json:"submittedAt"`
	ReviewedAt  *time.Time  `json:"reviewedAt,omitempty"`
}

// Location is a pin on the guests map.
type Location struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Visit records one deduplicated guest visit.
type Visit struct {
	ID        string    `json:"id"`
	IP        string    `json:"-"`
	UserAgent string    `json:"-"`
	VisitedAt time.Time `json:"visitedAt"`
}

// CategoryFacet is the per-category count returned alongside story listings.
type CategoryFacet struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}
