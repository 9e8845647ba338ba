package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

// StoryRepository wraps all SQL for the guest_stories table.
type StoryRepository struct {
	pool *pgxpool.Pool
}

// NewStoryRepository constructs a repository.
func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

const storyColumns = `id, guest_name, story_title, story_content, relationship,
	favorite_memory, wish_for_couple, category, tags, approved, featured,
	submitted_at, reviewed_at`

// CreateStory inserts a new unapproved story.
func (r *StoryRepository) CreateStory(ctx context.Context, story *model.Story) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO guest_stories (id, guest_name, story_title, story_content, relationship,
			favorite_memory, wish_for_couple, category, tags, approved, featured, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, story.ID, story.GuestName, story.StoryTitle, story.StoryContent, story.Relationship,
		story.FavoriteMemory, story.WishForCouple, story.Category, story.Tags,
		story.Approved, story.Featured, story.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}
	return nil
}

// GetStory returns a story by id.
func (r *StoryRepository) GetStory(ctx context.Context, id string) (*model.Story, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+storyColumns+` FROM guest_stories WHERE id=$1`, id)
	story, err := scanStory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select story: %w", err)
	}
	return story, nil
}

// ListApprovedStories returns one page of approved stories newest first plus
// the total under the same category filter.
func (r *StoryRepository) ListApprovedStories(ctx context.Context, category string, limit, offset int) ([]model.Story, int, error) {
	var total int
	countRow := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM guest_stories
		WHERE approved AND ($1 = '' OR category = $1)
	`, category)
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+storyColumns+` FROM guest_stories
		WHERE approved AND ($1 = '' OR category = $1)
		ORDER BY submitted_at DESC
		LIMIT $2 OFFSET $3
	`, category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select stories: %w", err)
	}
	defer rows.Close()
	stories, err := collectStories(rows)
	if err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}

// ListFeaturedStories returns approved stories flagged as featured.
func (r *StoryRepository) ListFeaturedStories(ctx context.Context) ([]model.Story, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storyColumns+` FROM guest_stories
		WHERE approved AND featured
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select featured stories: %w", err)
	}
	defer rows.Close()
	return collectStories(rows)
}

// ListAllStories returns every story regardless of approval state.
func (r *StoryRepository) ListAllStories(ctx context.Context) ([]model.Story, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+storyColumns+` FROM guest_stories
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select all stories: %w", err)
	}
	defer rows.Close()
	return collectStories(rows)
}

// CategoryCounts aggregates approved stories per category.
func (r *StoryRepository) CategoryCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category, COUNT(*) FROM guest_stories
		WHERE approved
		GROUP BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var (
			category string
			n        int
		)
		if err := rows.Scan(&category, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[category] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}

// SetStoryStatus updates the moderation flags and returns the updated record.
// Rejecting always clears featured.
func (r *StoryRepository) SetStoryStatus(ctx context.Context, id string, approved, featured bool, reviewedAt time.Time) (*model.Story, error) {
	if !approved {
		featured = false
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE guest_stories
		SET approved=$1, featured=$2, reviewed_at=$3
		WHERE id=$4
		RETURNING `+storyColumns, approved, featured, reviewedAt, id)
	story, err := scanStory(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update story status: %w", err)
	}
	return story, nil
}

func scanStory(row pgx.Row) (*model.Story, error) {
	var (
		story      model.Story
		reviewedAt *time.Time
	)
	if err := row.Scan(&story.ID, &story.GuestName, &story.StoryTitle, &story.StoryContent,
		&story.Relationship, &story.FavoriteMemory, &story.WishForCouple, &story.Category,
		&story.Tags, &story.Approved, &story.Featured, &story.SubmittedAt, &reviewedAt); err != nil {
		return nil, err
	}
	story.ReviewedAt = reviewedAt
	return &story, nil
}

func collectStories(rows pgx.Rows) ([]model.Story, error) {
	var stories []model.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, *story)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stories: %w", err)
	}
	return stories, nil
}
