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

// GuestbookRepository wraps all SQL for the guestbook_entries table.
type GuestbookRepository struct {
	pool *pgxpool.Pool
}

// NewGuestbookRepository constructs a repository.
func NewGuestbookRepository(pool *pgxpool.Pool) *GuestbookRepository {
	return &GuestbookRepository{pool: pool}
}

const entryColumns = `id, author_name, message, approved, submitted_at, reviewed_at`

// CreateEntry inserts a new unapproved guestbook entry.
func (r *GuestbookRepository) CreateEntry(ctx context.Context, entry *model.GuestbookEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO guestbook_entries (id, author_name, message, approved, submitted_at)
		VALUES ($1,$2,$3,$4,$5)
	`, entry.ID, entry.AuthorName, entry.Message, entry.Approved, entry.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert guestbook entry: %w", err)
	}
	return nil
}

// GetEntry returns an entry by id.
func (r *GuestbookRepository) GetEntry(ctx context.Context, id string) (*model.GuestbookEntry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM guestbook_entries WHERE id=$1`, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select guestbook entry: %w", err)
	}
	return entry, nil
}

// ListApprovedEntries returns one page of approved entries newest first plus
// the total approved count.
func (r *GuestbookRepository) ListApprovedEntries(ctx context.Context, limit, offset int) ([]model.GuestbookEntry, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM guestbook_entries WHERE approved`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count guestbook entries: %w", err)
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM guestbook_entries
		WHERE approved
		ORDER BY submitted_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select guestbook entries: %w", err)
	}
	defer rows.Close()
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAllEntries returns every entry regardless of approval state.
func (r *GuestbookRepository) ListAllEntries(ctx context.Context) ([]model.GuestbookEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entryColumns+` FROM guestbook_entries
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select all guestbook entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// SetEntryStatus updates approval and reviewed_at, returning the updated
// record. Rejection hides the entry; the row is kept.
func (r *GuestbookRepository) SetEntryStatus(ctx context.Context, id string, approved bool, reviewedAt time.Time) (*model.GuestbookEntry, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE guestbook_entries
		SET approved=$1, reviewed_at=$2
		WHERE id=$3
		RETURNING `+entryColumns, approved, reviewedAt, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update guestbook status: %w", err)
	}
	return entry, nil
}

func scanEntry(row pgx.Row) (*model.GuestbookEntry, error) {
	var (
		entry      model.GuestbookEntry
		reviewedAt *time.Time
	)
	if err := row.Scan(&entry.ID, &entry.AuthorName, &entry.Message, &entry.Approved,
		&entry.SubmittedAt, &reviewedAt); err != nil {
		return nil, err
	}
	entry.ReviewedAt = reviewedAt
	return &entry, nil
}

func collectEntries(rows pgx.Rows) ([]model.GuestbookEntry, error) {
	var entries []model.GuestbookEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guestbook entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate guestbook entries: %w", err)
	}
	return entries, nil
}
