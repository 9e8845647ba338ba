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

// PhotoRepository wraps all SQL for the album_photos table.
type PhotoRepository struct {
	pool *pgxpool.Pool
}

// NewPhotoRepository constructs a repository.
func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

const photoColumns = `id, file_name, object_key, content_type, size_bytes, width,
	height, caption, uploaded_by, status, approved, submitted_at, reviewed_at`

// CreatePhoto inserts a freshly uploaded, unapproved photo row.
func (r *PhotoRepository) CreatePhoto(ctx context.Context, photo *model.Photo) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO album_photos (id, file_name, object_key, content_type, size_bytes,
			width, height, caption, uploaded_by, status, approved, submitted_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, photo.ID, photo.FileName, photo.ObjectKey, photo.ContentType, photo.SizeBytes,
		photo.Width, photo.Height, photo.Caption, photo.UploadedBy, photo.Status,
		photo.Approved, photo.SubmittedAt)
	if err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

// GetPhoto returns a photo by id.
func (r *PhotoRepository) GetPhoto(ctx context.Context, id string) (*model.Photo, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+photoColumns+` FROM album_photos WHERE id=$1`, id)
	photo, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select photo: %w", err)
	}
	return photo, nil
}

// ListApprovedPhotos returns approved, ingest-complete photos newest first.
func (r *PhotoRepository) ListApprovedPhotos(ctx context.Context) ([]model.Photo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+photoColumns+` FROM album_photos
		WHERE approved AND status=$1
		ORDER BY submitted_at DESC
	`, model.PhotoReady)
	if err != nil {
		return nil, fmt.Errorf("select approved photos: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// ListAllPhotos returns every photo regardless of state.
func (r *PhotoRepository) ListAllPhotos(ctx context.Context) ([]model.Photo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+photoColumns+` FROM album_photos
		ORDER BY submitted_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select all photos: %w", err)
	}
	defer rows.Close()
	return collectPhotos(rows)
}

// UpdatePhotoIngest records the ingest probe outcome.
func (r *PhotoRepository) UpdatePhotoIngest(ctx context.Context, id string, width, height int, contentType string, status model.PhotoStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE album_photos
		SET width=$1, height=$2,
			content_type = COALESCE(NULLIF($3, ''), content_type),
			status=$4
		WHERE id=$5
	`, width, height, contentType, status, id)
	if err != nil {
		return fmt.Errorf("update photo ingest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPhotoApproval flips the approval gate and returns the updated record.
func (r *PhotoRepository) SetPhotoApproval(ctx context.Context, id string, approved bool, reviewedAt time.Time) (*model.Photo, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE album_photos
		SET approved=$1, reviewed_at=$2
		WHERE id=$3
		RETURNING `+photoColumns, approved, reviewedAt, id)
	photo, err := scanPhoto(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update photo approval: %w", err)
	}
	return photo, nil
}

// DeletePhoto removes the metadata row. Blob cleanup is the caller's job and
// must happen before this so a failed delete never strands a dangling row.
func (r *PhotoRepository) DeletePhoto(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM album_photos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPhoto(row pgx.Row) (*model.Photo, error) {
	var (
		photo      model.Photo
		reviewedAt *time.Time
	)
	if err := row.Scan(&photo.ID, &photo.FileName, &photo.ObjectKey, &photo.ContentType,
		&photo.SizeBytes, &photo.Width, &photo.Height, &photo.Caption, &photo.UploadedBy,
		&photo.Status, &photo.Approved, &photo.SubmittedAt, &reviewedAt); err != nil {
		return nil, err
	}
	photo.ReviewedAt = reviewedAt
	return &photo, nil
}

func collectPhotos(rows pgx.Rows) ([]model.Photo, error) {
	var photos []model.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate photos: %w", err)
	}
	return photos, nil
}
