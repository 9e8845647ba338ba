package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bbasketballer75/guestfolio/internal/model"
)

// LocationRepository wraps all SQL for the map_locations table.
type LocationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository constructs a repository.
func NewLocationRepository(pool *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{pool: pool}
}

// CreateLocation inserts a new map pin.
func (r *LocationRepository) CreateLocation(ctx context.Context, loc *model.Location) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO map_locations (id, name, latitude, longitude, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, loc.ID, loc.Name, loc.Latitude, loc.Longitude, loc.Description, loc.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// ListLocations returns every pin, oldest first.
func (r *LocationRepository) ListLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, latitude, longitude, description, created_at
		FROM map_locations
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("select locations: %w", err)
	}
	defer rows.Close()
	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude,
			&loc.Description, &loc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	return locations, nil
}

// VisitRepository wraps all SQL for the visit_logs table.
type VisitRepository struct {
	pool *pgxpool.Pool
}

// NewVisitRepository constructs a repository.
func NewVisitRepository(pool *pgxpool.Pool) *VisitRepository {
	return &VisitRepository{pool: pool}
}

// CreateVisit records one deduplicated visit.
func (r *VisitRepository) CreateVisit(ctx context.Context, visit *model.Visit) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO visit_logs (id, ip, user_agent, visited_at)
		VALUES ($1,$2,$3,$4)
	`, visit.ID, visit.IP, visit.UserAgent, visit.VisitedAt)
	if err != nil {
		return fmt.Errorf("insert visit: %w", err)
	}
	return nil
}
