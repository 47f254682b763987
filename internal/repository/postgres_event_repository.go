package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/juntape/junta/internal/domain"
	"github.com/juntape/junta/pkg/database"
)

var ErrNotFound = errors.New("record not found")

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	db database.DBTX
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(db database.DBTX) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// eventColumns uses COALESCE for nullable text columns to avoid scan errors
const eventColumns = `id, slug, title,
	COALESCE(subtitle, '') AS subtitle,
	COALESCE(description, '') AS description,
	COALESCE(full_description, '') AS full_description,
	category,
	COALESCE(date, '') AS date,
	COALESCE(time, '') AS time,
	COALESCE(location, '') AS location,
	COALESCE(image, '') AS image,
	COALESCE(video_url, '') AS video_url,
	goal::float8, raised::float8, donors, days_left,
	status, is_featured, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID,
		&e.Slug,
		&e.Title,
		&e.Subtitle,
		&e.Description,
		&e.FullDescription,
		&e.Category,
		&e.Date,
		&e.Time,
		&e.Location,
		&e.Image,
		&e.VideoURL,
		&e.Goal,
		&e.Raised,
		&e.Donors,
		&e.DaysLeft,
		&e.Status,
		&e.IsFeatured,
		&e.CreatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func scanEvents(rows pgx.Rows) ([]*domain.Event, error) {
	defer rows.Close()

	events := []*domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Create creates a new event
func (r *PostgresEventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (
			id, slug, title, subtitle, description, full_description, category,
			date, time, location, image, video_url, goal, raised, donors,
			days_left, status, is_featured, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
	`
	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.Slug,
		e.Title,
		e.Subtitle,
		e.Description,
		e.FullDescription,
		e.Category,
		e.Date,
		e.Time,
		e.Location,
		e.Image,
		e.VideoURL,
		e.Goal,
		e.Raised,
		e.Donors,
		e.DaysLeft,
		e.Status,
		e.IsFeatured,
		e.CreatedBy,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

// GetByID retrieves an event by ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1 AND deleted_at IS NULL`, eventColumns)
	e, err := scanEvent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// GetBySlug retrieves an event by slug
func (r *PostgresEventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE slug = $1 AND deleted_at IS NULL`, eventColumns)
	e, err := scanEvent(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

// Update writes every editable column. raised and donors are not touched.
func (r *PostgresEventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET
			slug = $2, title = $3, subtitle = $4, description = $5,
			full_description = $6, category = $7, date = $8, time = $9,
			location = $10, image = $11, video_url = $12, goal = $13,
			days_left = $14, status = $15, is_featured = $16, updated_at = $17
		WHERE id = $1 AND deleted_at IS NULL
	`

	e.UpdatedAt = time.Now().UTC()
	result, err := r.db.Exec(ctx, query,
		e.ID,
		e.Slug,
		e.Title,
		e.Subtitle,
		e.Description,
		e.FullDescription,
		e.Category,
		e.Date,
		e.Time,
		e.Location,
		e.Image,
		e.VideoURL,
		e.Goal,
		e.DaysLeft,
		e.Status,
		e.IsFeatured,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft deletes an event by ID
func (r *PostgresEventRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE events
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
	`
	result, err := r.db.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublished lists all published events
func (r *PostgresEventRepository) ListPublished(ctx context.Context) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status = $1 AND deleted_at IS NULL
		ORDER BY is_featured DESC, created_at DESC
	`, eventColumns)

	rows, err := r.db.Query(ctx, query, domain.EventStatusPublished)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListByCreator lists a promoter's events
func (r *PostgresEventRepository) ListByCreator(ctx context.Context, userID string) ([]*domain.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE created_by = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`, eventColumns)

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// SlugExists checks slugs across all rows, soft-deleted included, since the
// unique index covers them too
func (r *PostgresEventRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	var err error
	if excludeID == "" {
		err = r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1)`, slug).Scan(&exists)
	} else {
		err = r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE slug = $1 AND id <> $2)`, slug, excludeID).Scan(&exists)
	}
	return exists, err
}

// ImageInUse ignores soft-deleted events
func (r *PostgresEventRepository) ImageInUse(ctx context.Context, imageURL, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM events
			WHERE image = $1 AND id::text <> $2 AND deleted_at IS NULL
		)
	`, imageURL, excludeID).Scan(&exists)
	return exists, err
}
