// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, eventType string) ([]Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const eventColumns = `id, image_url, type, date, month, title, time, location,
	description, created_at, updated_at`

func (r *repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (id, image_url, type, date, month, title, time, location, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID, e.ImageURL, e.Type, e.Date, e.Month,
		e.Title, e.Time, e.Location, e.Description,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	if err := core.RequireUUID("get event", id); err != nil {
		return nil, err
	}

	var e Event
	err := r.db.GetContext(ctx, &e, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &e, nil
}

// List returns events newest first, optionally restricted to one type.
func (r *repository) List(ctx context.Context, eventType string) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if eventType != "" {
		query += ` WHERE type = $1`
		args = append(args, eventType)
	}
	query += ` ORDER BY created_at DESC`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events
		SET image_url = $2, type = $3, date = $4, month = $5, title = $6,
			time = $7, location = $8, description = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &e.UpdatedAt, query,
		e.ID, e.ImageURL, e.Type, e.Date, e.Month,
		e.Title, e.Time, e.Location, e.Description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if err := core.RequireUUID("delete event", id); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}

	return nil
}
