package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventplanner/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, location, start_date, end_date, owner_id, category_id, max_participants, is_private, status, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	var desc sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &desc, &e.Location, &e.StartDate, &e.EndDate,
		&e.OwnerID, &e.CategoryID, &e.MaxParticipants, &e.IsPrivate,
		&e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Description = desc.String
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, location, start_date, end_date, owner_id, category_id, max_participants, is_private, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Location, e.StartDate, e.EndDate,
		e.OwnerID, e.CategoryID, e.MaxParticipants, e.IsPrivate, e.Status,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY start_date`
	return r.queryEvents(ctx, query)
}

func (r *eventRepository) ListByOwnerID(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE owner_id = $1 ORDER BY start_date`
	return r.queryEvents(ctx, query, ownerID)
}

func (r *eventRepository) ListByCategoryID(ctx context.Context, categoryID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE category_id = $1 ORDER BY start_date`
	return r.queryEvents(ctx, query, categoryID)
}

func (r *eventRepository) ListByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE status = $1 ORDER BY start_date`
	return r.queryEvents(ctx, query, status)
}

func (r *eventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, location = $4, start_date = $5, end_date = $6,
		    category_id = $7, max_participants = $8, is_private = $9, status = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Location, e.StartDate, e.EndDate,
		e.CategoryID, e.MaxParticipants, e.IsPrivate, e.Status, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) error {
	query := `UPDATE events SET status = $2, updated_at = now() WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
