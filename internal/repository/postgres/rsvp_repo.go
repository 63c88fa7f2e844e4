package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (user_id, event_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, rsvp.UserID, rsvp.EventID, rsvp.Status, rsvp.CreatedAt).
		Scan(&rsvp.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateRSVP
		}
		return err
	}
	return nil
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at, updated_at
		FROM rsvps
		WHERE id = $1
	`
	return r.scanRSVP(r.DB.QueryRowContext(ctx, query, id))
}

func (r *rsvpRepository) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at, updated_at
		FROM rsvps
		WHERE user_id = $1 AND event_id = $2
	`
	return r.scanRSVP(r.DB.QueryRowContext(ctx, query, userID, eventID))
}

func (r *rsvpRepository) scanRSVP(row *sql.Row) (*domain.RSVP, error) {
	rsvp := &domain.RSVP{}
	var updated sql.NullTime
	err := row.Scan(&rsvp.ID, &rsvp.UserID, &rsvp.EventID, &rsvp.Status, &rsvp.CreatedAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if updated.Valid {
		rsvp.UpdatedAt = &updated.Time
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at, updated_at
		FROM rsvps
		WHERE event_id = $1
		ORDER BY created_at
	`
	return r.queryRSVPs(ctx, query, eventID)
}

func (r *rsvpRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	query := `
		SELECT id, user_id, event_id, status, created_at, updated_at
		FROM rsvps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.queryRSVPs(ctx, query, userID)
}

func (r *rsvpRepository) queryRSVPs(ctx context.Context, query string, args ...any) ([]*domain.RSVP, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rsvps []*domain.RSVP
	for rows.Next() {
		rsvp := &domain.RSVP{}
		var updated sql.NullTime
		if err := rows.Scan(&rsvp.ID, &rsvp.UserID, &rsvp.EventID, &rsvp.Status, &rsvp.CreatedAt, &updated); err != nil {
			return nil, err
		}
		if updated.Valid {
			rsvp.UpdatedAt = &updated.Time
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	return rsvps, nil
}

func (r *rsvpRepository) CountGoingByEvent(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM rsvps
		WHERE event_id = $1 AND status IN ($2, $3)
	`
	var count int
	err := r.DB.QueryRowContext(ctx, query, eventID, domain.RSVPGoing, domain.RSVPAccepted).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rsvpRepository) Update(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		UPDATE rsvps
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, rsvp.ID, rsvp.Status, rsvp.UpdatedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM rsvps WHERE id = $1`
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
