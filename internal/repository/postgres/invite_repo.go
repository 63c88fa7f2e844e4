package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventplanner/internal/domain"
)

type inviteRepository struct {
	DB *sql.DB
}

func NewInviteRepository(db *sql.DB) domain.InviteRepository {
	return &inviteRepository{
		DB: db,
	}
}

const inviteColumns = `id, inviter_id, invitee_id, event_id, status, message, sent_at, responded_at, expires_at`

func (r *inviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	query := `
		INSERT INTO invites (inviter_id, invitee_id, event_id, status, message, sent_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		inv.InviterID, inv.InviteeID, inv.EventID, inv.Status, inv.Message, inv.SentAt, inv.ExpiresAt,
	).Scan(&inv.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateInvite
		}
		return err
	}
	return nil
}

func (r *inviteRepository) GetByID(ctx context.Context, id string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`
	return r.scanInvite(r.DB.QueryRowContext(ctx, query, id))
}

func (r *inviteRepository) GetByInviteeAndEvent(ctx context.Context, inviteeID, eventID string) (*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE invitee_id = $1 AND event_id = $2`
	return r.scanInvite(r.DB.QueryRowContext(ctx, query, inviteeID, eventID))
}

func (r *inviteRepository) scanInvite(row *sql.Row) (*domain.Invite, error) {
	inv := &domain.Invite{}
	var message sql.NullString
	var responded, expires sql.NullTime
	err := row.Scan(&inv.ID, &inv.InviterID, &inv.InviteeID, &inv.EventID, &inv.Status, &message, &inv.SentAt, &responded, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	inv.Message = message.String
	if responded.Valid {
		inv.RespondedAt = &responded.Time
	}
	if expires.Valid {
		inv.ExpiresAt = &expires.Time
	}
	return inv, nil
}

func (r *inviteRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invites WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE event_id = $1 ORDER BY sent_at DESC LIMIT $2 OFFSET $3`
	invs, err := r.queryInvites(ctx, query, eventID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *inviteRepository) ListPendingByInviteeID(ctx context.Context, inviteeID string) ([]*domain.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE invitee_id = $1 AND status = $2 ORDER BY sent_at DESC`
	return r.queryInvites(ctx, query, inviteeID, domain.InvitePending)
}

func (r *inviteRepository) queryInvites(ctx context.Context, query string, args ...any) ([]*domain.Invite, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []*domain.Invite
	for rows.Next() {
		inv := &domain.Invite{}
		var message sql.NullString
		var responded, expires sql.NullTime
		if err := rows.Scan(&inv.ID, &inv.InviterID, &inv.InviteeID, &inv.EventID, &inv.Status, &message, &inv.SentAt, &responded, &expires); err != nil {
			return nil, err
		}
		inv.Message = message.String
		if responded.Valid {
			inv.RespondedAt = &responded.Time
		}
		if expires.Valid {
			inv.ExpiresAt = &expires.Time
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []*domain.Invite{}
	}
	return invs, nil
}

func (r *inviteRepository) Update(ctx context.Context, inv *domain.Invite) error {
	query := `
		UPDATE invites
		SET status = $2, message = $3, responded_at = $4, expires_at = $5
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, inv.ID, inv.Status, inv.Message, inv.RespondedAt, inv.ExpiresAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *inviteRepository) MarkExpired(ctx context.Context, id string) error {
	// Only pending invites expire; a concurrent response wins.
	query := `UPDATE invites SET status = $2 WHERE id = $1 AND status = $3`
	_, err := r.DB.ExecContext(ctx, query, id, domain.InviteExpired, domain.InvitePending)
	return err
}

func (r *inviteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM invites WHERE id = $1`
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
