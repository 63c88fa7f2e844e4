package domain

import (
	"context"
	"time"
)

// RSVPStatus mirrors the response intent of a user for an event.
type RSVPStatus string

const (
	RSVPPending  RSVPStatus = "pending"
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
	RSVPAccepted RSVPStatus = "accepted"
)

// ValidRSVPStatus reports whether s is a known RSVP status.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPPending, RSVPGoing, RSVPMaybe, RSVPDeclined, RSVPAccepted:
		return true
	}
	return false
}

// CountsTowardCapacity reports whether the status consumes an attendance
// spot. Declined, Maybe and Pending never block on capacity.
func (s RSVPStatus) CountsTowardCapacity() bool {
	return s == RSVPGoing || s == RSVPAccepted
}

// RSVPStatusForDecision maps an invite decision to the RSVP status the
// response engine records for it.
func RSVPStatusForDecision(decision InviteStatus) RSVPStatus {
	switch decision {
	case InviteAccepted, InviteGoing:
		return RSVPGoing
	case InviteDeclined:
		return RSVPDeclined
	case InviteMaybe:
		return RSVPMaybe
	default:
		return RSVPPending
	}
}

// RSVP represents a user's response to an event. At most one exists per
// (user, event) pair.
// swagger:model RSVP
type RSVP struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	EventID   string     `json:"event_id"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RSVPRepository defines the interface for RSVP storage. Create must surface
// the (user_id, event_id) uniqueness constraint as ErrDuplicateRSVP so the
// check-then-insert window is closed at the storage boundary.
type RSVPRepository interface {
	Create(ctx context.Context, rsvp *RSVP) error
	GetByID(ctx context.Context, id string) (*RSVP, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*RSVP, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RSVP, error)
	ListByUserID(ctx context.Context, userID string) ([]*RSVP, error)
	CountGoingByEvent(ctx context.Context, eventID string) (int, error)
	Update(ctx context.Context, rsvp *RSVP) error
	Delete(ctx context.Context, id string) error
}

// RSVPService is the response engine: the sole writer of RSVP state and the
// orchestrator that couples invite outcomes to RSVP creation. Both entry
// points (direct and invite response) run the same admission checks.
type RSVPService interface {
	CreateDirectRSVP(ctx context.Context, userID, eventID string, status RSVPStatus, actingUserID string) (*RSVP, error)
	// RespondToInvite settles the invite and creates the matching RSVP.
	RespondToInvite(ctx context.Context, inviteID string, decision InviteStatus, actingUserID string) (*RSVP, error)
	GetRSVPByID(ctx context.Context, rsvpID string) (*RSVP, error)
	ListRSVPsByEvent(ctx context.Context, eventID string) ([]*RSVP, error)
	ListRSVPsByUser(ctx context.Context, userID, actingUserID string) ([]*RSVP, error)
	UpdateRSVPStatus(ctx context.Context, rsvpID string, status RSVPStatus, actingUserID string) (*RSVP, error)
	// CancelRSVP sets the RSVP to declined. Safe to call repeatedly.
	CancelRSVP(ctx context.Context, rsvpID, actingUserID string) (*RSVP, error)
	DeleteRSVP(ctx context.Context, rsvpID, actingUserID string) error
}
