package domain

import (
	"context"
	"time"
)

// InviteStatus is the lifecycle status of an invite.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteMaybe    InviteStatus = "maybe"
	InviteGoing    InviteStatus = "going"
	InviteExpired  InviteStatus = "expired"
)

// ValidInviteDecision reports whether s is a status an invitee may respond
// with. Pending and Expired are not decisions.
func ValidInviteDecision(s InviteStatus) bool {
	switch s {
	case InviteAccepted, InviteDeclined, InviteMaybe, InviteGoing:
		return true
	}
	return false
}

// Invite represents an invitation from one user to another for an event.
// swagger:model Invite
type Invite struct {
	ID          string       `json:"id"`
	InviterID   string       `json:"inviter_id"`
	InviteeID   string       `json:"invitee_id"`
	EventID     string       `json:"event_id"`
	Status      InviteStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	SentAt      time.Time    `json:"sent_at"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
}

// EffectiveStatus returns the status the invite should be observed in at the
// given time: Expired when a pending invite's expiry has passed, the stored
// status otherwise. Expiry is resolved lazily on read; there is no sweeper.
func (i *Invite) EffectiveStatus(now time.Time) InviteStatus {
	if i.Status == InvitePending && i.ExpiresAt != nil && i.ExpiresAt.Before(now) {
		return InviteExpired
	}
	return i.Status
}

// Responded reports whether the invite has reached a terminal state via an
// explicit response.
func (i *Invite) Responded() bool {
	return i.RespondedAt != nil
}

// InviteRepository defines the interface for invite storage.
type InviteRepository interface {
	Create(ctx context.Context, invite *Invite) error
	GetByID(ctx context.Context, id string) (*Invite, error)
	GetByInviteeAndEvent(ctx context.Context, inviteeID, eventID string) (*Invite, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Invite, int, error)
	ListPendingByInviteeID(ctx context.Context, inviteeID string) ([]*Invite, error)
	Update(ctx context.Context, invite *Invite) error
	// MarkExpired transitions a pending invite to expired. Best effort: a row
	// that already left pending is not touched.
	MarkExpired(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// InviteService defines the invite ledger: sending invites and tracking
// their lifecycle. Responding here only settles the invite itself; RSVP
// creation stays with the RSVPService so there is a single writer of RSVP
// state.
type InviteService interface {
	SendInvite(ctx context.Context, inviterID, inviteeID, eventID, message string, expiresAt *time.Time, actingUserID string) (*Invite, error)
	GetInviteByID(ctx context.Context, inviteID string) (*Invite, error)
	ListInvitesByEvent(ctx context.Context, eventID, actingUserID string, params PaginationParams) ([]*Invite, int, error)
	// ListPendingInvites returns pending invites for the user, lazily expiring
	// any whose expiry has passed.
	ListPendingInvites(ctx context.Context, userID, actingUserID string) ([]*Invite, error)
	// RespondToInvite settles the invite with the given decision. Fails when
	// the invite was already responded to or has expired (the latter persists
	// the Expired transition before failing).
	RespondToInvite(ctx context.Context, inviteID string, decision InviteStatus, actingUserID string) (*Invite, error)
	UpdateInviteMessage(ctx context.Context, inviteID, message string, expiresAt *time.Time, actingUserID string) (*Invite, error)
	DeleteInvite(ctx context.Context, inviteID, actingUserID string) error
}
