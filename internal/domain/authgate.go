package domain

import "context"

// Operation identifies a gated action for the authorization gate.
type Operation string

const (
	OpEventCreate    Operation = "event.create"
	OpEventManage    Operation = "event.manage"
	OpCategoryManage Operation = "category.manage"
	OpInviteManage   Operation = "invite.manage"
	OpInviteRespond  Operation = "invite.respond"
	OpRSVPEdit       Operation = "rsvp.edit"
	OpRSVPDelete     Operation = "rsvp.delete"
	OpUserRead       Operation = "user.read"
	OpUserManage     Operation = "user.manage"
	OpRoleAssign     Operation = "role.assign"
)

// AuthorizationGate decides whether the acting user may perform an operation
// on a resource owned by resourceOwnerID. Operations without a meaningful
// owner pass an empty owner. Denial is always ErrForbidden, never a silent
// no-op.
type AuthorizationGate interface {
	Authorize(ctx context.Context, op Operation, actingUserID, resourceOwnerID string) error
}
