package domain

import (
	"errors"
	"fmt"
)

// Base error kinds. Every recoverable failure the services return matches
// exactly one of these via errors.Is, so the delivery layer can map it to a
// stable HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
)

// Named conflicts. Each wraps ErrConflict so errors.Is(err, ErrConflict)
// still holds while callers get a stable per-condition message.
var (
	ErrEventFull        = fmt.Errorf("%w: event is full", ErrConflict)
	ErrEventNotOpen     = fmt.Errorf("%w: event is not open for responses", ErrConflict)
	ErrEventStarted     = fmt.Errorf("%w: event has already started", ErrConflict)
	ErrDuplicateRSVP    = fmt.Errorf("%w: rsvp already exists for this user and event", ErrConflict)
	ErrDuplicateInvite  = fmt.Errorf("%w: user is already invited to this event", ErrConflict)
	ErrInviteResponded  = fmt.Errorf("%w: invite has already been responded to", ErrConflict)
	ErrInviteExpired    = fmt.Errorf("%w: invite has expired", ErrConflict)
	ErrInviteAccepted   = fmt.Errorf("%w: cannot delete an accepted invite", ErrConflict)
	ErrInviteRequired   = fmt.Errorf("%w: private event requires an invite", ErrConflict)
	ErrEventCompleted   = fmt.Errorf("%w: cannot delete a completed event", ErrConflict)
	ErrCategoryInUse    = fmt.Errorf("%w: category has events", ErrConflict)
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)
