package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"eventplanner/internal/domain"
)

// admissionPath records how consent for an RSVP was obtained. Both paths run
// the same admission checks; only the privacy step differs, since an invited
// responder satisfies it by construction.
type admissionPath int

const (
	pathDirect admissionPath = iota
	pathInvited
)

// eventLocks hands out one mutex per event id, created on first use and kept
// for the lifetime of the process. Serializes the count-then-insert capacity
// check per event.
type eventLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *eventLocks) forEvent(eventID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[eventID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[eventID] = lock
	}
	return lock
}

type rsvpService struct {
	rsvpRepo       domain.RSVPRepository
	eventRepo      domain.EventRepository
	inviteRepo     domain.InviteRepository
	inviteService  domain.InviteService
	gate           domain.AuthorizationGate
	locks          *eventLocks
	contextTimeout time.Duration
}

// NewRSVPService creates the response engine: the sole writer of RSVP state.
// All paths that create an RSVP, direct or via invite response, go through
// its admission checks.
func NewRSVPService(
	rsvpRepo domain.RSVPRepository,
	eventRepo domain.EventRepository,
	inviteRepo domain.InviteRepository,
	inviteService domain.InviteService,
	gate domain.AuthorizationGate,
	timeout time.Duration,
) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:       rsvpRepo,
		eventRepo:      eventRepo,
		inviteRepo:     inviteRepo,
		inviteService:  inviteService,
		gate:           gate,
		locks:          newEventLocks(),
		contextTimeout: timeout,
	}
}

// admit runs the admission sequence for creating an RSVP: event open,
// privacy, uniqueness, capacity. Callers must hold the event's lock so the
// capacity count and the subsequent insert are serialized per event.
func (s *rsvpService) admit(ctx context.Context, userID string, event *domain.Event, status domain.RSVPStatus, path admissionPath) error {
	now := time.Now()
	if event.HasStarted(now) {
		return domain.ErrEventStarted
	}
	if !event.IsUpcomingAndOpen(now) {
		return domain.ErrEventNotOpen
	}

	// Private events require an invitation regardless of entry point.
	if path == pathDirect && event.IsPrivate {
		if _, err := s.inviteRepo.GetByInviteeAndEvent(ctx, userID, event.ID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrInviteRequired
			}
			return fmt.Errorf("get invite: %w", err)
		}
	}

	if _, err := s.rsvpRepo.GetByUserAndEvent(ctx, userID, event.ID); err == nil {
		return domain.ErrDuplicateRSVP
	} else if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get rsvp: %w", err)
	}

	// Capacity only gates statuses that consume a spot.
	if status.CountsTowardCapacity() {
		count, err := s.rsvpRepo.CountGoingByEvent(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("count going: %w", err)
		}
		if event.RemainingSpots(count) <= 0 {
			return domain.ErrEventFull
		}
	}
	return nil
}

func (s *rsvpService) CreateDirectRSVP(ctx context.Context, userID, eventID string, status domain.RSVPStatus, actingUserID string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if userID == "" || eventID == "" {
		return nil, fmt.Errorf("%w: user and event are required", domain.ErrInvalidInput)
	}
	if !domain.ValidRSVPStatus(status) {
		return nil, fmt.Errorf("%w: unknown rsvp status %q", domain.ErrInvalidInput, status)
	}
	if err := s.gate.Authorize(ctx, domain.OpRSVPEdit, actingUserID, userID); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	lock := s.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.admit(ctx, userID, event, status, pathDirect); err != nil {
		return nil, err
	}

	rsvp := &domain.RSVP{
		UserID:    userID,
		EventID:   eventID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrDuplicateRSVP) {
			return nil, domain.ErrDuplicateRSVP
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) RespondToInvite(ctx context.Context, inviteID string, decision domain.InviteStatus, actingUserID string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidInviteDecision(decision) {
		return nil, fmt.Errorf("%w: %q is not a valid invite decision", domain.ErrInvalidInput, decision)
	}
	inv, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpInviteRespond, actingUserID, inv.InviteeID); err != nil {
		return nil, err
	}
	if inv.Responded() {
		return nil, domain.ErrInviteResponded
	}
	if inv.EffectiveStatus(time.Now()) == domain.InviteExpired {
		if err := s.inviteRepo.MarkExpired(ctx, inv.ID); err != nil {
			return nil, fmt.Errorf("mark invite expired: %w", err)
		}
		return nil, domain.ErrInviteExpired
	}

	event, err := s.eventRepo.GetByID(ctx, inv.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	status := domain.RSVPStatusForDecision(decision)

	lock := s.locks.forEvent(inv.EventID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.admit(ctx, inv.InviteeID, event, status, pathInvited); err != nil {
		return nil, err
	}

	rsvp := &domain.RSVP{
		UserID:    inv.InviteeID,
		EventID:   inv.EventID,
		Status:    status,
		CreatedAt: time.Now(),
	}
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrDuplicateRSVP) {
			return nil, domain.ErrDuplicateRSVP
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}

	// Settle the invite through the ledger once the RSVP exists.
	if _, err := s.inviteService.RespondToInvite(ctx, inviteID, decision, actingUserID); err != nil {
		return nil, fmt.Errorf("settle invite: %w", err)
	}

	return rsvp, nil
}

func (s *rsvpService) GetRSVPByID(ctx context.Context, rsvpID string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) ListRSVPsByEvent(ctx context.Context, eventID string) ([]*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rsvps, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps by event: %w", err)
	}
	return rsvps, nil
}

func (s *rsvpService) ListRSVPsByUser(ctx context.Context, userID, actingUserID string) ([]*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpUserRead, actingUserID, userID); err != nil {
		return nil, err
	}
	rsvps, err := s.rsvpRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps by user: %w", err)
	}
	return rsvps, nil
}

func (s *rsvpService) UpdateRSVPStatus(ctx context.Context, rsvpID string, status domain.RSVPStatus, actingUserID string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidRSVPStatus(status) {
		return nil, fmt.Errorf("%w: unknown rsvp status %q", domain.ErrInvalidInput, status)
	}
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpRSVPEdit, actingUserID, rsvp.UserID); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, rsvp.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HasStarted(time.Now()) {
		return nil, domain.ErrEventStarted
	}

	lock := s.locks.forEvent(rsvp.EventID)
	lock.Lock()
	defer lock.Unlock()

	// A transition into an attendance-counting status consumes a spot and is
	// re-admitted against capacity under the same lock as creation.
	if status.CountsTowardCapacity() && !rsvp.Status.CountsTowardCapacity() {
		count, err := s.rsvpRepo.CountGoingByEvent(ctx, rsvp.EventID)
		if err != nil {
			return nil, fmt.Errorf("count going: %w", err)
		}
		if event.RemainingSpots(count) <= 0 {
			return nil, domain.ErrEventFull
		}
	}

	now := time.Now()
	rsvp.Status = status
	rsvp.UpdatedAt = &now
	if err := s.rsvpRepo.Update(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) CancelRSVP(ctx context.Context, rsvpID, actingUserID string) (*domain.RSVP, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpRSVPEdit, actingUserID, rsvp.UserID); err != nil {
		return nil, err
	}
	// Idempotent: a second cancel returns the same declined state.
	if rsvp.Status == domain.RSVPDeclined {
		return rsvp, nil
	}

	now := time.Now()
	rsvp.Status = domain.RSVPDeclined
	rsvp.UpdatedAt = &now
	if err := s.rsvpRepo.Update(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) DeleteRSVP(ctx context.Context, rsvpID, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpRSVPDelete, actingUserID, ""); err != nil {
		return err
	}
	if err := s.rsvpRepo.Delete(ctx, rsvpID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete rsvp: %w", err)
	}
	return nil
}
