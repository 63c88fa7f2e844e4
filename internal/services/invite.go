package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type inviteService struct {
	inviteRepo     domain.InviteRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	gate           domain.AuthorizationGate
	contextTimeout time.Duration
}

// NewInviteService creates the invite ledger. Responding here only settles
// the invite; RSVP creation belongs to the RSVPService.
func NewInviteService(
	inviteRepo domain.InviteRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	gate domain.AuthorizationGate,
	timeout time.Duration,
) domain.InviteService {
	return &inviteService{
		inviteRepo:     inviteRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		gate:           gate,
		contextTimeout: timeout,
	}
}

func (s *inviteService) SendInvite(ctx context.Context, inviterID, inviteeID, eventID, message string, expiresAt *time.Time, actingUserID string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpInviteManage, actingUserID, ""); err != nil {
		return nil, err
	}
	if inviterID == "" || inviteeID == "" || eventID == "" {
		return nil, fmt.Errorf("%w: inviter, invitee and event are required", domain.ErrInvalidInput)
	}
	if inviterID == inviteeID {
		return nil, fmt.Errorf("%w: inviter cannot be the same as invitee", domain.ErrInvalidInput)
	}

	inviter, err := s.userRepo.GetByID(ctx, inviterID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: inviter does not exist", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("get inviter: %w", err)
	}
	invitee, err := s.userRepo.GetByID(ctx, inviteeID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: invitee does not exist", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("get invitee: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: event does not exist", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if _, err := s.inviteRepo.GetByInviteeAndEvent(ctx, inviteeID, eventID); err == nil {
		return nil, domain.ErrDuplicateInvite
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get invite: %w", err)
	}

	inv := &domain.Invite{
		InviterID: inviterID,
		InviteeID: inviteeID,
		EventID:   eventID,
		Status:    domain.InvitePending,
		Message:   strings.TrimSpace(message),
		SentAt:    time.Now(),
		ExpiresAt: expiresAt,
	}
	if err := s.inviteRepo.Create(ctx, inv); err != nil {
		// The unique constraint closes the check/insert window.
		if errors.Is(err, domain.ErrDuplicateInvite) {
			return nil, domain.ErrDuplicateInvite
		}
		return nil, fmt.Errorf("create invite: %w", err)
	}

	if s.emailService != nil {
		inviterName := strings.TrimSpace(inviter.Name)
		if inviterName == "" {
			inviterName = inviter.Email
		}
		expires := ""
		if inv.ExpiresAt != nil {
			expires = inv.ExpiresAt.Format("Jan 2, 2006 15:04 MST")
		}
		data := &domain.InviteEmailData{
			Email:       invitee.Email,
			InviterName: inviterName,
			EventTitle:  event.Title,
			Message:     inv.Message,
			ExpiresAt:   expires,
		}
		// Notification delivery never fails the send itself.
		if err := s.emailService.SendInviteNotification(ctx, data); err != nil {
			log.Printf("[INVITE] notification email to %s failed: %v", invitee.Email, err)
		}
	}

	return inv, nil
}

func (s *inviteService) GetInviteByID(ctx context.Context, inviteID string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return inv, nil
}

func (s *inviteService) ListInvitesByEvent(ctx context.Context, eventID, actingUserID string, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpEventManage, actingUserID, event.OwnerID); err != nil {
		return nil, 0, err
	}
	invs, total, err := s.inviteRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invites: %w", err)
	}
	return invs, total, nil
}

func (s *inviteService) ListPendingInvites(ctx context.Context, userID, actingUserID string) ([]*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpUserRead, actingUserID, userID); err != nil {
		return nil, err
	}
	invs, err := s.inviteRepo.ListPendingByInviteeID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending invites: %w", err)
	}

	// Lazy expiry on read: expired invites are transitioned and excluded.
	now := time.Now()
	pending := make([]*domain.Invite, 0, len(invs))
	for _, inv := range invs {
		if inv.EffectiveStatus(now) == domain.InviteExpired {
			if err := s.inviteRepo.MarkExpired(ctx, inv.ID); err != nil {
				return nil, fmt.Errorf("mark invite expired: %w", err)
			}
			continue
		}
		pending = append(pending, inv)
	}
	return pending, nil
}

func (s *inviteService) RespondToInvite(ctx context.Context, inviteID string, decision domain.InviteStatus, actingUserID string) (*domain.Invite, error) {
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
	now := time.Now()
	if inv.EffectiveStatus(now) == domain.InviteExpired {
		if err := s.inviteRepo.MarkExpired(ctx, inv.ID); err != nil {
			return nil, fmt.Errorf("mark invite expired: %w", err)
		}
		return nil, domain.ErrInviteExpired
	}

	inv.Status = decision
	inv.RespondedAt = &now
	if err := s.inviteRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invite: %w", err)
	}
	return inv, nil
}

func (s *inviteService) UpdateInviteMessage(ctx context.Context, inviteID, message string, expiresAt *time.Time, actingUserID string) (*domain.Invite, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpInviteManage, actingUserID, ""); err != nil {
		return nil, err
	}
	inv, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	if inv.Responded() {
		return nil, domain.ErrInviteResponded
	}
	inv.Message = strings.TrimSpace(message)
	if expiresAt != nil {
		inv.ExpiresAt = expiresAt
	}
	if err := s.inviteRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("update invite: %w", err)
	}
	return inv, nil
}

func (s *inviteService) DeleteInvite(ctx context.Context, inviteID, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpInviteManage, actingUserID, ""); err != nil {
		return err
	}
	inv, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get invite: %w", err)
	}
	// An accepted invite backs a live RSVP; cancel the RSVP first.
	if inv.Status == domain.InviteAccepted || inv.Status == domain.InviteGoing {
		return domain.ErrInviteAccepted
	}
	if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete invite: %w", err)
	}
	return nil
}
