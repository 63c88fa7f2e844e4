package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"eventplanner/internal/domain"
)

func newTestRSVPService(eventRepo *fakeEventRepo, rsvpRepo *fakeRSVPRepo, inviteRepo *fakeInviteRepo, rolesByUser map[string][]string) domain.RSVPService {
	gate := newTestGate(rolesByUser)
	userRepo := newFakeUserRepo()
	inviteSvc := NewInviteService(inviteRepo, eventRepo, userRepo, nil, gate, time.Second)
	return NewRSVPService(rsvpRepo, eventRepo, inviteRepo, inviteSvc, gate, time.Second)
}

func TestCreateDirectRSVP(t *testing.T) {
	tests := []struct {
		name    string
		event   *domain.Event
		rsvps   []*domain.RSVP
		invites []*domain.Invite
		userID  string
		status  domain.RSVPStatus
		wantErr error
	}{
		{
			name:   "going rsvp on open public event",
			event:  futureEvent("e1", "owner", 10, false),
			userID: "u1",
			status: domain.RSVPGoing,
		},
		{
			name:  "duplicate rsvp rejected",
			event: futureEvent("e1", "owner", 10, false),
			rsvps: []*domain.RSVP{
				{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPMaybe},
			},
			userID:  "u1",
			status:  domain.RSVPGoing,
			wantErr: domain.ErrDuplicateRSVP,
		},
		{
			name:  "full event rejects going",
			event: futureEvent("e1", "owner", 1, false),
			rsvps: []*domain.RSVP{
				{ID: "r1", UserID: "other", EventID: "e1", Status: domain.RSVPGoing},
			},
			userID:  "u1",
			status:  domain.RSVPGoing,
			wantErr: domain.ErrEventFull,
		},
		{
			name:  "full event still accepts maybe",
			event: futureEvent("e1", "owner", 1, false),
			rsvps: []*domain.RSVP{
				{ID: "r1", UserID: "other", EventID: "e1", Status: domain.RSVPGoing},
			},
			userID: "u1",
			status: domain.RSVPMaybe,
		},
		{
			name:    "private event without invite rejected",
			event:   futureEvent("e1", "owner", 10, true),
			userID:  "u1",
			status:  domain.RSVPGoing,
			wantErr: domain.ErrInviteRequired,
		},
		{
			name:  "private event with invite admitted",
			event: futureEvent("e1", "owner", 10, true),
			invites: []*domain.Invite{
				{ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1", Status: domain.InvitePending},
			},
			userID: "u1",
			status: domain.RSVPGoing,
		},
		{
			name: "started event rejected",
			event: func() *domain.Event {
				e := futureEvent("e1", "owner", 10, false)
				e.StartDate = time.Now().Add(-time.Hour)
				return e
			}(),
			userID:  "u1",
			status:  domain.RSVPGoing,
			wantErr: domain.ErrEventStarted,
		},
		{
			name: "cancelled event rejected",
			event: func() *domain.Event {
				e := futureEvent("e1", "owner", 10, false)
				e.Status = domain.EventCancelled
				return e
			}(),
			userID:  "u1",
			status:  domain.RSVPGoing,
			wantErr: domain.ErrEventNotOpen,
		},
		{
			name:    "unknown status rejected",
			event:   futureEvent("e1", "owner", 10, false),
			userID:  "u1",
			status:  domain.RSVPStatus("definitely"),
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventRepo := newFakeEventRepo(tt.event)
			rsvpRepo := newFakeRSVPRepo(tt.rsvps...)
			inviteRepo := newFakeInviteRepo(tt.invites...)
			svc := newTestRSVPService(eventRepo, rsvpRepo, inviteRepo, nil)

			rsvp, err := svc.CreateDirectRSVP(context.Background(), tt.userID, tt.event.ID, tt.status, tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rsvp.Status != tt.status {
				t.Errorf("status = %q, want %q", rsvp.Status, tt.status)
			}
			if rsvp.ID == "" {
				t.Error("expected rsvp id to be assigned")
			}
		})
	}
}

func TestCreateDirectRSVP_event_not_found(t *testing.T) {
	svc := newTestRSVPService(newFakeEventRepo(), newFakeRSVPRepo(), newFakeInviteRepo(), nil)
	_, err := svc.CreateDirectRSVP(context.Background(), "u1", "missing", domain.RSVPGoing, "u1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateDirectRSVP_capacity_under_contention(t *testing.T) {
	const capacity = 3
	const contenders = capacity + 5

	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", capacity, false))
	rsvpRepo := newFakeRSVPRepo()
	svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("u%d", i)
			_, errs[i] = svc.CreateDirectRSVP(context.Background(), userID, "e1", domain.RSVPGoing, userID)
		}(i)
	}
	wg.Wait()

	admitted, full := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, domain.ErrEventFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if admitted != capacity {
		t.Errorf("admitted = %d, want %d", admitted, capacity)
	}
	if full != contenders-capacity {
		t.Errorf("rejected = %d, want %d", full, contenders-capacity)
	}
	count, err := rsvpRepo.CountGoingByEvent(context.Background(), "e1")
	if err != nil {
		t.Fatal(err)
	}
	if count != capacity {
		t.Errorf("stored going count = %d, want %d", count, capacity)
	}
}

func TestRespondToInvite_createsRSVPAndSettlesInvite(t *testing.T) {
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, true))
	rsvpRepo := newFakeRSVPRepo()
	inviteRepo := newFakeInviteRepo(&domain.Invite{
		ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1",
		Status: domain.InvitePending, SentAt: time.Now(),
	})
	svc := newTestRSVPService(eventRepo, rsvpRepo, inviteRepo, nil)

	rsvp, err := svc.RespondToInvite(context.Background(), "i1", domain.InviteAccepted, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsvp.UserID != "u1" || rsvp.EventID != "e1" {
		t.Errorf("rsvp bound to %s/%s, want u1/e1", rsvp.UserID, rsvp.EventID)
	}
	if rsvp.Status != domain.RSVPGoing {
		t.Errorf("rsvp status = %q, want going", rsvp.Status)
	}

	inv, err := inviteRepo.GetByID(context.Background(), "i1")
	if err != nil {
		t.Fatal(err)
	}
	if inv.Status != domain.InviteAccepted {
		t.Errorf("invite status = %q, want accepted", inv.Status)
	}
	if inv.RespondedAt == nil {
		t.Error("expected responded_at to be stamped")
	}
}

func TestRespondToInvite_declineWorksOnFullEvent(t *testing.T) {
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 1, false))
	rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "other", EventID: "e1", Status: domain.RSVPGoing})
	inviteRepo := newFakeInviteRepo(&domain.Invite{
		ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1",
		Status: domain.InvitePending, SentAt: time.Now(),
	})
	svc := newTestRSVPService(eventRepo, rsvpRepo, inviteRepo, nil)

	rsvp, err := svc.RespondToInvite(context.Background(), "i1", domain.InviteDeclined, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rsvp.Status != domain.RSVPDeclined {
		t.Errorf("rsvp status = %q, want declined", rsvp.Status)
	}
}

func TestRespondToInvite_acceptRejectedOnFullEvent(t *testing.T) {
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 1, false))
	rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "other", EventID: "e1", Status: domain.RSVPGoing})
	inviteRepo := newFakeInviteRepo(&domain.Invite{
		ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1",
		Status: domain.InvitePending, SentAt: time.Now(),
	})
	svc := newTestRSVPService(eventRepo, rsvpRepo, inviteRepo, nil)

	_, err := svc.RespondToInvite(context.Background(), "i1", domain.InviteAccepted, "u1")
	if !errors.Is(err, domain.ErrEventFull) {
		t.Fatalf("expected ErrEventFull, got %v", err)
	}

	// The invite must remain answerable after a failed admission.
	inv, _ := inviteRepo.GetByID(context.Background(), "i1")
	if inv.Status != domain.InvitePending {
		t.Errorf("invite status = %q, want pending", inv.Status)
	}
}

func TestRespondToInvite_onlyInviteeMayRespond(t *testing.T) {
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, false))
	inviteRepo := newFakeInviteRepo(&domain.Invite{
		ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1",
		Status: domain.InvitePending, SentAt: time.Now(),
	})
	svc := newTestRSVPService(eventRepo, newFakeRSVPRepo(), inviteRepo, nil)

	_, err := svc.RespondToInvite(context.Background(), "i1", domain.InviteAccepted, "intruder")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRespondToInvite_alreadyResponded(t *testing.T) {
	respondedAt := time.Now().Add(-time.Hour)
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, false))
	inviteRepo := newFakeInviteRepo(&domain.Invite{
		ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1",
		Status: domain.InviteAccepted, SentAt: time.Now().Add(-2 * time.Hour), RespondedAt: &respondedAt,
	})
	svc := newTestRSVPService(eventRepo, newFakeRSVPRepo(), inviteRepo, nil)

	_, err := svc.RespondToInvite(context.Background(), "i1", domain.InviteDeclined, "u1")
	if !errors.Is(err, domain.ErrInviteResponded) {
		t.Fatalf("expected ErrInviteResponded, got %v", err)
	}
}

func TestRespondToInvite_expiredInviteIsPersistedAndRejected(t *testing.T) {
	expired := time.Now().Add(-time.Minute)
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, false))
	inviteRepo := newFakeInviteRepo(&domain.Invite{
		ID: "i1", InviterID: "owner", InviteeID: "u1", EventID: "e1",
		Status: domain.InvitePending, SentAt: time.Now().Add(-time.Hour), ExpiresAt: &expired,
	})
	svc := newTestRSVPService(eventRepo, newFakeRSVPRepo(), inviteRepo, nil)

	_, err := svc.RespondToInvite(context.Background(), "i1", domain.InviteAccepted, "u1")
	if !errors.Is(err, domain.ErrInviteExpired) {
		t.Fatalf("expected ErrInviteExpired, got %v", err)
	}
	inv, _ := inviteRepo.GetByID(context.Background(), "i1")
	if inv.Status != domain.InviteExpired {
		t.Errorf("invite status = %q, want expired", inv.Status)
	}
}

func TestUpdateRSVPStatus(t *testing.T) {
	t.Run("transition into going re-checks capacity", func(t *testing.T) {
		eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 1, false))
		rsvpRepo := newFakeRSVPRepo(
			&domain.RSVP{ID: "r1", UserID: "other", EventID: "e1", Status: domain.RSVPGoing},
			&domain.RSVP{ID: "r2", UserID: "u1", EventID: "e1", Status: domain.RSVPMaybe},
		)
		svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

		_, err := svc.UpdateRSVPStatus(context.Background(), "r2", domain.RSVPGoing, "u1")
		if !errors.Is(err, domain.ErrEventFull) {
			t.Fatalf("expected ErrEventFull, got %v", err)
		}
	})

	t.Run("stepping down from going frees the spot", func(t *testing.T) {
		eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 1, false))
		rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPGoing})
		svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

		rsvp, err := svc.UpdateRSVPStatus(context.Background(), "r1", domain.RSVPMaybe, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rsvp.Status != domain.RSVPMaybe {
			t.Errorf("status = %q, want maybe", rsvp.Status)
		}
		if rsvp.UpdatedAt == nil {
			t.Error("expected updated_at to be stamped")
		}
	})

	t.Run("going to going does not re-check capacity", func(t *testing.T) {
		eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 1, false))
		rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPGoing})
		svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

		if _, err := svc.UpdateRSVPStatus(context.Background(), "r1", domain.RSVPGoing, "u1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejected after event start", func(t *testing.T) {
		event := futureEvent("e1", "owner", 10, false)
		event.StartDate = time.Now().Add(-time.Hour)
		eventRepo := newFakeEventRepo(event)
		rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPMaybe})
		svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

		_, err := svc.UpdateRSVPStatus(context.Background(), "r1", domain.RSVPGoing, "u1")
		if !errors.Is(err, domain.ErrEventStarted) {
			t.Fatalf("expected ErrEventStarted, got %v", err)
		}
	})

	t.Run("only owner or admin may update", func(t *testing.T) {
		eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, false))
		rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPMaybe})
		svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

		_, err := svc.UpdateRSVPStatus(context.Background(), "r1", domain.RSVPGoing, "intruder")
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("admin may update another user's rsvp", func(t *testing.T) {
		eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, false))
		rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPMaybe})
		svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), map[string][]string{
			"boss": {domain.RoleAdmin},
		})

		if _, err := svc.UpdateRSVPStatus(context.Background(), "r1", domain.RSVPGoing, "boss"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCancelRSVP_idempotent(t *testing.T) {
	eventRepo := newFakeEventRepo(futureEvent("e1", "owner", 10, false))
	rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPGoing})
	svc := newTestRSVPService(eventRepo, rsvpRepo, newFakeInviteRepo(), nil)

	first, err := svc.CancelRSVP(context.Background(), "r1", "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Status != domain.RSVPDeclined {
		t.Fatalf("status = %q, want declined", first.Status)
	}
	firstUpdated := first.UpdatedAt

	second, err := svc.CancelRSVP(context.Background(), "r1", "u1")
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if second.Status != domain.RSVPDeclined {
		t.Errorf("status after second cancel = %q, want declined", second.Status)
	}
	if second.UpdatedAt != firstUpdated {
		t.Error("second cancel should not rewrite the rsvp")
	}
}

func TestDeleteRSVP_requiresStaffRole(t *testing.T) {
	rsvpRepo := newFakeRSVPRepo(&domain.RSVP{ID: "r1", UserID: "u1", EventID: "e1", Status: domain.RSVPGoing})
	svc := newTestRSVPService(newFakeEventRepo(), rsvpRepo, newFakeInviteRepo(), map[string][]string{
		"mod": {domain.RoleOrganizer},
	})

	// The rsvp owner cannot hard-delete their own record.
	if err := svc.DeleteRSVP(context.Background(), "r1", "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.DeleteRSVP(context.Background(), "r1", "mod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteRSVP(context.Background(), "r1", "mod"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
