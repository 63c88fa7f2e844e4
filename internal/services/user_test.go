package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventplanner/internal/domain"
)

func newTestUserService(userRepo *fakeUserRepo, rolesByUser map[string][]string) domain.UserService {
	return NewUserService(userRepo, &fakeRoleRepo{rolesByUser: rolesByUser}, newTestGate(rolesByUser), time.Second)
}

var adminRoles = map[string][]string{
	"admin": {domain.RoleAdmin},
}

func TestUserList(t *testing.T) {
	userRepo := newFakeUserRepo(
		&domain.User{ID: "u1", Email: "a@example.com"},
		&domain.User{ID: "u2", Email: "b@example.com"},
	)
	svc := newTestUserService(userRepo, adminRoles)

	if _, err := svc.List(context.Background(), "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for attendee, got %v", err)
	}

	users, err := svc.List(context.Background(), "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}
}

func TestUserUpdate(t *testing.T) {
	tests := []struct {
		name     string
		user     *domain.User
		actingID string
		wantErr  error
	}{
		{
			name:     "user updates own profile",
			user:     &domain.User{ID: "u1", Email: "  New@Example.COM ", Name: " Alice "},
			actingID: "u1",
		},
		{
			name:     "admin updates another profile",
			user:     &domain.User{ID: "u1", Email: "new@example.com", Name: "Alice"},
			actingID: "admin",
		},
		{
			name:     "stranger forbidden",
			user:     &domain.User{ID: "u1", Email: "new@example.com"},
			actingID: "u2",
			wantErr:  domain.ErrForbidden,
		},
		{
			name:     "malformed email rejected",
			user:     &domain.User{ID: "u1", Email: "not-an-email"},
			actingID: "u1",
			wantErr:  domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := newFakeUserRepo(&domain.User{ID: "u1", Email: "old@example.com", Name: "Alice"})
			svc := newTestUserService(userRepo, adminRoles)

			err := svc.Update(context.Background(), tt.user, tt.actingID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, _ := userRepo.GetByID(context.Background(), "u1")
			if got.Email != "new@example.com" {
				t.Errorf("email = %q, want normalized", got.Email)
			}
		})
	}
}

func TestAssignRole(t *testing.T) {
	userRepo := newFakeUserRepo(&domain.User{ID: "u1", Email: "a@example.com"})
	svc := newTestUserService(userRepo, adminRoles)

	if err := svc.AssignRole(context.Background(), "u1", domain.RoleOrganizer, "u1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if err := svc.AssignRole(context.Background(), "ghost", domain.RoleOrganizer, "admin"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := svc.AssignRole(context.Background(), "u1", domain.RoleOrganizer, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
