package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	gate           domain.AuthorizationGate
	contextTimeout time.Duration
}

// NewUserService creates a UserService for profile and directory operations.
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, gate domain.AuthorizationGate, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		gate:           gate,
		contextTimeout: timeout,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, actingUserID string) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// The directory is staff-only; owner match is impossible with no resource.
	if err := s.gate.Authorize(ctx, domain.OpUserRead, actingUserID, ""); err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, user *domain.User, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpUserManage, actingUserID, user.ID); err != nil {
		return err
	}
	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email != "" && !emailRegexp.MatchString(user.Email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *userService) AssignRole(ctx context.Context, userID, roleCode, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpRoleAssign, actingUserID, ""); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	roleRecord, err := s.roleRepo.GetByCode(ctx, strings.TrimSpace(strings.ToLower(roleCode)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, roleCode)
		}
		return fmt.Errorf("get role: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, userID, roleRecord.ID); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}
