package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventplanner/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	categoryRepo   domain.CategoryRepository
	gate           domain.AuthorizationGate
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	gate domain.AuthorizationGate,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		categoryRepo:   categoryRepo,
		gate:           gate,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.gate.Authorize(ctx, domain.OpEventCreate, actingUserID, ""); err != nil {
		return err
	}
	if err := validateEvent(event, time.Now()); err != nil {
		return err
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: category does not exist", domain.ErrInvalidInput)
		}
		return fmt.Errorf("get category: %w", err)
	}

	if !domain.ValidEventStatus(event.Status) {
		event.Status = domain.EventUpcoming
	}
	event.OwnerID = actingUserID
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func validateEvent(e *domain.Event, now time.Time) error {
	if strings.TrimSpace(e.Title) == "" || strings.TrimSpace(e.Location) == "" {
		return fmt.Errorf("%w: title and location are required", domain.ErrInvalidInput)
	}
	if e.StartDate.Before(now) {
		return fmt.Errorf("%w: start date cannot be in the past", domain.ErrInvalidInput)
	}
	if !e.StartDate.Before(e.EndDate) {
		return fmt.Errorf("%w: end date must be after start date", domain.ErrInvalidInput)
	}
	if e.MaxParticipants <= 0 {
		return fmt.Errorf("%w: max participants must be greater than 0", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) ListEventsByOwner(ctx context.Context, ownerID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, err := s.eventRepo.ListByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events by owner: %w", err)
	}
	return events, nil
}

func (s *eventService) ListEventsByCategory(ctx context.Context, categoryID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	events, err := s.eventRepo.ListByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list events by category: %w", err)
	}
	return events, nil
}

func (s *eventService) ListEventsByStatus(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidEventStatus(status) {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, status)
	}
	events, err := s.eventRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list events by status: %w", err)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event, actingUserID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.eventRepo.GetByID(ctx, event.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpEventManage, actingUserID, existing.OwnerID); err != nil {
		return nil, err
	}
	if err := validateEvent(event, time.Now()); err != nil {
		return nil, err
	}
	if _, err := s.categoryRepo.GetByID(ctx, event.CategoryID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: category does not exist", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	if !domain.ValidEventStatus(event.Status) {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, event.Status)
	}

	event.OwnerID = existing.OwnerID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) SetEventStatus(ctx context.Context, eventID string, status domain.EventStatus, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !domain.ValidEventStatus(status) {
		return fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidInput, status)
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpEventManage, actingUserID, event.OwnerID); err != nil {
		return err
	}
	if err := s.eventRepo.SetStatus(ctx, eventID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set event status: %w", err)
	}
	return nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, actingUserID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.gate.Authorize(ctx, domain.OpEventManage, actingUserID, event.OwnerID); err != nil {
		return err
	}
	// Completed events stay on record.
	if event.Status == domain.EventCompleted {
		return domain.ErrEventCompleted
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
