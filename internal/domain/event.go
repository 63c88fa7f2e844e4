package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s EventStatus) bool {
	switch s {
	case EventUpcoming, EventOngoing, EventCompleted, EventCancelled:
		return true
	}
	return false
}

// Event represents a planned event with a bounded number of participants.
// swagger:model Event
type Event struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Location        string      `json:"location"`
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	OwnerID         string      `json:"owner_id"`
	CategoryID      string      `json:"category_id"`
	MaxParticipants int         `json:"max_participants"`
	IsPrivate       bool        `json:"is_private"`
	Status          EventStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsUpcomingAndOpen reports whether the event still accepts responses:
// status upcoming and start date in the future.
func (e *Event) IsUpcomingAndOpen(now time.Time) bool {
	return e.Status == EventUpcoming && e.StartDate.After(now)
}

// HasStarted reports whether the event's start date has passed.
func (e *Event) HasStarted(now time.Time) bool {
	return !e.StartDate.After(now)
}

// RemainingSpots returns max_participants minus the current going count.
// A negative result means the event is over capacity; callers must reject
// further attendance in that case.
func (e *Event) RemainingSpots(goingCount int) int {
	return e.MaxParticipants - goingCount
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	ListByOwnerID(ctx context.Context, ownerID string) ([]*Event, error)
	ListByCategoryID(ctx context.Context, categoryID string) ([]*Event, error)
	ListByStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	SetStatus(ctx context.Context, id string, status EventStatus) error
	Delete(ctx context.Context, id string) error
}

// EventService defines event catalog operations. Mutations take the acting
// user so ownership can be enforced through the authorization gate.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, actingUserID string) error
	GetEventByID(ctx context.Context, eventID string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListEventsByOwner(ctx context.Context, ownerID string) ([]*Event, error)
	ListEventsByCategory(ctx context.Context, categoryID string) ([]*Event, error)
	ListEventsByStatus(ctx context.Context, status EventStatus) ([]*Event, error)
	UpdateEvent(ctx context.Context, event *Event, actingUserID string) (*Event, error)
	SetEventStatus(ctx context.Context, eventID string, status EventStatus, actingUserID string) error
	DeleteEvent(ctx context.Context, eventID, actingUserID string) error
}
