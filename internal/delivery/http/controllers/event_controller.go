package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	CategoryID      string    `json:"category_id"`
	MaxParticipants int       `json:"max_participants"`
	IsPrivate       bool      `json:"is_private"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(c.Location) == "" {
		errs = append(errs, "location is required")
	}
	if c.StartDate.IsZero() {
		errs = append(errs, "start_date is required")
	}
	if c.EndDate.IsZero() {
		errs = append(errs, "end_date is required")
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.StartDate.Before(c.EndDate) {
		errs = append(errs, "start_date must be before end_date")
	}
	if c.CategoryID == "" {
		errs = append(errs, "category_id is required")
	}
	if c.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be greater than zero")
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /events/{eventID}. All fields
// optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CategoryID      *string    `json:"category_id"`
	MaxParticipants *int       `json:"max_participants"`
	IsPrivate       *bool      `json:"is_private"`
}

// Validate implements Validator. Field-level rules only; cross-field rules run
// in the service against the merged event.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title must not be empty")
	}
	if u.Location != nil && strings.TrimSpace(*u.Location) == "" {
		errs = append(errs, "location must not be empty")
	}
	if u.MaxParticipants != nil && *u.MaxParticipants <= 0 {
		errs = append(errs, "max_participants must be greater than zero")
	}
	return errs
}

// SetEventStatusRequest is the request body for PATCH /events/{eventID}/status.
type SetEventStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (s SetEventStatusRequest) Validate() []string {
	if !domain.ValidEventStatus(domain.EventStatus(s.Status)) {
		return []string{"status must be one of upcoming, ongoing, completed, cancelled"}
	}
	return nil
}

// EventSuccessResponse is the success response envelope for single-event endpoints.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success response envelope for event list endpoints.
type EventListSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeEventError maps service errors common to event endpoints.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a new event. The authenticated user becomes the event owner. Requires the organizer or admin role.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event := &domain.Event{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		Location:        strings.TrimSpace(req.Location),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		CategoryID:      req.CategoryID,
		MaxParticipants: req.MaxParticipants,
		IsPrivate:       req.IsPrivate,
	}
	if err := c.Service.CreateEvent(r.Context(), event, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events
// @Description Lists events, optionally filtered by owner_id, category_id, or status query parameters. Filters are mutually exclusive; the first present wins in that order.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param owner_id query string false "Filter by owner"
// @Param category_id query string false "Filter by category"
// @Param status query string false "Filter by status (upcoming, ongoing, completed, cancelled)"
// @Success 200 {object} controllers.EventListSuccessResponse "data is an array of events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		events []*domain.Event
		err    error
	)
	switch {
	case q.Get("owner_id") != "":
		events, err = c.Service.ListEventsByOwner(r.Context(), q.Get("owner_id"))
	case q.Get("category_id") != "":
		events, err = c.Service.ListEventsByCategory(r.Context(), q.Get("category_id"))
	case q.Get("status") != "":
		status := domain.EventStatus(q.Get("status"))
		if !domain.ValidEventStatus(status) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status filter")
			return
		}
		events, err = c.Service.ListEventsByStatus(r.Context(), status)
	default:
		events, err = c.Service.ListEvents(r.Context())
	}
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Updates event fields. Only the event owner or an admin can update. Optional fields omitted from the body are unchanged.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	existing, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	if req.Title != nil {
		existing.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Location != nil {
		existing.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		existing.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		existing.EndDate = *req.EndDate
	}
	if req.CategoryID != nil {
		existing.CategoryID = *req.CategoryID
	}
	if req.MaxParticipants != nil {
		existing.MaxParticipants = *req.MaxParticipants
	}
	if req.IsPrivate != nil {
		existing.IsPrivate = *req.IsPrivate
	}

	updated, err := c.Service.UpdateEvent(r.Context(), existing, userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, updated)
}

// SetEventStatus godoc
// @Summary Set event status
// @Description Transitions the event to the given status. Only the event owner or an admin may do this.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SetEventStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the event id and status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/status [patch]
func (c *EventController) SetEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req SetEventStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.SetEventStatus(r.Context(), eventID, domain.EventStatus(req.Status), userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"id": eventID, "status": req.Status})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event. Only the event owner or an admin may delete, and completed events cannot be deleted.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "event deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event completed)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
