package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// SendInviteRequest is the request body for POST /invites.
type SendInviteRequest struct {
	EventID   string     `json:"event_id"`
	InviteeID string     `json:"invitee_id"`
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Validate implements Validator.
func (s SendInviteRequest) Validate() []string {
	var errs []string
	if s.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if _, err := uuid.Parse(s.EventID); err != nil {
		errs = append(errs, "event_id must be a UUID")
	}
	if s.InviteeID == "" {
		errs = append(errs, "invitee_id is required")
	} else if _, err := uuid.Parse(s.InviteeID); err != nil {
		errs = append(errs, "invitee_id must be a UUID")
	}
	if s.ExpiresAt != nil && s.ExpiresAt.Before(time.Now()) {
		errs = append(errs, "expires_at must be in the future")
	}
	return errs
}

// UpdateInviteRequest is the request body for PUT /invites/{inviteID}.
type UpdateInviteRequest struct {
	Message   string     `json:"message"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// InviteSuccessResponse is the success response envelope for single-invite endpoints.
type InviteSuccessResponse struct {
	Data  *domain.Invite    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// InviteListResponse is the paginated payload for GET /events/{eventID}/invites.
type InviteListResponse struct {
	Invites    []*domain.Invite       `json:"invites"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type InviteController struct {
	Logger  *slog.Logger
	Service domain.InviteService
}

func NewInviteController(logger *slog.Logger, svc domain.InviteService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *InviteController) writeInviteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invite not found")
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

// SendInvite godoc
// @Summary Send an event invite
// @Description Invites a user to an event. The authenticated user becomes the inviter. Requires the organizer or admin role. A user can hold at most one invite per event.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendInviteRequest true "Invite data"
// @Success 201 {object} controllers.InviteSuccessResponse "data contains the created invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate invite)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites [post]
func (c *InviteController) SendInvite(w http.ResponseWriter, r *http.Request) {
	var req SendInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invite, err := c.Service.SendInvite(r.Context(), userID, req.InviteeID, req.EventID, req.Message, req.ExpiresAt, userID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, invite)
}

// GetInviteByID godoc
// @Summary Get an invite by ID
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID (UUID)"
// @Success 200 {object} controllers.InviteSuccessResponse "data contains the invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID} [get]
func (c *InviteController) GetInviteByID(w http.ResponseWriter, r *http.Request) {
	inviteID, ok := helpers.PathUUID(w, r, "inviteID")
	if !ok {
		return
	}
	invite, err := c.Service.GetInviteByID(r.Context(), inviteID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// ListInvitesByEvent godoc
// @Summary List invites for an event
// @Description Returns the invites for an event, paginated. Only the event owner or an admin may list.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains invites and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invites [get]
func (c *InviteController) ListInvitesByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	invites, total, err := c.Service.ListInvitesByEvent(r.Context(), eventID, userID, params)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, InviteListResponse{
		Invites:    invites,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// ListMyPendingInvites godoc
// @Summary List the current user's pending invites
// @Description Returns pending invites addressed to the authenticated user. Invites whose expiry has passed are marked expired and excluded.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of invites"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/pending [get]
func (c *InviteController) ListMyPendingInvites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invites, err := c.Service.ListPendingInvites(r.Context(), userID, userID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invites)
}

// UpdateInvite godoc
// @Summary Update an invite
// @Description Updates the invite message and expiry. Only allowed while the invite is still pending. Requires the organizer or admin role.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID (UUID)"
// @Param body body UpdateInviteRequest true "Fields to update"
// @Success 200 {object} controllers.InviteSuccessResponse "data contains the updated invite"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already responded)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID} [put]
func (c *InviteController) UpdateInvite(w http.ResponseWriter, r *http.Request) {
	inviteID, ok := helpers.PathUUID(w, r, "inviteID")
	if !ok {
		return
	}
	var req UpdateInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	invite, err := c.Service.UpdateInviteMessage(r.Context(), inviteID, req.Message, req.ExpiresAt, userID)
	if err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, invite)
}

// DeleteInvite godoc
// @Summary Delete an invite
// @Description Deletes the invite. Accepted invites cannot be deleted. Requires the organizer or admin role.
// @Tags invites
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID (UUID)"
// @Success 204 "invite deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invite accepted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID} [delete]
func (c *InviteController) DeleteInvite(w http.ResponseWriter, r *http.Request) {
	inviteID, ok := helpers.PathUUID(w, r, "inviteID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteInvite(r.Context(), inviteID, userID); err != nil {
		c.writeInviteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
