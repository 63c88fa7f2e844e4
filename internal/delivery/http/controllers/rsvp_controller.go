package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventplanner/internal/delivery/http/helpers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// CreateRSVPRequest is the request body for POST /events/{eventID}/rsvps.
type CreateRSVPRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (c CreateRSVPRequest) Validate() []string {
	if !domain.ValidRSVPStatus(domain.RSVPStatus(c.Status)) {
		return []string{"status must be one of pending, going, maybe, declined, accepted"}
	}
	return nil
}

// RespondToInviteRequest is the request body for POST /invites/{inviteID}/respond.
type RespondToInviteRequest struct {
	Decision string `json:"decision"`
}

// Validate implements Validator.
func (r RespondToInviteRequest) Validate() []string {
	if !domain.ValidInviteDecision(domain.InviteStatus(r.Decision)) {
		return []string{"decision must be one of accepted, declined, maybe, going"}
	}
	return nil
}

// UpdateRSVPRequest is the request body for PATCH /rsvps/{rsvpID}.
type UpdateRSVPRequest struct {
	Status string `json:"status"`
}

// Validate implements Validator.
func (u UpdateRSVPRequest) Validate() []string {
	if !domain.ValidRSVPStatus(domain.RSVPStatus(u.Status)) {
		return []string{"status must be one of pending, going, maybe, declined, accepted"}
	}
	return nil
}

// RSVPSuccessResponse is the success response envelope for single-RSVP endpoints.
type RSVPSuccessResponse struct {
	Data  *domain.RSVP      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RSVPListSuccessResponse is the success response envelope for RSVP list endpoints.
type RSVPListSuccessResponse struct {
	Data  []*domain.RSVP    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

func (c *RSVPController) writeRSVPError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "not found")
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

// CreateRSVP godoc
// @Summary RSVP to an event
// @Description Creates an RSVP for the authenticated user on the event. Private events require an invite. Statuses that consume a spot (going, accepted) are admitted against capacity.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body CreateRSVPRequest true "RSVP status"
// @Success 201 {object} controllers.RSVPSuccessResponse "data contains the created RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (duplicate, full, not open, or invite required)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RSVPController) CreateRSVP(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req CreateRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.CreateDirectRSVP(r.Context(), userID, eventID, domain.RSVPStatus(req.Status), userID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// RespondToInvite godoc
// @Summary Respond to an invite
// @Description Settles the invite with the given decision and creates the matching RSVP in one step. Only the invitee may respond, once, and before the invite expires.
// @Tags invites
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param inviteID path string true "Invite ID (UUID)"
// @Param body body RespondToInviteRequest true "Decision"
// @Success 201 {object} controllers.RSVPSuccessResponse "data contains the created RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not invitee)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (responded, expired, full, or not open)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{inviteID}/respond [post]
func (c *RSVPController) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	inviteID, ok := helpers.PathUUID(w, r, "inviteID")
	if !ok {
		return
	}
	var req RespondToInviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.RespondToInvite(r.Context(), inviteID, domain.InviteStatus(req.Decision), userID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// GetRSVPByID godoc
// @Summary Get an RSVP by ID
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Success 200 {object} controllers.RSVPSuccessResponse "data contains the RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID} [get]
func (c *RSVPController) GetRSVPByID(w http.ResponseWriter, r *http.Request) {
	rsvpID, ok := helpers.PathUUID(w, r, "rsvpID")
	if !ok {
		return
	}
	rsvp, err := c.Service.GetRSVPByID(r.Context(), rsvpID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// ListRSVPsByEvent godoc
// @Summary List RSVPs for an event
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.RSVPListSuccessResponse "data is an array of RSVPs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [get]
func (c *RSVPController) ListRSVPsByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := helpers.PathUUID(w, r, "eventID")
	if !ok {
		return
	}
	rsvps, err := c.Service.ListRSVPsByEvent(r.Context(), eventID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// ListMyRSVPs godoc
// @Summary List the current user's RSVPs
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.RSVPListSuccessResponse "data is an array of RSVPs"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/mine [get]
func (c *RSVPController) ListMyRSVPs(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.ListRSVPsByUser(r.Context(), userID, userID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// ListRSVPsByUser godoc
// @Summary List a user's RSVPs
// @Description Returns the RSVPs for the given user. Allowed for the user themselves, admins, and organizers.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.RSVPListSuccessResponse "data is an array of RSVPs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /users/{userID}/rsvps [get]
func (c *RSVPController) ListRSVPsByUser(w http.ResponseWriter, r *http.Request) {
	targetID, ok := helpers.PathUUID(w, r, "userID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.ListRSVPsByUser(r.Context(), targetID, userID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// UpdateRSVP godoc
// @Summary Update an RSVP status
// @Description Changes the RSVP status. Transitions into a spot-consuming status are re-admitted against capacity. Only the RSVP owner or an admin may update, and not after the event has started.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Param body body UpdateRSVPRequest true "New status"
// @Success 200 {object} controllers.RSVPSuccessResponse "data contains the updated RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (full or event started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID} [patch]
func (c *RSVPController) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	rsvpID, ok := helpers.PathUUID(w, r, "rsvpID")
	if !ok {
		return
	}
	var req UpdateRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.UpdateRSVPStatus(r.Context(), rsvpID, domain.RSVPStatus(req.Status), userID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// CancelRSVP godoc
// @Summary Cancel an RSVP
// @Description Sets the RSVP to declined. Safe to call repeatedly. Only the RSVP owner or an admin may cancel.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Success 200 {object} controllers.RSVPSuccessResponse "data contains the declined RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID}/cancel [post]
func (c *RSVPController) CancelRSVP(w http.ResponseWriter, r *http.Request) {
	rsvpID, ok := helpers.PathUUID(w, r, "rsvpID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.CancelRSVP(r.Context(), rsvpID, userID)
	if err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// DeleteRSVP godoc
// @Summary Delete an RSVP
// @Description Removes the RSVP record entirely. Requires the admin or organizer role.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID (UUID)"
// @Success 204 "RSVP deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID} [delete]
func (c *RSVPController) DeleteRSVP(w http.ResponseWriter, r *http.Request) {
	rsvpID, ok := helpers.PathUUID(w, r, "rsvpID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteRSVP(r.Context(), rsvpID, userID); err != nil {
		c.writeRSVPError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
