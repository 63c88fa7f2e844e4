package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventplanner/internal/delivery/http/controllers"
	"eventplanner/internal/delivery/http/middleware"
	"eventplanner/internal/domain"
)

// Controllers bundles the controllers wired into the router.
type Controllers struct {
	Auth     *controllers.AuthController
	User     *controllers.UserController
	Category *controllers.CategoryController
	Event    *controllers.EventController
	Invite   *controllers.InviteController
	RSVP     *controllers.RSVPController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)

	// Users
	mux.HandleFunc("GET /users", auth(c.User.ListUsers))
	mux.HandleFunc("GET /users/me", auth(c.User.GetMe))
	mux.HandleFunc("PATCH /users/me", auth(c.User.UpdateMe))
	mux.HandleFunc("GET /users/{userID}", auth(c.User.GetUserByID))
	mux.HandleFunc("POST /users/{userID}/roles", auth(c.User.AssignRole))
	mux.HandleFunc("GET /users/{userID}/rsvps", auth(c.RSVP.ListRSVPsByUser))

	// Categories
	mux.HandleFunc("POST /categories", auth(c.Category.CreateCategory))
	mux.HandleFunc("GET /categories", auth(c.Category.ListCategories))
	mux.HandleFunc("GET /categories/{categoryID}", auth(c.Category.GetCategoryByID))
	mux.HandleFunc("PUT /categories/{categoryID}", auth(c.Category.UpdateCategory))
	mux.HandleFunc("DELETE /categories/{categoryID}", auth(c.Category.DeleteCategory))

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", auth(c.Event.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEventByID))
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("PATCH /events/{eventID}/status", auth(c.Event.SetEventStatus))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))
	mux.HandleFunc("GET /events/{eventID}/invites", auth(c.Invite.ListInvitesByEvent))
	mux.HandleFunc("POST /events/{eventID}/rsvps", auth(c.RSVP.CreateRSVP))
	mux.HandleFunc("GET /events/{eventID}/rsvps", auth(c.RSVP.ListRSVPsByEvent))

	// Invites
	mux.HandleFunc("POST /invites", auth(c.Invite.SendInvite))
	mux.HandleFunc("GET /invites/pending", auth(c.Invite.ListMyPendingInvites))
	mux.HandleFunc("GET /invites/{inviteID}", auth(c.Invite.GetInviteByID))
	mux.HandleFunc("PUT /invites/{inviteID}", auth(c.Invite.UpdateInvite))
	mux.HandleFunc("DELETE /invites/{inviteID}", auth(c.Invite.DeleteInvite))
	mux.HandleFunc("POST /invites/{inviteID}/respond", auth(c.RSVP.RespondToInvite))

	// RSVPs
	mux.HandleFunc("GET /rsvps/mine", auth(c.RSVP.ListMyRSVPs))
	mux.HandleFunc("GET /rsvps/{rsvpID}", auth(c.RSVP.GetRSVPByID))
	mux.HandleFunc("PATCH /rsvps/{rsvpID}", auth(c.RSVP.UpdateRSVP))
	mux.HandleFunc("POST /rsvps/{rsvpID}/cancel", auth(c.RSVP.CancelRSVP))
	mux.HandleFunc("DELETE /rsvps/{rsvpID}", auth(c.RSVP.DeleteRSVP))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
