package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"rsvphub/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// Every route except event creation is addressed by a capability token in
// the path; possession of the token is the only authorization.
func NewRouter(eventController *controllers.EventController,
	guestController *controllers.GuestController,
	inviteController *controllers.InviteController,
) *http.ServeMux {
	mux := http.NewServeMux()

	// Organizer routes (event token)
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events/{token}", eventController.Manage)
	mux.HandleFunc("PATCH /events/{token}", eventController.UpdateEvent)
	mux.HandleFunc("POST /events/{token}/guests", guestController.InviteGuest)
	mux.HandleFunc("PATCH /events/{token}/guests/{guestID}", guestController.UpdateGuest)
	mux.HandleFunc("POST /events/{token}/guests/remove", guestController.RemoveGuests)
	mux.HandleFunc("POST /events/{token}/broadcast", guestController.Broadcast)

	// Guest routes (guest token)
	mux.HandleFunc("GET /invites/{token}", inviteController.Invitation)
	mux.HandleFunc("POST /invites/{token}/reply", inviteController.SubmitReply)
	mux.HandleFunc("POST /invites/{token}/unreply", inviteController.Unreply)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
