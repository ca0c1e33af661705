package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"
	"rsvphub/internal/services"
)

// CreateEventRequest is the request body for POST /events. The organizer's
// own reply is optional; when present it goes through the same
// normalization as any guest reply.
type CreateEventRequest struct {
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	Time           time.Time `json:"time"`
	OrganizerName  string    `json:"organizer_name"`
	OrganizerEmail string    `json:"organizer_email"`
	Reply          string    `json:"reply"`
	Heads          int       `json:"heads"`
	Comments       string    `json:"comments"`
}

// Validate implements Validator. Returns error messages for required and
// format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Time.IsZero() {
		errs = append(errs, "time is required")
	}
	if c.OrganizerName == "" {
		errs = append(errs, "organizer_name is required")
	}
	if c.OrganizerEmail == "" {
		errs = append(errs, "organizer_email is required")
	} else if !emailRegex.MatchString(c.OrganizerEmail) {
		errs = append(errs, "organizer_email is not a valid email address")
	}
	if r := domain.Reply(c.Reply); r != domain.ReplyNone && !r.Valid() {
		errs = append(errs, "reply must be one of Y, M, N or empty")
	}
	return errs
}

// CreateEventResponse is the data payload for POST /events (201). The
// manage URL embeds the event token; Warning is set when the manage-link
// email could not be dispatched (the event itself is committed).
type CreateEventResponse struct {
	Event     *domain.Event `json:"event"`
	Organizer *domain.Guest `json:"organizer"`
	ManageURL string        `json:"manage_url"`
	InviteURL string        `json:"invite_url"`
	Warning   string        `json:"warning,omitempty"`
}

// CreateEventSuccessResponse is the success envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  *CreateEventResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
	Links   services.Links
}

func NewEventController(logger *slog.Logger, svc domain.EventService, links services.Links) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
		Links:   links,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create an event together with its organizer guest. The response carries the organizer's manage URL and personal invite URL; both embed capability tokens and are the only credentials for the event. A manage-link email is attempted after the event is committed; if it fails, data.warning is set and the event is still usable.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event and organizer data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event, organizer, and URLs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	created, err := c.Service.CreateEvent(r.Context(), domain.CreateEventInput{
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		Time:           req.Time,
		OrganizerName:  req.OrganizerName,
		OrganizerEmail: req.OrganizerEmail,
		Reply: domain.ReplySubmission{
			Reply:    domain.Reply(req.Reply),
			Heads:    req.Heads,
			Comments: req.Comments,
		},
	})
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	resp := &CreateEventResponse{
		Event:     created.Event,
		Organizer: created.Organizer,
		ManageURL: c.Links.ManageURL(created.Event.Token),
		InviteURL: c.Links.InviteURL(created.Organizer.Token),
	}
	if created.DispatchErr != nil {
		resp.Warning = created.DispatchErr.Error()
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, resp)
}

// ManageSuccessResponse is the success envelope for GET /events/{token} (200).
type ManageSuccessResponse struct {
	Data  *domain.ManageView `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// Manage godoc
// @Summary Organizer view of an event
// @Description Returns the event, the organizer guest, and a reply summary grouped by category. Guest entries include their capability tokens; this view is only reachable with the event token.
// @Tags events
// @Produce json
// @Param token path string true "Event capability token"
// @Success 200 {object} controllers.ManageSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{token} [get]
func (c *EventController) Manage(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	view, err := c.Service.Manage(r.Context(), token)
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// UpdateEventRequest is the request body for PATCH /events/{token}. All
// fields are optional; omitted fields are left untouched.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Time        *time.Time `json:"time"`
}

// Validate implements Validator.
func (c UpdateEventRequest) Validate() []string {
	var errs []string
	if c.Name != nil && *c.Name == "" {
		errs = append(errs, "name cannot be empty")
	}
	if c.Time != nil && c.Time.IsZero() {
		errs = append(errs, "time cannot be zero")
	}
	return errs
}

// UpdateEventSuccessResponse is the success envelope for PATCH /events/{token} (200).
type UpdateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partial update of name, description, location, and time. The token, id, and organizer reference are immutable.
// @Tags events
// @Accept json
// @Produce json
// @Param token path string true "Event capability token"
// @Param event body UpdateEventRequest true "Fields to update"
// @Success 200 {object} controllers.UpdateEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{token} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), token, domain.EventUpdate{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Time:        req.Time,
	})
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
