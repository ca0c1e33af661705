package controllers

import (
	"log/slog"
	"net/http"

	"rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"
	"rsvphub/internal/services"
)

// InviteGuestRequest is the request body for POST /events/{token}/guests.
type InviteGuestRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	SendEmail   bool   `json:"send_email"`
	Message     string `json:"message"`
	SaveMessage bool   `json:"save_message"`
}

// Validate implements Validator.
func (c InviteGuestRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegex.MatchString(c.Email) {
		errs = append(errs, "email is not a valid email address")
	}
	return errs
}

// InviteGuestResponse is the data payload for POST /events/{token}/guests
// (201). Warning is set when the invitation email was requested but could
// not be dispatched; the guest row and its invite URL remain valid.
type InviteGuestResponse struct {
	Guest     *domain.Guest `json:"guest"`
	InviteURL string        `json:"invite_url"`
	Warning   string        `json:"warning,omitempty"`
}

// InviteGuestSuccessResponse is the success envelope for POST /events/{token}/guests (201).
type InviteGuestSuccessResponse struct {
	Data  *InviteGuestResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type GuestController struct {
	Logger  *slog.Logger
	Service domain.GuestService
	Links   services.Links
}

func NewGuestController(logger *slog.Logger, svc domain.GuestService, links services.Links) *GuestController {
	return &GuestController{
		Logger:  logger,
		Service: svc,
		Links:   links,
	}
}

// InviteGuest godoc
// @Summary Invite a guest
// @Description Creates a guest row with its own capability token. Optionally sends the invitation email immediately; a dispatch failure sets data.warning without losing the guest.
// @Tags guests
// @Accept json
// @Produce json
// @Param token path string true "Event capability token"
// @Param guest body InviteGuestRequest true "Guest data"
// @Success 201 {object} controllers.InviteGuestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{token}/guests [post]
func (c *GuestController) InviteGuest(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req InviteGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	invited, err := c.Service.Invite(r.Context(), token, domain.InviteGuestInput{
		Name:        req.Name,
		Email:       req.Email,
		SendEmail:   req.SendEmail,
		Message:     req.Message,
		SaveMessage: req.SaveMessage,
	})
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	resp := &InviteGuestResponse{
		Guest:     invited.Guest,
		InviteURL: c.Links.InviteURL(invited.Guest.Token),
	}
	if invited.DispatchErr != nil {
		resp.Warning = invited.DispatchErr.Error()
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, resp)
}

// UpdateGuestRequest is the request body for PATCH /events/{token}/guests/{guestID}.
type UpdateGuestRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Validate implements Validator.
func (c UpdateGuestRequest) Validate() []string {
	var errs []string
	if c.Name != nil && *c.Name == "" {
		errs = append(errs, "name cannot be empty")
	}
	if c.Email != nil && !emailRegex.MatchString(*c.Email) {
		errs = append(errs, "email is not a valid email address")
	}
	return errs
}

// UpdateGuestSuccessResponse is the success envelope for PATCH /events/{token}/guests/{guestID} (200).
type UpdateGuestSuccessResponse struct {
	Data  *domain.Guest     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateGuest godoc
// @Summary Update a guest's contact details
// @Description Organizer edit of a guest's name and email. Changing the email resets the guest's emails_sent counter. The organizer's own email cannot be changed here.
// @Tags guests
// @Accept json
// @Produce json
// @Param token path string true "Event capability token"
// @Param guestID path string true "Guest ID"
// @Param guest body UpdateGuestRequest true "Fields to update"
// @Success 200 {object} controllers.UpdateGuestSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{token}/guests/{guestID} [patch]
func (c *GuestController) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	guestID := r.PathValue("guestID")
	if guestID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing guestID")
		return
	}
	var req UpdateGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	guest, err := c.Service.UpdateContact(r.Context(), token, guestID, domain.ContactUpdate{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// RemoveGuestsRequest is the request body for POST /events/{token}/guests/remove.
type RemoveGuestsRequest struct {
	GuestIDs []string `json:"guest_ids"`
}

// Validate implements Validator.
func (c RemoveGuestsRequest) Validate() []string {
	if len(c.GuestIDs) == 0 {
		return []string{"guest_ids is required"}
	}
	return nil
}

// RemoveGuestsSuccessResponse is the success envelope for POST /events/{token}/guests/remove (200).
type RemoveGuestsSuccessResponse struct {
	Data  *domain.RemoveResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RemoveGuests godoc
// @Summary Remove guests
// @Description Best-effort bulk removal. The organizer is never removed; per-row failures are collected in data.failures while the remaining rows are still processed.
// @Tags guests
// @Accept json
// @Produce json
// @Param token path string true "Event capability token"
// @Param body body RemoveGuestsRequest true "Guest ids to remove"
// @Success 200 {object} controllers.RemoveGuestsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{token}/guests/remove [post]
func (c *GuestController) RemoveGuests(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req RemoveGuestsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Remove(r.Context(), token, req.GuestIDs)
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// BroadcastRequest is the request body for POST /events/{token}/broadcast.
// Recipients selects the audience; guest_ids is honored only with
// recipients "selected".
type BroadcastRequest struct {
	Recipients  string   `json:"recipients"`
	Message     string   `json:"message"`
	SaveMessage bool     `json:"save_message"`
	GuestIDs    []string `json:"guest_ids"`
}

// Validate implements Validator.
func (c BroadcastRequest) Validate() []string {
	var errs []string
	if !domain.RecipientFilter(c.Recipients).Valid() {
		errs = append(errs, "recipients must be one of all, yes, yesmaybe, replied, unreplied, unemailed, selected")
	}
	if domain.RecipientFilter(c.Recipients) == domain.RecipientsSelected && len(c.GuestIDs) == 0 {
		errs = append(errs, "guest_ids is required when recipients is selected")
	}
	return errs
}

// BroadcastSuccessResponse is the success envelope for POST /events/{token}/broadcast (200).
type BroadcastSuccessResponse struct {
	Data  *domain.BroadcastResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// Broadcast godoc
// @Summary Email guests
// @Description Sends the message to every guest matching the recipient filter, one email per guest, best effort. Each successful send increments that guest's emails_sent; failures are collected in data.failures.
// @Tags guests
// @Accept json
// @Produce json
// @Param token path string true "Event capability token"
// @Param body body BroadcastRequest true "Audience and message"
// @Success 200 {object} controllers.BroadcastSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{token}/broadcast [post]
func (c *GuestController) Broadcast(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req BroadcastRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	result, err := c.Service.Broadcast(r.Context(), token, domain.BroadcastInput{
		Recipients:  domain.RecipientFilter(req.Recipients),
		Message:     req.Message,
		SaveMessage: req.SaveMessage,
		GuestIDs:    req.GuestIDs,
	})
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
