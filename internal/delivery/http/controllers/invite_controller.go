package controllers

import (
	"log/slog"
	"net/http"

	"rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"
)

type InviteController struct {
	Logger  *slog.Logger
	Service domain.GuestService
}

func NewInviteController(logger *slog.Logger, svc domain.GuestService) *InviteController {
	return &InviteController{
		Logger:  logger,
		Service: svc,
	}
}

// scrubTokens blanks the capability tokens of everyone but the viewing
// guest. The guest-facing view shows who replied what, but a guest must
// never see another guest's credential.
func scrubTokens(view *domain.InvitationView) {
	scrubGroup := func(g *domain.ReplyGroup) {
		for i, guest := range g.Guests {
			if guest.ID == view.Guest.ID {
				continue
			}
			copied := *guest
			copied.Token = ""
			g.Guests[i] = &copied
		}
	}
	scrubGroup(&view.Summary.Yes)
	scrubGroup(&view.Summary.Maybe)
	scrubGroup(&view.Summary.No)
	scrubGroup(&view.Summary.NoReply)
	if view.Event.Token != "" && !view.IsOrganizer {
		copied := *view.Event
		copied.Token = ""
		view.Event = &copied
	}
}

// InvitationSuccessResponse is the success envelope for GET /invites/{token} (200).
type InvitationSuccessResponse struct {
	Data  *domain.InvitationView `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// Invitation godoc
// @Summary Guest view of an invitation
// @Description Returns the event, the invited guest's own row, the organizer's contact, and the reply summary. Other guests' capability tokens are never included; the event token appears only when the viewer is the organizer.
// @Tags invites
// @Produce json
// @Param token path string true "Guest capability token"
// @Success 200 {object} controllers.InvitationSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{token} [get]
func (c *InviteController) Invitation(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	view, err := c.Service.Invitation(r.Context(), token)
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	scrubTokens(view)
	helpers.WriteJSONSuccess(w, http.StatusOK, view)
}

// ReplyRequest is the request body for POST /invites/{token}/reply.
type ReplyRequest struct {
	Reply    string `json:"reply"`
	Heads    int    `json:"heads"`
	Comments string `json:"comments"`
}

// Validate implements Validator. The reply code must be explicit here;
// withdrawing a reply is a separate endpoint, not an empty submission.
func (c ReplyRequest) Validate() []string {
	if !domain.Reply(c.Reply).Valid() {
		return []string{"reply must be one of Y, M, N"}
	}
	return nil
}

// ReplySuccessResponse is the success envelope for reply and unreply (200).
type ReplySuccessResponse struct {
	Data  *domain.Guest     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SubmitReply godoc
// @Summary Submit or change a reply
// @Description Records the guest's reply. Headcount is normalized: 0 for a No, clamped to 1..50 otherwise. The reply, headcount, and comments always move together; submitting the same payload twice is harmless.
// @Tags invites
// @Accept json
// @Produce json
// @Param token path string true "Guest capability token"
// @Param reply body ReplyRequest true "Reply data"
// @Success 200 {object} controllers.ReplySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{token}/reply [post]
func (c *InviteController) SubmitReply(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	var req ReplyRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	guest, err := c.Service.SubmitReply(r.Context(), token, domain.ReplySubmission{
		Reply:    domain.Reply(req.Reply),
		Heads:    req.Heads,
		Comments: req.Comments,
	})
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// Unreply godoc
// @Summary Withdraw a reply
// @Description Clears the guest's reply, headcount, and comments in one update. Distinct from replying No: the guest moves back to the no-reply tally.
// @Tags invites
// @Produce json
// @Param token path string true "Guest capability token"
// @Success 200 {object} controllers.ReplySuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /invites/{token}/unreply [post]
func (c *InviteController) Unreply(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing token")
		return
	}
	guest, err := c.Service.Unreply(r.Context(), token)
	if err != nil {
		respondServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}
