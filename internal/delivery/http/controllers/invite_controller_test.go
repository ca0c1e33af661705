package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rsvphub/internal/delivery/http/helpers"
	"rsvphub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type mockGuestService struct {
	view     *domain.InvitationView
	guest    *domain.Guest
	invited  *domain.GuestInvited
	remove   *domain.RemoveResult
	cast     *domain.BroadcastResult
	err      error
	lastSub  domain.ReplySubmission
	lastCast domain.BroadcastInput
}

func (m *mockGuestService) Invite(ctx context.Context, eventToken string, in domain.InviteGuestInput) (*domain.GuestInvited, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.invited, nil
}

func (m *mockGuestService) UpdateContact(ctx context.Context, eventToken, guestID string, upd domain.ContactUpdate) (*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.guest, nil
}

func (m *mockGuestService) Remove(ctx context.Context, eventToken string, guestIDs []string) (*domain.RemoveResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.remove, nil
}

func (m *mockGuestService) Broadcast(ctx context.Context, eventToken string, in domain.BroadcastInput) (*domain.BroadcastResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastCast = in
	return m.cast, nil
}

func (m *mockGuestService) Invitation(ctx context.Context, guestToken string) (*domain.InvitationView, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.view, nil
}

func (m *mockGuestService) SubmitReply(ctx context.Context, guestToken string, sub domain.ReplySubmission) (*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastSub = sub
	return m.guest, nil
}

func (m *mockGuestService) Unreply(ctx context.Context, guestToken string) (*domain.Guest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.guest, nil
}

func invitationView(isOrganizer bool) *domain.InvitationView {
	me := &domain.Guest{ID: "g-1", Token: "my-token", Name: "Pat", Reply: domain.ReplyYes, Heads: 2}
	other := &domain.Guest{ID: "g-2", Token: "other-token", Name: "Quinn", Reply: domain.ReplyYes, Heads: 1}
	return &domain.InvitationView{
		Event:         &domain.Event{ID: "ev-1", Token: "event-token", Name: "Picnic", OrganizerID: "g-9"},
		Guest:         me,
		OrganizerName: "Olivia",
		IsOrganizer:   isOrganizer,
		Summary: &domain.ReplySummary{
			Yes:     domain.ReplyGroup{Count: 3, Guests: []*domain.Guest{me, other}},
			Maybe:   domain.ReplyGroup{Guests: []*domain.Guest{}},
			No:      domain.ReplyGroup{Guests: []*domain.Guest{}},
			NoReply: domain.ReplyGroup{Guests: []*domain.Guest{}},
		},
	}
}

func TestInviteController_Invitation_ScrubsOtherTokens(t *testing.T) {
	svc := &mockGuestService{view: invitationView(false)}
	ctrl := NewInviteController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/invites/my-token", nil)
	req.SetPathValue("token", "my-token")
	w := httptest.NewRecorder()
	ctrl.Invitation(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp InvitationSuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	view := resp.Data
	if view.Guest.Token != "my-token" {
		t.Fatalf("expected own token to survive, got %q", view.Guest.Token)
	}
	for _, g := range view.Summary.Yes.Guests {
		if g.ID != view.Guest.ID && g.Token != "" {
			t.Fatalf("expected other guest's token scrubbed, got %q", g.Token)
		}
	}
	if view.Event.Token != "" {
		t.Fatalf("expected event token hidden from a plain guest, got %q", view.Event.Token)
	}
}

func TestInviteController_Invitation_OrganizerSeesEventToken(t *testing.T) {
	svc := &mockGuestService{view: invitationView(true)}
	ctrl := NewInviteController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/invites/my-token", nil)
	req.SetPathValue("token", "my-token")
	w := httptest.NewRecorder()
	ctrl.Invitation(w, req)

	var resp InvitationSuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Event.Token != "event-token" {
		t.Fatalf("expected organizer to keep the event token, got %q", resp.Data.Event.Token)
	}
}

func TestInviteController_Invitation_NotFound(t *testing.T) {
	svc := &mockGuestService{err: domain.ErrNotFound}
	ctrl := NewInviteController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/invites/bogus", nil)
	req.SetPathValue("token", "bogus")
	w := httptest.NewRecorder()
	ctrl.Invitation(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	var resp helpers.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != helpers.ErrCodeNotFound {
		t.Fatalf("expected not_found error, got %+v", resp.Error)
	}
}

func TestInviteController_SubmitReply(t *testing.T) {
	svc := &mockGuestService{guest: &domain.Guest{ID: "g-1", Reply: domain.ReplyYes, Heads: 2}}
	ctrl := NewInviteController(testLogger(), svc)

	body := strings.NewReader(`{"reply":"Y","heads":2,"comments":"see you"}`)
	req := httptest.NewRequest(http.MethodPost, "/invites/my-token/reply", body)
	req.SetPathValue("token", "my-token")
	w := httptest.NewRecorder()
	ctrl.SubmitReply(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if svc.lastSub.Reply != domain.ReplyYes || svc.lastSub.Heads != 2 {
		t.Fatalf("unexpected submission: %+v", svc.lastSub)
	}
}

func TestInviteController_SubmitReply_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown reply", `{"reply":"X","heads":1}`},
		{"empty reply", `{"heads":1}`},
		{"unknown field", `{"reply":"Y","heads":1,"bogus":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockGuestService{}
			ctrl := NewInviteController(testLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/invites/my-token/reply", strings.NewReader(tt.body))
			req.SetPathValue("token", "my-token")
			w := httptest.NewRecorder()
			ctrl.SubmitReply(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
			}
		})
	}
}

func TestInviteController_Unreply(t *testing.T) {
	svc := &mockGuestService{guest: &domain.Guest{ID: "g-1", Reply: domain.ReplyNone}}
	ctrl := NewInviteController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/invites/my-token/unreply", nil)
	req.SetPathValue("token", "my-token")
	w := httptest.NewRecorder()
	ctrl.Unreply(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp ReplySuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Data.Reply != domain.ReplyNone {
		t.Fatalf("expected cleared reply, got %q", resp.Data.Reply)
	}
}

func TestInviteController_Unreply_ServiceError(t *testing.T) {
	svc := &mockGuestService{err: errors.New("db down")}
	ctrl := NewInviteController(testLogger(), svc)

	req := httptest.NewRequest(http.MethodPost, "/invites/my-token/unreply", nil)
	req.SetPathValue("token", "my-token")
	w := httptest.NewRecorder()
	ctrl.Unreply(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}
