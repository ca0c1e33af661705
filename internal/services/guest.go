package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rsvphub/internal/domain"
)

// defaultInviteMessage is used when neither the request nor the event's
// saved template carries a message body.
const defaultInviteMessage = "Please check out the details on the invitation online."

type guestService struct {
	eventRepo      domain.EventRepository
	guestRepo      domain.GuestRepository
	tokens         domain.TokenSource
	emailService   domain.EmailService
	links          Links
	contextTimeout time.Duration
}

func NewGuestService(eventRepo domain.EventRepository,
	guestRepo domain.GuestRepository,
	tokens domain.TokenSource,
	emailService domain.EmailService,
	links Links,
	timeout time.Duration,
) domain.GuestService {
	return &guestService{
		eventRepo:      eventRepo,
		guestRepo:      guestRepo,
		tokens:         tokens,
		emailService:   emailService,
		links:          links,
		contextTimeout: timeout,
	}
}

func (s *guestService) eventByToken(ctx context.Context, token string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByToken(ctx, domain.CanonicalToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *guestService) guestByToken(ctx context.Context, token string) (*domain.Guest, error) {
	guest, err := s.guestRepo.GetByToken(ctx, domain.CanonicalToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return guest, nil
}

// message picks the broadcast body: the request's message, else the saved
// template, else the stock one-liner.
func message(requested, template string) string {
	if requested != "" {
		return requested
	}
	if template != "" {
		return template
	}
	return defaultInviteMessage
}

// Invite creates the guest row and its token first; the invitation email,
// if requested, is attempted only after the guest is committed and
// reachable via its token. A dispatch failure is reported in the result
// and leaves emails_sent untouched.
func (s *guestService) Invite(ctx context.Context, eventToken string, in domain.InviteGuestInput) (*domain.GuestInvited, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: guest name and email are required", domain.ErrInvalidOperation)
	}
	event, err := s.eventByToken(ctx, eventToken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	guest := domain.NewGuest(event.ID, in.Name, in.Email, now, now)
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}
	guest.Token = s.tokens.Derive(domain.TokenKindGuest, guest.ID)
	if err := s.guestRepo.SetToken(ctx, guest.ID, guest.Token); err != nil {
		return nil, fmt.Errorf("set guest token: %w", err)
	}

	invited := &domain.GuestInvited{Guest: guest}
	if !in.SendEmail {
		return invited, nil
	}

	organizer, err := s.guestRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	body := message(in.Message, event.MessageTemplate)
	sendErr := s.emailService.SendInvitation(ctx, &domain.InvitationEmailData{
		EventName:     event.Name,
		GuestName:     guest.Name,
		GuestEmail:    guest.Email,
		OrganizerName: organizer.Name,
		ReplyToEmail:  organizer.Email,
		Message:       body,
		InviteURL:     s.links.InviteURL(guest.Token),
	})
	if sendErr != nil {
		invited.DispatchErr = fmt.Errorf("%w: %v", domain.ErrDispatchFailed, sendErr)
		return invited, nil
	}
	if err := s.guestRepo.IncrementEmailsSent(ctx, guest.ID); err != nil {
		return nil, fmt.Errorf("record sent email: %w", err)
	}
	guest.EmailsSent++
	if in.SaveMessage && in.Message != "" {
		if err := s.eventRepo.SetMessageTemplate(ctx, event.ID, in.Message); err != nil {
			return nil, fmt.Errorf("save message template: %w", err)
		}
	}
	return invited, nil
}

// UpdateContact applies organizer edits to a guest's name and email. The
// organizer's own email is immutable here; changing any other guest's
// email resets their emails_sent counter at the repository level.
func (s *guestService) UpdateContact(ctx context.Context, eventToken, guestID string, upd domain.ContactUpdate) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventByToken(ctx, eventToken)
	if err != nil {
		return nil, err
	}
	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if guest.EventID != event.ID {
		return nil, domain.ErrNotFound
	}

	if upd.Name != nil && *upd.Name != guest.Name {
		if *upd.Name == "" {
			return nil, fmt.Errorf("%w: guest name cannot be empty", domain.ErrInvalidOperation)
		}
		if err := s.guestRepo.UpdateName(ctx, guest.ID, *upd.Name); err != nil {
			return nil, fmt.Errorf("update name: %w", err)
		}
	}
	if upd.Email != nil && *upd.Email != guest.Email {
		if guest.ID == event.OrganizerID {
			return nil, fmt.Errorf("%w: the organizer's email cannot be changed", domain.ErrInvalidOperation)
		}
		if *upd.Email == "" {
			return nil, fmt.Errorf("%w: guest email cannot be empty", domain.ErrInvalidOperation)
		}
		if err := s.guestRepo.UpdateEmail(ctx, guest.ID, *upd.Email); err != nil {
			return nil, fmt.Errorf("update email: %w", err)
		}
	}
	updated, err := s.guestRepo.GetByID(ctx, guest.ID)
	if err != nil {
		return nil, fmt.Errorf("reload guest: %w", err)
	}
	return updated, nil
}

// Remove deletes guests row by row, best effort: the organizer is never
// removed, a failed row is recorded, and the remaining rows are still
// processed. There is no surrounding transaction; committed removals stay
// committed even when a later row fails.
func (s *guestService) Remove(ctx context.Context, eventToken string, guestIDs []string) (*domain.RemoveResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventByToken(ctx, eventToken)
	if err != nil {
		return nil, err
	}

	result := &domain.RemoveResult{Failures: []domain.BulkFailure{}}
	for _, id := range guestIDs {
		if id == event.OrganizerID {
			result.Failures = append(result.Failures, domain.BulkFailure{
				GuestID: id,
				Reason:  "cannot remove the organizer",
			})
			continue
		}
		guest, err := s.guestRepo.GetByID(ctx, id)
		if err != nil || guest.EventID != event.ID {
			result.Failures = append(result.Failures, domain.BulkFailure{
				GuestID: id,
				Reason:  "guest not found",
			})
			continue
		}
		if err := s.guestRepo.Delete(ctx, id); err != nil {
			reason := "guest not found"
			if !errors.Is(err, domain.ErrNotFound) {
				reason = err.Error()
			}
			result.Failures = append(result.Failures, domain.BulkFailure{GuestID: id, Reason: reason})
			continue
		}
		result.Removed++
	}
	return result, nil
}

func matchesRecipients(g *domain.Guest, f domain.RecipientFilter, selected map[string]struct{}) bool {
	switch f {
	case domain.RecipientsAll:
		return true
	case domain.RecipientsYes:
		return g.Reply == domain.ReplyYes
	case domain.RecipientsYesMaybe:
		return g.Reply.Attending()
	case domain.RecipientsReplied:
		return g.Reply != domain.ReplyNone
	case domain.RecipientsUnreplied:
		return g.Reply == domain.ReplyNone
	case domain.RecipientsUnemailed:
		return g.EmailsSent == 0
	case domain.RecipientsSelected:
		_, ok := selected[g.ID]
		return ok
	}
	return false
}

// Broadcast emails every guest matching the recipient filter, one send per
// row, best effort. Each successful send bumps that guest's emails_sent;
// failures are collected and reported without halting the loop.
func (s *guestService) Broadcast(ctx context.Context, eventToken string, in domain.BroadcastInput) (*domain.BroadcastResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !in.Recipients.Valid() {
		return nil, fmt.Errorf("%w: unknown recipient filter %q", domain.ErrInvalidOperation, in.Recipients)
	}
	event, err := s.eventByToken(ctx, eventToken)
	if err != nil {
		return nil, err
	}
	organizer, err := s.guestRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	guests, err := s.guestRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	selected := make(map[string]struct{}, len(in.GuestIDs))
	for _, id := range in.GuestIDs {
		selected[id] = struct{}{}
	}
	body := message(in.Message, event.MessageTemplate)

	result := &domain.BroadcastResult{Failures: []domain.BulkFailure{}}
	for _, g := range guests {
		if !matchesRecipients(g, in.Recipients, selected) {
			continue
		}
		sendErr := s.emailService.SendInvitation(ctx, &domain.InvitationEmailData{
			EventName:     event.Name,
			GuestName:     g.Name,
			GuestEmail:    g.Email,
			OrganizerName: organizer.Name,
			ReplyToEmail:  organizer.Email,
			Message:       body,
			InviteURL:     s.links.InviteURL(g.Token),
		})
		if sendErr != nil {
			result.Failures = append(result.Failures, domain.BulkFailure{GuestID: g.ID, Reason: sendErr.Error()})
			continue
		}
		if err := s.guestRepo.IncrementEmailsSent(ctx, g.ID); err != nil {
			result.Failures = append(result.Failures, domain.BulkFailure{GuestID: g.ID, Reason: err.Error()})
			continue
		}
		result.Sent++
	}

	if in.SaveMessage && in.Message != "" {
		if err := s.eventRepo.SetMessageTemplate(ctx, event.ID, in.Message); err != nil {
			return nil, fmt.Errorf("save message template: %w", err)
		}
	}
	return result, nil
}

// Invitation resolves a guest token into everything the reply page needs:
// the event, the guest's own row, the organizer, and a fresh summary.
func (s *guestService) Invitation(ctx context.Context, guestToken string) (*domain.InvitationView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guest, err := s.guestByToken(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, guest.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	organizer, err := s.guestRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	guests, err := s.guestRepo.ListByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}
	return &domain.InvitationView{
		Event:          event,
		Guest:          guest,
		OrganizerName:  organizer.Name,
		OrganizerEmail: organizer.Email,
		IsOrganizer:    guest.ID == event.OrganizerID,
		Summary:        BuildSummary(guests, event.OrganizerID),
	}, nil
}

// SubmitReply validates and normalizes the submission, then writes the
// (reply, heads, comments) triple in one repository update. Submitting the
// same payload twice stores the same triple, so resubmission is harmless.
func (s *guestService) SubmitReply(ctx context.Context, guestToken string, sub domain.ReplySubmission) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !sub.Reply.Valid() {
		return nil, fmt.Errorf("%w: invalid reply %q", domain.ErrInvalidOperation, sub.Reply)
	}
	guest, err := s.guestByToken(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	sub.Normalize()
	if err := s.guestRepo.SetReply(ctx, guest.ID, sub.Reply, sub.Heads, sub.Comments); err != nil {
		// The row may have been removed between the read and the write;
		// surface that as a normal not-found, nothing else is affected.
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set reply: %w", err)
	}
	guest.Reply = sub.Reply
	guest.Heads = sub.Heads
	guest.Comments = sub.Comments
	return guest, nil
}

// Unreply clears the reply triple back to the unset sentinel. This is not
// the same as declining: the guest moves to the no-reply tally.
func (s *guestService) Unreply(ctx context.Context, guestToken string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guest, err := s.guestByToken(ctx, guestToken)
	if err != nil {
		return nil, err
	}
	if err := s.guestRepo.ClearReply(ctx, guest.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("clear reply: %w", err)
	}
	guest.Reply = domain.ReplyNone
	guest.Heads = 0
	guest.Comments = ""
	return guest, nil
}
