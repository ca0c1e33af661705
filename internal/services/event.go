package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rsvphub/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	guestRepo      domain.GuestRepository
	tokens         domain.TokenSource
	emailService   domain.EmailService
	links          Links
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	guestRepo domain.GuestRepository,
	tokens domain.TokenSource,
	emailService domain.EmailService,
	links Links,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		guestRepo:      guestRepo,
		tokens:         tokens,
		emailService:   emailService,
		links:          links,
		contextTimeout: timeout,
	}
}

// CreateEvent runs the two-phase create twice: first the event row, then
// its token (the token depends on the id the storage layer assigns), then
// the organizer guest the same way, and finally the back-reference from
// event to organizer. The organizer's own reply goes through the same
// normalization as any guest reply. The manage-link email is attempted
// only after everything is committed; a dispatch failure is reported in
// the result, never by losing the event.
func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput) (*domain.EventCreated, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.Name == "" || in.OrganizerName == "" || in.OrganizerEmail == "" || in.Time.IsZero() {
		return nil, fmt.Errorf("%w: name, time, organizer name and email are required", domain.ErrInvalidOperation)
	}

	now := time.Now()
	event := domain.NewEvent(in.Name, in.Description, in.Location, in.Time, now, now)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	event.Token = s.tokens.Derive(domain.TokenKindEvent, event.ID)
	if err := s.eventRepo.SetToken(ctx, event.ID, event.Token); err != nil {
		return nil, fmt.Errorf("set event token: %w", err)
	}

	organizer := domain.NewGuest(event.ID, in.OrganizerName, in.OrganizerEmail, now, now)
	if err := s.guestRepo.Create(ctx, organizer); err != nil {
		return nil, fmt.Errorf("create organizer guest: %w", err)
	}
	organizer.Token = s.tokens.Derive(domain.TokenKindGuest, organizer.ID)
	if err := s.guestRepo.SetToken(ctx, organizer.ID, organizer.Token); err != nil {
		return nil, fmt.Errorf("set organizer token: %w", err)
	}
	if err := s.eventRepo.SetOrganizer(ctx, event.ID, organizer.ID); err != nil {
		return nil, fmt.Errorf("set organizer: %w", err)
	}
	event.OrganizerID = organizer.ID

	if in.Reply.Reply.Valid() {
		sub := in.Reply
		sub.Normalize()
		if err := s.guestRepo.SetReply(ctx, organizer.ID, sub.Reply, sub.Heads, sub.Comments); err != nil {
			return nil, fmt.Errorf("set organizer reply: %w", err)
		}
		organizer.Reply = sub.Reply
		organizer.Heads = sub.Heads
		organizer.Comments = sub.Comments
	}

	created := &domain.EventCreated{Event: event, Organizer: organizer}
	err := s.emailService.SendManageLink(ctx, &domain.ManageLinkEmailData{
		EventName:      event.Name,
		OrganizerName:  organizer.Name,
		OrganizerEmail: organizer.Email,
		ManageURL:      s.links.ManageURL(event.Token),
	})
	if err != nil {
		created.DispatchErr = fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}
	return created, nil
}

func (s *eventService) Manage(ctx context.Context, token string) (*domain.ManageView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByToken(ctx, domain.CanonicalToken(token))
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
	return &domain.ManageView{
		Event:     event,
		Organizer: organizer,
		Summary:   BuildSummary(guests, event.OrganizerID),
	}, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, token string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByToken(ctx, domain.CanonicalToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	updated, err := s.eventRepo.Update(ctx, event.ID, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}
