package services

import (
	"context"
	"fmt"
	"sync"

	"rsvphub/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for service tests.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	nextID int
	err    error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	stored := *e
	f.events[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) SetToken(ctx context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Token = token
	return nil
}

func (f *fakeEventRepo) SetOrganizer(ctx context.Context, id, guestID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	if e.OrganizerID != "" {
		return domain.ErrInvalidOperation
	}
	e.OrganizerID = guestID
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) GetByToken(ctx context.Context, token string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.Token == token && token != "" {
			copied := *e
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.Time != nil {
		e.Time = *upd.Time
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventRepo) SetMessageTemplate(ctx context.Context, id, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.MessageTemplate = text
	return nil
}

// fakeGuestRepo is an in-memory GuestRepository that preserves insertion
// order, like the real repository's ORDER BY created_at, id.
type fakeGuestRepo struct {
	mu     sync.Mutex
	order  []string
	guests map[string]*domain.Guest
	nextID int
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{guests: make(map[string]*domain.Guest)}
}

func (f *fakeGuestRepo) Create(ctx context.Context, g *domain.Guest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	g.ID = fmt.Sprintf("g-%d", f.nextID)
	stored := *g
	f.guests[g.ID] = &stored
	f.order = append(f.order, g.ID)
	return nil
}

func (f *fakeGuestRepo) SetToken(ctx context.Context, id, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.Token = token
	return nil
}

func (f *fakeGuestRepo) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGuestRepo) GetByToken(ctx context.Context, token string) (*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		g := f.guests[id]
		if g != nil && g.Token == token && token != "" {
			copied := *g
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeGuestRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Guest, 0)
	for _, id := range f.order {
		g := f.guests[id]
		if g != nil && g.EventID == eventID {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeGuestRepo) SetReply(ctx context.Context, id string, reply domain.Reply, heads int, comments string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.Reply = reply
	g.Heads = heads
	g.Comments = comments
	return nil
}

func (f *fakeGuestRepo) ClearReply(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.Reply = domain.ReplyNone
	g.Heads = 0
	g.Comments = ""
	return nil
}

func (f *fakeGuestRepo) UpdateName(ctx context.Context, id, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.Name = name
	return nil
}

func (f *fakeGuestRepo) UpdateEmail(ctx context.Context, id, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.Email = email
	g.EmailsSent = 0
	return nil
}

func (f *fakeGuestRepo) IncrementEmailsSent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.guests[id]
	if !ok {
		return domain.ErrNotFound
	}
	g.EmailsSent++
	return nil
}

func (f *fakeGuestRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.guests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.guests, id)
	return nil
}

// stubTokens derives predictable tokens for assertions.
type stubTokens struct{}

func (stubTokens) Derive(kind domain.TokenKind, id string) string {
	return string(kind) + "-token-" + id
}

type sentEmail struct {
	to      string
	subject string
}

// fakeEmailService records sends and can be told to fail for specific
// recipients or across the board.
type fakeEmailService struct {
	mu      sync.Mutex
	sent    []sentEmail
	failFor map[string]error
	failAll error
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{failFor: make(map[string]error)}
}

func (f *fakeEmailService) send(to, subject string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll != nil {
		return f.failAll
	}
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.sent = append(f.sent, sentEmail{to: to, subject: subject})
	return nil
}

func (f *fakeEmailService) SendManageLink(ctx context.Context, data *domain.ManageLinkEmailData) error {
	return f.send(data.OrganizerEmail, "manage:"+data.EventName)
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	return f.send(data.GuestEmail, "invite:"+data.EventName)
}
