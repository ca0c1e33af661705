package domain

import (
	"context"
	"time"
)

// Event represents an event guests are invited to. Token is the organizer's
// capability credential; it is derived once after the repository assigns the
// ID and is never regenerated. OrganizerID references the guest row that is
// auto-created for the event's creator and is set once at creation.
// swagger:model Event
type Event struct {
	ID              string    `json:"id"`
	Token           string    `json:"token"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Location        string    `json:"location"`
	OrganizerID     string    `json:"organizer_id"`
	Time            time.Time `json:"time"`
	MessageTemplate string    `json:"message_template"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID, Token, and
// OrganizerID are set during the two-phase create in the service.
func NewEvent(name, description, location string, eventTime, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Location:    location,
		Time:        eventTime,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventUpdate carries a partial, field-level event update. Nil fields are
// left untouched.
type EventUpdate struct {
	Name        *string
	Description *string
	Location    *string
	Time        *time.Time
}

// EventRepository defines storage operations for events. Create allocates
// the row; SetToken and SetOrganizer finalize it. A half-created event (no
// token yet) is never handed to any other component.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	SetToken(ctx context.Context, id, token string) error
	SetOrganizer(ctx context.Context, id, guestID string) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetByToken(ctx context.Context, token string) (*Event, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	SetMessageTemplate(ctx context.Context, id, text string) error
}

// CreateEventInput is the validated input for creating an event together
// with its organizer guest and the organizer's initial reply.
type CreateEventInput struct {
	Name           string
	Description    string
	Location       string
	Time           time.Time
	OrganizerName  string
	OrganizerEmail string
	Reply          ReplySubmission
}

// EventCreated is the result of CreateEvent. DispatchErr is non-nil when
// the manage-link email could not be sent; the event and organizer rows
// are committed regardless.
type EventCreated struct {
	Event       *Event
	Organizer   *Guest
	DispatchErr error
}

// ManageView is the organizer-facing picture of an event: the event, the
// organizer guest, and a fresh reply summary.
type ManageView struct {
	Event     *Event        `json:"event"`
	Organizer *Guest        `json:"organizer"`
	Summary   *ReplySummary `json:"summary"`
}

// EventService defines organizer-facing event operations. All lookups are
// by capability token; there is no other authentication.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*EventCreated, error)
	Manage(ctx context.Context, token string) (*ManageView, error)
	UpdateEvent(ctx context.Context, token string, upd EventUpdate) (*Event, error)
}
