package domain

import (
	"context"
	"time"
)

// Guest represents one invited party for an event, including the
// auto-created organizer guest. Token is the guest's capability credential.
// Heads is meaningful only while Reply is yes or maybe. EmailsSent counts
// successful notification dispatches and drops back to zero whenever the
// organizer changes the guest's email address, since the system cannot know
// whether a changed address was ever notified.
// swagger:model Guest
type Guest struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	EventID    string    `json:"event_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Reply      Reply     `json:"reply"`
	Heads      int       `json:"heads"`
	Comments   string    `json:"comments"`
	EmailsSent int       `json:"emails_sent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewGuest returns a new Guest with the given fields. ID and Token are set
// during the two-phase create in the service.
func NewGuest(eventID, name, email string, createdAt, updatedAt time.Time) *Guest {
	return &Guest{
		EventID:   eventID,
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// GuestRepository defines storage operations for guests. SetReply and
// ClearReply move the (reply, heads, comments) triple as a single update so
// a concurrent edit can never observe a torn combination. UpdateEmail
// resets emails_sent in the same statement; that reset is a repository
// invariant, not a caller courtesy.
type GuestRepository interface {
	Create(ctx context.Context, g *Guest) error
	SetToken(ctx context.Context, id, token string) error
	GetByID(ctx context.Context, id string) (*Guest, error)
	GetByToken(ctx context.Context, token string) (*Guest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Guest, error)
	SetReply(ctx context.Context, id string, reply Reply, heads int, comments string) error
	ClearReply(ctx context.Context, id string) error
	UpdateName(ctx context.Context, id, name string) error
	UpdateEmail(ctx context.Context, id, email string) error
	IncrementEmailsSent(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// InviteGuestInput is the validated input for inviting a guest.
type InviteGuestInput struct {
	Name        string
	Email       string
	SendEmail   bool
	Message     string
	SaveMessage bool
}

// GuestInvited is the result of Invite. DispatchErr is non-nil when the
// invitation email was requested but could not be sent; the guest row is
// committed and reachable via its token regardless.
type GuestInvited struct {
	Guest       *Guest
	DispatchErr error
}

// ContactUpdate carries an organizer edit of a guest's name and/or email.
type ContactUpdate struct {
	Name  *string
	Email *string
}

// RecipientFilter selects which guests a broadcast goes to.
type RecipientFilter string

const (
	RecipientsAll       RecipientFilter = "all"
	RecipientsYes       RecipientFilter = "yes"
	RecipientsYesMaybe  RecipientFilter = "yesmaybe"
	RecipientsReplied   RecipientFilter = "replied"
	RecipientsUnreplied RecipientFilter = "unreplied"
	RecipientsUnemailed RecipientFilter = "unemailed"
	RecipientsSelected  RecipientFilter = "selected"
)

// Valid reports whether f is a known recipient filter.
func (f RecipientFilter) Valid() bool {
	switch f {
	case RecipientsAll, RecipientsYes, RecipientsYesMaybe, RecipientsReplied,
		RecipientsUnreplied, RecipientsUnemailed, RecipientsSelected:
		return true
	}
	return false
}

// BroadcastInput is the validated input for a broadcast email. GuestIDs is
// consulted only when Recipients is RecipientsSelected.
type BroadcastInput struct {
	Recipients  RecipientFilter
	Message     string
	SaveMessage bool
	GuestIDs    []string
}

// BulkFailure records one failed row of a best-effort bulk operation.
// Bulk operations never halt on a failed row; failures are collected and
// reported while the remaining rows are still processed.
type BulkFailure struct {
	GuestID string `json:"guest_id"`
	Reason  string `json:"reason"`
}

// BroadcastResult reports how a broadcast went: how many messages were
// sent and which guests failed.
type BroadcastResult struct {
	Sent     int           `json:"sent"`
	Failures []BulkFailure `json:"failures"`
}

// RemoveResult reports a bulk guest removal.
type RemoveResult struct {
	Removed  int           `json:"removed"`
	Failures []BulkFailure `json:"failures"`
}

// InvitationView is the guest-facing picture of an invitation: the event,
// the invited guest's own row, the organizer's name and email, and a fresh
// reply summary.
type InvitationView struct {
	Event          *Event        `json:"event"`
	Guest          *Guest        `json:"guest"`
	OrganizerName  string        `json:"organizer_name"`
	OrganizerEmail string        `json:"organizer_email"`
	IsOrganizer    bool          `json:"is_organizer"`
	Summary        *ReplySummary `json:"summary"`
}

// GuestService defines guest management and the guest-facing reply flow.
// Organizer operations take the event token; guest operations take the
// guest's own token. Token possession is the only authorization.
type GuestService interface {
	Invite(ctx context.Context, eventToken string, in InviteGuestInput) (*GuestInvited, error)
	UpdateContact(ctx context.Context, eventToken, guestID string, upd ContactUpdate) (*Guest, error)
	Remove(ctx context.Context, eventToken string, guestIDs []string) (*RemoveResult, error)
	Broadcast(ctx context.Context, eventToken string, in BroadcastInput) (*BroadcastResult, error)

	Invitation(ctx context.Context, guestToken string) (*InvitationView, error)
	SubmitReply(ctx context.Context, guestToken string, sub ReplySubmission) (*Guest, error)
	Unreply(ctx context.Context, guestToken string) (*Guest, error)
}
