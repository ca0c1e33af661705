package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with
// the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ManageLinkEmailData holds data for the email sent to the organizer when
// an event is created, carrying the manage URL. The link is the only
// credential for the event, so the message warns against sharing it.
type ManageLinkEmailData struct {
	EventName      string
	OrganizerName  string
	OrganizerEmail string
	ManageURL      string
}

// InvitationEmailData holds data for an invitation or broadcast email sent
// to a guest, carrying the guest's invite URL and the organizer's message.
type InvitationEmailData struct {
	EventName     string
	GuestName     string
	GuestEmail    string
	OrganizerName string
	ReplyToEmail  string
	Message       string
	InviteURL     string
}

// EmailService defines the contract for sending domain-level emails.
// Implementations must not mutate repository state; callers record
// successful dispatches themselves.
type EmailService interface {
	SendManageLink(ctx context.Context, data *ManageLinkEmailData) error
	SendInvitation(ctx context.Context, data *InvitationEmailData) error
}
