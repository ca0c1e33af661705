package services

import (
	"context"
	"fmt"
	"log"

	"rsvphub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendManageLink sends the organizer their manage URL using the
// "manage_link" template. Callers only reach this after the event and
// organizer rows are committed.
func (s *emailService) SendManageLink(ctx context.Context, data *domain.ManageLinkEmailData) error {
	if data == nil {
		return fmt.Errorf("manage link data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("manage_link", data)
	if err != nil {
		return fmt.Errorf("failed to render manage_link template: %w", err)
	}
	if err := s.mailer.Send(data.OrganizerEmail, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send manage link email: %w", err)
	}
	log.Printf("[EMAIL] Manage link sent to %s", data.OrganizerEmail)
	return nil
}

// SendInvitation sends an invitation or broadcast email to one guest using
// the "invitation" template.
func (s *emailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render invitation template: %w", err)
	}
	if err := s.mailer.Send(data.GuestEmail, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	log.Printf("[EMAIL] Invitation sent to %s", data.GuestEmail)
	return nil
}
