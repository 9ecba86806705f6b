package mailer

import "github.com/sandnico/rsvp-service/internal/domain"

// Service notifies the hosts when a guest confirms.
type Service interface {
	SendConfirmationNotice(toEmail, toName string, guest *domain.Guest) error
}
