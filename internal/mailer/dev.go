package mailer

import (
	"github.com/sandnico/rsvp-service/internal/domain"
	"github.com/sandnico/rsvp-service/pkg/logger"
)

// DevMailer logs instead of sending. Default in development.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendConfirmationNotice(toEmail, toName string, guest *domain.Guest) error {
	message := ""
	if guest.Message != nil {
		message = *guest.Message
	}
	logger.Info("[DEV MAIL] Confirmation notice",
		"to", toEmail,
		"to_name", toName,
		"guest", guest.Name,
		"attending", guest.Attending,
		"message", message,
	)
	return nil
}
