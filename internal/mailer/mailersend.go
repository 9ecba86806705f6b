package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/sandnico/rsvp-service/internal/domain"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendConfirmationNotice(toEmail, toName string, guest *domain.Guest) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject, text, html := confirmationNotice(guest)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}

func confirmationNotice(guest *domain.Guest) (subject, text, html string) {
	answer := "will attend"
	if !guest.Attending {
		answer = "cannot attend"
	}
	message := ""
	if guest.Message != nil {
		message = *guest.Message
	}

	subject = fmt.Sprintf("RSVP: %s %s", guest.Name, answer)
	text = fmt.Sprintf("%s %s.\n\nMessage: %s", guest.Name, answer, message)
	html = fmt.Sprintf(`
		<h2>New RSVP</h2>
		<p><strong>%s</strong> %s.</p>
		<p>Message: %s</p>
	`, guest.Name, answer, message)
	return subject, text, html
}
