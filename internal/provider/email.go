package provider

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridEmail sends email through SendGrid
type SendGridEmail struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
	subject   string
}

// NewSendGridEmail creates a SendGrid email provider
func NewSendGridEmail(apiKey, fromName, fromEmail, subject string) *SendGridEmail {
	return &SendGridEmail{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		subject:   subject,
	}
}

// Send delivers the rendered content as a plain-text email
func (p *SendGridEmail) Send(ctx context.Context, recipient, content string) (string, error) {
	from := mail.NewEmail(p.fromName, p.fromEmail)
	to := mail.NewEmail("", recipient)
	message := mail.NewSingleEmail(from, p.subject, to, content, content)

	resp, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return "", fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid rejected send: status %d: %s", resp.StatusCode, resp.Body)
	}

	// SendGrid returns the message id in a response header
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return "", nil
}
