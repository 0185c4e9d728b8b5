package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// SendGrid sends email through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
	log    logrus.FieldLogger
}

func NewSendGrid(apiKey, fromName, fromEmail string, log logrus.FieldLogger) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
		log:    log,
	}
}

func (s *SendGrid) SendEmail(ctx context.Context, m Email) error {
	to := mail.NewEmail(m.ToName, m.ToAddress)
	message := mail.NewSingleEmail(s.from, m.Subject, to, m.Text, m.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	s.log.WithFields(logrus.Fields{"to": m.ToAddress, "subject": m.Subject, "status": resp.StatusCode}).Debug("email sent")
	return nil
}
