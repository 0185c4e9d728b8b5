// Package notify delivers customer notifications by email (SendGrid) and
// SMS (Twilio).  When a provider is not configured the message is logged
// instead, so callers never need to check.
package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/config"
)

// Email is one outbound message.
type Email struct {
	ToName    string
	ToAddress string
	Subject   string
	Text      string
	HTML      string
}

// EmailSender delivers emails.
type EmailSender interface {
	SendEmail(ctx context.Context, m Email) error
}

// SMSSender delivers text messages to E.164 numbers.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// New returns the senders configured in cfg, falling back to the logging
// sender for each channel that lacks credentials.
func New(cfg config.NotifyConfig, log logrus.FieldLogger) (EmailSender, SMSSender) {
	var (
		email EmailSender = LogSender{Log: log}
		sms   SMSSender   = LogSender{Log: log}
	)
	if cfg.EmailEnabled() {
		email = NewSendGrid(cfg.SendGridAPIKey, cfg.SendGridFromName, cfg.SendGridFromEmail, log)
	}
	if cfg.SMSEnabled() {
		sms = NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, log)
	}
	return email, sms
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Log logrus.FieldLogger
}

func (s LogSender) SendEmail(_ context.Context, m Email) error {
	s.Log.WithFields(logrus.Fields{"to": m.ToAddress, "subject": m.Subject}).Info("email not sent: provider not configured")
	return nil
}

func (s LogSender) SendSMS(_ context.Context, to, body string) error {
	s.Log.WithFields(logrus.Fields{"to": to, "chars": len(body)}).Info("sms not sent: provider not configured")
	return nil
}

// PasswordResetEmail renders the password recovery message.
func PasswordResetEmail(name, address, link string) Email {
	text := fmt.Sprintf("Hola %s,\n\nPara restablecer tu contraseña abre el siguiente enlace (válido durante una hora):\n%s\n\nSi no solicitaste el cambio puedes ignorar este mensaje.", name, link)
	body := fmt.Sprintf("<p>Hola %s,</p><p>Para restablecer tu contraseña abre el siguiente enlace (válido durante una hora):</p><p><a href=\"%s\">Restablecer contraseña</a></p><p>Si no solicitaste el cambio puedes ignorar este mensaje.</p>",
		html.EscapeString(name), html.EscapeString(link))
	return Email{ToName: name, ToAddress: address, Subject: "Recuperación de contraseña", Text: text, HTML: body}
}
