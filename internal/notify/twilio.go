package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Twilio sends SMS through the Twilio REST API.
type Twilio struct {
	client *twilio.RestClient
	from   string
	log    logrus.FieldLogger
}

func NewTwilio(accountSID, authToken, from string, log logrus.FieldLogger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &Twilio{client: client, from: from, log: log}
}

// SendSMS sends body to the given number.  The Twilio client has no
// context support, so ctx is only checked before the call.
func (t *Twilio) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(to, "+") {
		t.log.WithField("to", to).Warn("destination number is not in E.164 format")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.from)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.Sid != nil {
		t.log.WithFields(logrus.Fields{"to": to, "sid": *resp.Sid}).Debug("sms sent")
	}
	return nil
}
