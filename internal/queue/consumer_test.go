package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/notify"
)

type fakeEmail struct {
	sent []notify.Email
	err  error
}

func (f *fakeEmail) SendEmail(_ context.Context, m notify.Email) error {
	f.sent = append(f.sent, m)
	return f.err
}

type fakeSMS struct {
	to, body []string
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return nil
}

func event(typ EventType) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: 41,
		UserID:        3,
		CustomerName:  "Ana García",
		CustomerEmail: "ana@example.com",
		CustomerPhone: "+34600111222",
		TableID:       2,
		TableLabel:    "T1",
		Zone:          "Terraza",
		Date:          "2030-01-16",
		Time:          "19:00",
		PartySize:     4,
		Status:        "confirmed",
		OccurredAt:    "2030-01-15T12:00:00Z",
	}
}

func TestHandleMessage(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	email, sms := &fakeEmail{}, &fakeSMS{}
	path := filepath.Join(t.TempDir(), "nested", "reservations.log")
	c := &Consumer{LogPath: path, Email: email, SMS: sms, Log: log}

	for _, typ := range []EventType{EventCreated, EventCancelled} {
		body, err := json.Marshal(event(typ))
		require.NoError(t, err)
		require.NoError(t, c.HandleMessage(context.Background(), body))
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Reservation created")
	assert.Contains(t, lines[0], "reservation_id=41")
	assert.Contains(t, lines[1], "Reservation cancelled")

	require.Len(t, email.sent, 2)
	assert.Equal(t, "Tu reserva está confirmada", email.sent[0].Subject)
	assert.Contains(t, email.sent[0].Text, "Mesa: T1 (Terraza)")
	assert.Equal(t, "ana@example.com", email.sent[0].ToAddress)

	require.Len(t, sms.body, 2)
	assert.Equal(t, "+34600111222", sms.to[0])
	assert.Equal(t, "Reserva #41: mesa T1, 2030-01-16 19:00, 4 personas (confirmed).", sms.body[0])
	assert.Contains(t, sms.body[1], "cancelada")
}

func TestHandleMessage_NotificationFailureIsNotFatal(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	c := &Consumer{
		LogPath: filepath.Join(t.TempDir(), "r.log"),
		Email:   &fakeEmail{err: errors.New("sendgrid down")},
		Log:     log,
	}
	ev := event(EventUpdated)
	ev.CustomerPhone = ""
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	assert.NoError(t, c.HandleMessage(context.Background(), body))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "reservation email failed", hook.LastEntry().Message)
}

func TestHandleMessage_BadPayload(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	c := &Consumer{LogPath: filepath.Join(t.TempDir(), "r.log"), Log: log}
	assert.Error(t, c.HandleMessage(context.Background(), []byte("{not json")))
}

func TestSleepHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleep(ctx, 0x7fffffff))
}

func TestSubjectFor(t *testing.T) {
	pending := event(EventCreated)
	pending.Status = "pending"
	cases := []struct {
		name string
		ev   ReservationEvent
		want string
	}{
		{"confirmed booking", event(EventCreated), "Tu reserva está confirmada"},
		{"pending booking", pending, "Tu reserva está pendiente de confirmación"},
		{"cancelled", event(EventCancelled), "Tu reserva fue cancelada"},
		{"unknown type", event(EventType("reservation.other")), "Actualización de tu reserva"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, subjectFor(tc.ev))
			assert.Equal(t, tc.want, reservationEmail(tc.ev).Subject)
		})
	}
}
