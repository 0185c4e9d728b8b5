package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
)

// Consumer listens to the reservation.events queue, appends every event to
// a log file and notifies the customer.
type Consumer struct {
	URL     string
	LogPath string // defaults to logs/reservations.log
	Email   notify.EmailSender
	SMS     notify.SMSSender
	Log     logrus.FieldLogger
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Broker
// failures are retried with exponential backoff; a message that cannot be
// decoded or logged is rejected without requeue so the worker keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.WithError(err).Warnf("reservation-consumer: failed to dial broker; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.WithError(err).Warn("reservation-consumer: consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.WithError(err).Warn("reservation-consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(ReservationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ReservationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.HandleMessage(ctx, d.Body); err != nil {
				c.Log.WithError(err).Error("reservation-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event, appends it to the log file and sends
// the customer notifications.  Notification failures are logged only; the
// event is still acknowledged.
func (c *Consumer) HandleMessage(ctx context.Context, body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := c.appendLog(ev); err != nil {
		return err
	}

	log := c.Log.WithFields(logrus.Fields{"reservation_id": ev.ReservationID, "type": ev.Type})
	if ev.CustomerEmail != "" && c.Email != nil {
		if err := c.Email.SendEmail(ctx, reservationEmail(ev)); err != nil {
			log.WithError(err).Warn("reservation email failed")
		}
	}
	if ev.CustomerPhone != "" && c.SMS != nil {
		if err := c.SMS.SendSMS(ctx, ev.CustomerPhone, reservationSMS(ev)); err != nil {
			log.WithError(err).Warn("reservation sms failed")
		}
	}
	return nil
}

func (c *Consumer) appendLog(ev ReservationEvent) error {
	fpath := c.LogPath
	if fpath == "" {
		fpath = filepath.Join("logs", "reservations.log")
	}
	if err := os.MkdirAll(filepath.Dir(fpath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Reservation %s | reservation_id=%d | user_id=%d | table=%q | zone=%q | date=%s | time=%s | party=%d | status=%s\n",
		ev.OccurredAt, ev.Type, ev.ReservationID, ev.UserID, ev.TableLabel, ev.Zone, ev.Date, ev.Time, ev.PartySize, ev.Status)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

var eventSubjects = map[EventType]string{
	EventCreated:   "Tu reserva está confirmada",
	EventUpdated:   "Tu reserva fue modificada",
	EventCancelled: "Tu reserva fue cancelada",
}

func subjectFor(ev ReservationEvent) string {
	if ev.Type == EventCreated && ev.Status == model.StatusPending {
		return "Tu reserva está pendiente de confirmación"
	}
	if subject, ok := eventSubjects[ev.Type]; ok {
		return subject
	}
	return "Actualización de tu reserva"
}

func reservationEmail(ev ReservationEvent) notify.Email {
	subject := subjectFor(ev)
	text := fmt.Sprintf("Hola %s,\n\n%s.\nMesa: %s (%s)\nFecha: %s\nHora: %s\nComensales: %d\nEstado: %s\n",
		ev.CustomerName, subject, ev.TableLabel, ev.Zone, ev.Date, ev.Time, ev.PartySize, ev.Status)
	return notify.Email{
		ToName:    ev.CustomerName,
		ToAddress: ev.CustomerEmail,
		Subject:   subject,
		Text:      text,
	}
}

func reservationSMS(ev ReservationEvent) string {
	switch ev.Type {
	case EventCancelled:
		return fmt.Sprintf("Reserva #%d cancelada (%s %s).", ev.ReservationID, ev.Date, ev.Time)
	default:
		return fmt.Sprintf("Reserva #%d: mesa %s, %s %s, %d personas (%s).",
			ev.ReservationID, ev.TableLabel, ev.Date, ev.Time, ev.PartySize, ev.Status)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
