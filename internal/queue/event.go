// Package queue defines message payloads exchanged over the message broker
// and the worker that consumes them.
package queue

// ReservationQueue is the durable queue reservation events are routed to.
const ReservationQueue = "reservation.events"

// EventType names what happened to a reservation.
type EventType string

const (
	EventCreated   EventType = "created"
	EventUpdated   EventType = "updated"
	EventCancelled EventType = "cancelled"
)

// ReservationEvent is published after a reservation write commits.  It
// carries enough customer and table detail for the worker to notify the
// customer without querying the primary database.
type ReservationEvent struct {
	Type          EventType `json:"type"`
	ReservationID uint64    `json:"reservation_id"`
	UserID        uint64    `json:"user_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	TableID       uint64    `json:"table_id"`
	TableLabel    string    `json:"table_label"`
	Zone          string    `json:"zone"`
	Date          string    `json:"fecha"`
	Time          string    `json:"hora"`
	PartySize     int       `json:"personas"`
	Status        string    `json:"estado"`
	OccurredAt    string    `json:"occurred_at"`
}
