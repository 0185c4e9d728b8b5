package model

// Reservation statuses.  Cancellation is a status change; rows are never
// deleted.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// ActiveStatuses are the statuses that occupy a table for a slot.
var ActiveStatuses = []string{StatusConfirmed, StatusPending}

// IsActiveStatus reports whether s blocks the table for its slot.
func IsActiveStatus(s string) bool { return s == StatusConfirmed || s == StatusPending }

// Reservation links a user, a table and a time slot on a given date.
//
// Fields:
//
//	ID        – primary key identifier.
//	UserID    – customer who owns the reservation.
//	TableID   – booked table.
//	TimeID    – booked time slot.
//	Date      – day of the booking.
//	PartySize – number of guests (1..20, never above table capacity).
//	Status    – pending, confirmed or cancelled.
type Reservation struct {
	ID        uint64 // reservations.id
	UserID    uint64 // reservations.user_id
	TableID   uint64 // reservations.table_id
	TimeID    uint64 // reservations.time_id
	Date      Date   // reservations.reservation_date
	PartySize int    // reservations.party_size
	Status    string // reservations.reservation_status
}

// ReservationView is the joined projection returned by the reservation
// listing endpoints.
type ReservationView struct {
	ID        uint64 `json:"id"`
	Date      Date   `json:"fecha"`
	SlotTime  string `json:"horario"`
	Table     string `json:"mesa"`
	Zone      string `json:"zona"`
	PartySize int    `json:"personas"`
	Status    string `json:"estado"`
	FirstName string `json:"nombre_cliente"`
	LastName  string `json:"apellido_cliente"`
}

// DailyReservation is one line of the day sheet used by the front desk.
type DailyReservation struct {
	ID        uint64 `json:"id"`
	PartySize int    `json:"personas"`
	Status    string `json:"estado"`
	FirstName string `json:"nombre_cliente"`
	LastName  string `json:"apellido_cliente"`
	Table     string `json:"mesa"`
	SlotTime  string `json:"hora_reserva"`
}
