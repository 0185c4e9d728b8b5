package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// TimeSlotRepo reads the pre-seeded bookable start times.
type TimeSlotRepo struct {
	db *sql.DB
}

func NewTimeSlotRepo(db *sql.DB) *TimeSlotRepo { return &TimeSlotRepo{db: db} }

// IDByStartTime resolves an HH:MM:SS start time to its slot id.
func (r *TimeSlotRepo) IDByStartTime(ctx context.Context, q Querier, start string) (uint64, error) {
	var id uint64
	err := q.QueryRowContext(ctx, "SELECT id FROM time_slots WHERE start_time=? LIMIT 1", start).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// StartTimeByID returns the HH:MM:SS start time of slot id.
func (r *TimeSlotRepo) StartTimeByID(ctx context.Context, q Querier, id uint64) (string, error) {
	var start string
	err := q.QueryRowContext(ctx, "SELECT start_time FROM time_slots WHERE id=?", id).Scan(&start)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return start, err
}

// List returns every slot ordered by start time.
func (r *TimeSlotRepo) List(ctx context.Context) ([]model.TimeSlot, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, start_time FROM time_slots ORDER BY start_time")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TimeSlot, 0)
	for rows.Next() {
		var s model.TimeSlot
		if err := rows.Scan(&s.ID, &s.StartTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FreeOnDate returns the HH:MM start time of every slot that has no active
// reservation on date, in ascending order.
func (r *TimeSlotRepo) FreeOnDate(ctx context.Context, date model.Date) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT ts.start_time
	    FROM time_slots ts
	    WHERE ts.id NOT IN (
	        SELECT r.time_id FROM reservations r
	        WHERE r.reservation_date = ? AND r.reservation_status IN (`+activeStatusList+`))
	    ORDER BY ts.start_time`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var start string
		if err := rows.Scan(&start); err != nil {
			return nil, err
		}
		out = append(out, model.ShortTime(start))
	}
	return out, rows.Err()
}

// DB exposes the underlying handle for single-statement lookups.
func (r *TimeSlotRepo) DB() *sql.DB { return r.db }
