package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// ReservationRepo provides the reservation reads and writes used by the
// booking service.  Write methods take a Querier so they can run inside
// the service's transaction.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so callers can start transactions.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// CreateTx inserts res and returns the new id.  A concurrent booking that
// slipped past TableFree hits the active-slot unique key and is reported as
// ErrConflict.
func (r *ReservationRepo) CreateTx(ctx context.Context, q Querier, res model.Reservation) (uint64, error) {
	const ins = `INSERT INTO reservations (user_id, table_id, time_id, reservation_date, party_size, reservation_status)
	             VALUES (?, ?, ?, ?, ?, ?)`
	result, err := q.ExecContext(ctx, ins, res.UserID, res.TableID, res.TimeID, res.Date, res.PartySize, res.Status)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByIDTx loads a reservation or returns ErrNotFound.
func (r *ReservationRepo) GetByIDTx(ctx context.Context, q Querier, id uint64) (model.Reservation, error) {
	const sel = `SELECT id, user_id, table_id, time_id, reservation_date, party_size, reservation_status
	             FROM reservations WHERE id = ?`
	var res model.Reservation
	err := q.QueryRowContext(ctx, sel, id).Scan(
		&res.ID, &res.UserID, &res.TableID, &res.TimeID, &res.Date, &res.PartySize, &res.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// UpdateTx rewrites the mutable columns of an existing reservation in place.
func (r *ReservationRepo) UpdateTx(ctx context.Context, q Querier, res model.Reservation) error {
	const upd = `UPDATE reservations
	             SET table_id = ?, time_id = ?, reservation_date = ?, party_size = ?, reservation_status = ?
	             WHERE id = ? AND user_id = ?`
	result, err := q.ExecContext(ctx, upd, res.TableID, res.TimeID, res.Date, res.PartySize, res.Status, res.ID, res.UserID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CancelConfirmedTx moves a confirmed reservation to cancelled.  Any other
// current status (including an unknown id) yields ErrNotFound, which makes
// a second cancel of the same reservation fail.
func (r *ReservationRepo) CancelConfirmedTx(ctx context.Context, q Querier, id uint64) error {
	result, err := q.ExecContext(ctx,
		"UPDATE reservations SET reservation_status = ? WHERE id = ? AND reservation_status = ?",
		model.StatusCancelled, id, model.StatusConfirmed)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountConfirmedOnDateTx counts confirmed reservations of tableID on date.
func (r *ReservationRepo) CountConfirmedOnDateTx(ctx context.Context, q Querier, tableID uint64, date model.Date) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE table_id = ? AND reservation_date = ? AND reservation_status = ?",
		tableID, date, model.StatusConfirmed).Scan(&n)
	return n, err
}

const viewSelect = `SELECT r.id, r.reservation_date, ts.start_time, t.label, t.zone,
                           r.party_size, r.reservation_status, u.first_name, u.last_name
                    FROM reservations r
                    JOIN time_slots ts ON ts.id = r.time_id
                    JOIN restaurants_table t ON t.id = r.table_id
                    JOIN users u ON u.id = r.user_id`

const viewOrder = ` ORDER BY r.reservation_date DESC, ts.start_time ASC, r.id ASC`

// ListByUser returns the active reservations of one customer.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.ReservationView, error) {
	return r.listViews(ctx,
		viewSelect+` WHERE r.user_id = ? AND r.reservation_status IN (`+activeStatusList+`)`+viewOrder, userID)
}

// ListAll returns every reservation regardless of status.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.ReservationView, error) {
	return r.listViews(ctx, viewSelect+viewOrder)
}

func (r *ReservationRepo) listViews(ctx context.Context, q string, args ...any) ([]model.ReservationView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ReservationView, 0)
	for rows.Next() {
		var v model.ReservationView
		if err := rows.Scan(&v.ID, &v.Date, &v.SlotTime, &v.Table, &v.Zone,
			&v.PartySize, &v.Status, &v.FirstName, &v.LastName); err != nil {
			return nil, err
		}
		v.SlotTime = model.ShortTime(v.SlotTime)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListForDate returns the day sheet: active reservations on date ordered by
// slot time then table.
func (r *ReservationRepo) ListForDate(ctx context.Context, date model.Date) ([]model.DailyReservation, error) {
	q := `SELECT r.id, r.party_size, r.reservation_status, u.first_name, u.last_name, t.label, ts.start_time
	           FROM reservations r
	           JOIN time_slots ts ON ts.id = r.time_id
	           JOIN restaurants_table t ON t.id = r.table_id
	           JOIN users u ON u.id = r.user_id
	           WHERE r.reservation_date = ? AND r.reservation_status IN (` + activeStatusList + `)
	           ORDER BY ts.start_time ASC, t.label ASC, r.id ASC`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.DailyReservation, 0)
	for rows.Next() {
		var d model.DailyReservation
		if err := rows.Scan(&d.ID, &d.PartySize, &d.Status, &d.FirstName, &d.LastName, &d.Table, &d.SlotTime); err != nil {
			return nil, err
		}
		d.SlotTime = model.ShortTime(d.SlotTime)
		out = append(out, d)
	}
	return out, rows.Err()
}
