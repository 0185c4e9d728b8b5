package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// TableRepo provides CRUD operations for restaurant tables ("mesas").
type TableRepo struct {
	db *sql.DB
}

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// TableUpdate holds the fields of a partial table update.  Nil fields are
// left untouched.
type TableUpdate struct {
	Zone     *string
	Capacity *int
	Status   *string
	Label    *string
	Notes    *string
}

// Empty reports whether no field is set.
func (u TableUpdate) Empty() bool {
	return u.Zone == nil && u.Capacity == nil && u.Status == nil && u.Label == nil && u.Notes == nil
}

const tableColumns = "id, zone, capacity, table_status, label, notes"

func scanTable(s interface{ Scan(...any) error }) (model.Table, error) {
	var t model.Table
	var notes sql.NullString
	if err := s.Scan(&t.ID, &t.Zone, &t.Capacity, &t.Status, &t.Label, &notes); err != nil {
		return model.Table{}, err
	}
	if notes.Valid {
		n := notes.String
		t.Notes = &n
	}
	return t, nil
}

// List returns every table ordered by id.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+tableColumns+" FROM restaurants_table ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns one table or ErrNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
	return r.GetByIDTx(ctx, r.db, id)
}

// GetByIDTx is GetByID on an arbitrary querier.
func (r *TableRepo) GetByIDTx(ctx context.Context, q Querier, id uint64) (model.Table, error) {
	t, err := scanTable(q.QueryRowContext(ctx, "SELECT "+tableColumns+" FROM restaurants_table WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Table{}, ErrNotFound
	}
	return t, err
}

// Create inserts a table and returns its ID.  An empty status defaults to
// available.
func (r *TableRepo) Create(ctx context.Context, t model.Table) (uint64, error) {
	if t.Status == "" {
		t.Status = model.TableAvailable
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO restaurants_table (zone, capacity, table_status, label, notes) VALUES (?,?,?,?,?)",
		t.Zone, t.Capacity, t.Status, t.Label, t.Notes)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update applies the set fields of u and returns the number of matched
// rows.  ErrNotFound is returned when id does not exist.
func (r *TableRepo) Update(ctx context.Context, id uint64, u TableUpdate) (int64, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if u.Zone != nil {
		sets = append(sets, "zone=?")
		args = append(args, *u.Zone)
	}
	if u.Capacity != nil {
		sets = append(sets, "capacity=?")
		args = append(args, *u.Capacity)
	}
	if u.Status != nil {
		sets = append(sets, "table_status=?")
		args = append(args, *u.Status)
	}
	if u.Label != nil {
		sets = append(sets, "label=?")
		args = append(args, *u.Label)
	}
	if u.Notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, *u.Notes)
	}
	if len(sets) == 0 {
		return 0, errors.New("no fields to update")
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE restaurants_table SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return n, nil
}

// Delete removes a table.  Tables referenced by reservations cannot be
// deleted and yield ErrConflict.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM restaurants_table WHERE id=?", id)
	if err != nil {
		if isForeignKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SwapStatusTx moves the advisory status of a table from one value to
// another.  Tables in any other status are left alone.
func (r *TableRepo) SwapStatusTx(ctx context.Context, q Querier, id uint64, from, to string) error {
	_, err := q.ExecContext(ctx,
		"UPDATE restaurants_table SET table_status=? WHERE id=? AND table_status=?", to, id, from)
	return err
}

// Available lists tables in zone that seat at least party guests, are
// flagged available and are free at (date, slotID).
func (r *TableRepo) Available(ctx context.Context, date model.Date, slotID uint64, party int, zone string) ([]model.AvailableTable, error) {
	q := `SELECT t.id, t.label, t.capacity, t.zone
	      FROM restaurants_table t
	      WHERE t.zone = ?
	        AND t.capacity >= ?
	        AND t.table_status = ?
	        AND NOT ` + tableBookedSQL("t.id") + `
	      ORDER BY t.capacity, t.id`
	rows, err := r.db.QueryContext(ctx, q, zone, party, model.TableAvailable, date, slotID, 0)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AvailableTable, 0)
	for rows.Next() {
		var t model.AvailableTable
		if err := rows.Scan(&t.ID, &t.Label, &t.Capacity, &t.Zone); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ReleaseIdle flips tables flagged reserved back to available when they
// have no confirmed reservation on day.
func (r *TableRepo) ReleaseIdle(ctx context.Context, day model.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE restaurants_table SET table_status = ?
	    WHERE table_status = ?
	      AND id NOT IN (SELECT table_id FROM reservations WHERE reservation_date = ? AND reservation_status = ?)`,
		model.TableAvailable, model.TableReserved, day, model.StatusConfirmed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkBooked flags available tables that have a confirmed reservation on
// day as reserved.
func (r *TableRepo) MarkBooked(ctx context.Context, day model.Date) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE restaurants_table SET table_status = ?
	    WHERE table_status = ?
	      AND id IN (SELECT table_id FROM reservations WHERE reservation_date = ? AND reservation_status = ?)`,
		model.TableReserved, model.TableAvailable, day, model.StatusConfirmed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
