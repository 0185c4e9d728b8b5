// Package testutil provides a throwaway SQLite database carrying the same
// tables as the MySQL schema, plus small seeding helpers for tests.
package testutil

import (
	"database/sql"
	_ "embed"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

//go:embed sqlite_schema.sql
var sqliteSchema string

// NewSQLiteDB opens a fresh file-backed database in t's temp dir.  Writes
// take the lock at BEGIN so concurrent transactions serialise the way row
// locks would on MySQL.
func NewSQLiteDB(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reservations.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=1&_busy_timeout=10000&_txlock=immediate")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range database.Statements(sqliteSchema) {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return db
}

// NullLogger returns a logger that discards output and records entries.
func NullLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

// InsertUser adds a user with a placeholder password hash.
func InsertUser(t testing.TB, db *sql.DB, first, email, role string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO users (first_name, last_name, phone, email, pass_hash, user_role) VALUES (?,?,?,?,?,?)",
		first, "Test", "+34600000000", email, "x", role)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// InsertTable adds a restaurant table.
func InsertTable(t testing.TB, db *sql.DB, label, zone string, capacity int, status string) uint64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO restaurants_table (zone, capacity, table_status, label) VALUES (?,?,?,?)",
		zone, capacity, status, label)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// InsertReservation adds a reservation row directly, bypassing admission.
func InsertReservation(t testing.TB, db *sql.DB, userID, tableID, slotID uint64, date model.Date, party int, status string) uint64 {
	t.Helper()
	res, err := db.Exec(
		`INSERT INTO reservations (user_id, table_id, time_id, reservation_date, party_size, reservation_status)
		 VALUES (?,?,?,?,?,?)`, userID, tableID, slotID, date, party, status)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// SlotID returns the id of the seeded slot starting at start (HH:MM:SS).
func SlotID(t testing.TB, db *sql.DB, start string) uint64 {
	t.Helper()
	var id uint64
	require.NoError(t, db.QueryRow("SELECT id FROM time_slots WHERE start_time = ?", start).Scan(&id))
	return id
}

// TableStatus reads the advisory status of a table.
func TableStatus(t testing.TB, db *sql.DB, tableID uint64) string {
	t.Helper()
	var s string
	require.NoError(t, db.QueryRow("SELECT table_status FROM restaurants_table WHERE id = ?", tableID).Scan(&s))
	return s
}

// ReservationStatus reads the status of a reservation.
func ReservationStatus(t testing.TB, db *sql.DB, id uint64) string {
	t.Helper()
	var s string
	require.NoError(t, db.QueryRow("SELECT reservation_status FROM reservations WHERE id = ?", id).Scan(&s))
	return s
}
