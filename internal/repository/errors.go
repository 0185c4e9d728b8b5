// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the booking service to distinguish between failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden marks an operation on a resource the caller does not own.
// The booking service wraps it in its 403 errors.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write violates a uniqueness rule or
// when a delete is blocked by dependent rows, such as deleting a table
// that still has reservations. Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by UserRepo.Create for a duplicate email.
var ErrEmailExists = errors.New("email already exists")

// MySQL server error numbers.
const (
	mysqlDuplicateEntry  = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// isDuplicate reports whether err is a unique key violation.  The SQLite
// message is matched too so repositories behave the same under tests.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDuplicateEntry
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKey reports whether err is a foreign key violation.
func isForeignKey(err error) bool {
	if err == nil {
		return false
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlRowIsReferenced || me.Number == mysqlNoReferencedRow
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
