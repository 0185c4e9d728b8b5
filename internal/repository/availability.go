package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// activeStatusList is the SQL literal list of statuses that hold a table.
var activeStatusList = func() string {
	quoted := make([]string, len(model.ActiveStatuses))
	for i, s := range model.ActiveStatuses {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ",")
}()

// tableBookedSQL returns the single definition of "table is taken": an
// active reservation of tableExpr on the given date and slot other than the
// excluded reservation.  It binds three parameters in order: date, slot id,
// excluded reservation id (0 excludes nothing).
func tableBookedSQL(tableExpr string) string {
	return `EXISTS (SELECT 1 FROM reservations ab
	        WHERE ab.table_id = ` + tableExpr + `
	          AND ab.reservation_date = ?
	          AND ab.time_id = ?
	          AND ab.reservation_status IN (` + activeStatusList + `)
	          AND ab.id <> ?)`
}

// TableFree reports whether tableID has no active reservation at (date,
// slotID), ignoring reservation excludeID.  Run it on the transaction that
// will write the booking.
func TableFree(ctx context.Context, q Querier, tableID uint64, date model.Date, slotID, excludeID uint64) (bool, error) {
	var booked bool
	err := q.QueryRowContext(ctx,
		"SELECT "+tableBookedSQL("?"),
		tableID, date, slotID, excludeID).Scan(&booked)
	if err != nil {
		return false, err
	}
	return !booked, nil
}
