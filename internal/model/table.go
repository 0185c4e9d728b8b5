package model

// Table statuses.  The status is an advisory hint for the dashboard; it is
// never consulted when deciding whether a table can be booked.
const (
	TableAvailable   = "available"
	TableReserved    = "reserved"
	TableOccupied    = "occupied"
	TableMaintenance = "maintenance"
)

// Table is a physical restaurant table ("mesa") stored in the
// `restaurants_table` table.
type Table struct {
	ID       uint64  `json:"id"`           // restaurants_table.id
	Zone     string  `json:"zone"`         // restaurants_table.zone
	Capacity int     `json:"capacity"`     // restaurants_table.capacity
	Status   string  `json:"table_status"` // restaurants_table.table_status
	Label    string  `json:"label"`        // restaurants_table.label
	Notes    *string `json:"notes"`        // restaurants_table.notes (nullable)
}

// ValidTableStatus reports whether s is one of the known table statuses.
func ValidTableStatus(s string) bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied, TableMaintenance:
		return true
	}
	return false
}

// AvailableTable is the projection returned by the availability search.
type AvailableTable struct {
	ID       uint64 `json:"id"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
	Zone     string `json:"zone"`
}
