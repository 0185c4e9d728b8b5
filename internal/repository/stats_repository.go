package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// StatsRepo computes the dashboard counters.
type StatsRepo struct {
	db *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Daily runs four independent counts for day and derives the rest.  The
// counts are not read from a common snapshot.
func (r *StatsRepo) Daily(ctx context.Context, day model.Date) (model.DailyStats, error) {
	var s model.DailyStats
	counts := []struct {
		name string
		dst  *int
		q    string
		args []any
	}{
		{"reservations today", &s.ReservationsToday,
			"SELECT COUNT(*) FROM reservations WHERE reservation_date = ? AND reservation_status = ?",
			[]any{day, model.StatusConfirmed}},
		{"total tables", &s.TotalTables,
			"SELECT COUNT(*) FROM restaurants_table", nil},
		{"occupied tables", &s.OccupiedTables,
			"SELECT COUNT(DISTINCT table_id) FROM reservations WHERE reservation_date = ? AND reservation_status = ?",
			[]any{day, model.StatusConfirmed}},
		{"pending today", &s.PendingToday,
			"SELECT COUNT(*) FROM reservations WHERE reservation_date = ? AND reservation_status = ?",
			[]any{day, model.StatusPending}},
	}
	for _, c := range counts {
		if err := r.db.QueryRowContext(ctx, c.q, c.args...).Scan(c.dst); err != nil {
			return model.DailyStats{}, fmt.Errorf("count %s: %w", c.name, err)
		}
	}
	s.AvailableTables = s.TotalTables - s.OccupiedTables
	if s.TotalTables > 0 {
		s.OccupancyPercent = int(math.Round(float64(s.OccupiedTables) / float64(s.TotalTables) * 100))
	}
	return s, nil
}
