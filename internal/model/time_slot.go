package model

import (
	"strings"
	"time"
)

// TimeSlot is a pre-seeded bookable start time stored in `time_slots`.
// StartTime is always kept in HH:MM:SS form.
type TimeSlot struct {
	ID        uint64 `json:"id"`         // time_slots.id
	StartTime string `json:"start_time"` // time_slots.start_time
}

// NormalizeSlotTime trims the input and appends ":00" when only hours and
// minutes were given, so "19:00" and "19:00:00" refer to the same slot.
func NormalizeSlotTime(s string) string {
	s = strings.TrimSpace(s)
	if strings.Count(s, ":") == 1 {
		s += ":00"
	}
	return s
}

// ShortTime renders an HH:MM:SS value as HH:MM.  Values that do not parse
// are returned unchanged.
func ShortTime(s string) string {
	t, err := time.Parse("15:04:05", strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return t.Format("15:04")
}

// ValidClock reports whether s is a wall-clock time in HH:MM or HH:MM:SS form.
func ValidClock(s string) bool {
	_, err := time.Parse("15:04:05", NormalizeSlotTime(s))
	return err == nil
}
