// utils/dates.go
package utils

import "time"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// HoursBetween returns the whole hours elapsed from start to end.
func HoursBetween(start, end time.Time) int {
	return int(end.Sub(start).Hours())
}
