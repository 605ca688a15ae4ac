package dateutil

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day layout used by the reporting service
const DateLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the month (00:00:00) for the given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// Yesterday returns the day before now (start of day)
func Yesterday(now time.Time) time.Time {
	return StartOfDay(now).AddDate(0, 0, -1)
}

// Days returns every calendar day in [from, to] in ascending order.
// Returns nil when to precedes from.
func Days(from, to time.Time) []time.Time {
	from, to = StartOfDay(from), StartOfDay(to)
	if to.Before(from) {
		return nil
	}

	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// FormatDate formats date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// ParseDate parses a calendar day in local time.
// Accepts YYYY-MM-DD and DD.MM.YYYY.
func ParseDate(dateStr string) (time.Time, error) {
	formats := []string{
		DateLayout,
		"02.01.2006",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", dateStr)
}
