package calendar

import (
	"time"

	"github.com/username/pzl-reminder/pkg/dateutil"
)

// WorkdayHours is the expected amount of logged time for a working day
const WorkdayHours = 8

// Calendar reports how many hours are expected on a given day
type Calendar interface {
	// WorkingHours returns expected hours for the date, 0 for a day off
	WorkingHours(date time.Time) int
}

// Weekdays is a Calendar where Monday-Friday are 8-hour working days
// and Saturday/Sunday are days off. Public holidays are not considered.
type Weekdays struct{}

// WorkingHours implements Calendar
func (Weekdays) WorkingHours(date time.Time) int {
	if dateutil.IsWeekday(date) {
		return WorkdayHours
	}
	return 0
}

// IsWorkday checks if the calendar expects any hours on the date
func IsWorkday(cal Calendar, date time.Time) bool {
	return cal.WorkingHours(date) > 0
}

// WeekdayIndex returns the weekday number with Monday=0 ... Sunday=6
func WeekdayIndex(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}
