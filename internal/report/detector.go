package report

import (
	"math"
	"time"

	"github.com/username/pzl-reminder/internal/calendar"
	"github.com/username/pzl-reminder/pkg/dateutil"
)

// Reason explains why a working day was flagged
type Reason int

const (
	NoReport Reason = iota + 1
	Under8Confirmed
	Under8Unconfirmed
	UnconfirmedFull
)

var reasonNames = map[Reason]string{
	NoReport:          "NoReport",
	Under8Confirmed:   "Under8Confirmed",
	Under8Unconfirmed: "Under8Unconfirmed",
	UnconfirmedFull:   "UnconfirmedFull",
}

var reasonPhrases = map[Reason]string{
	NoReport:          "нет отчета",
	Under8Confirmed:   "отчет меньше 8 часов",
	Under8Unconfirmed: "меньше 8 часов, отчет не подтвержден",
	UnconfirmedFull:   "отчет не подтвержден",
}

func (r Reason) String() string {
	if name, ok := reasonNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Phrase returns the text shown to the user for the reason
func (r Reason) Phrase() string {
	return reasonPhrases[r]
}

// Record is one day of logged time as returned by the reporting service
type Record struct {
	Date      time.Time
	Hours     float64
	Confirmed bool
}

// DayStatus is the reconciled state of one calendar day
type DayStatus struct {
	Date          time.Time
	Hours         float64
	Confirmed     bool
	Reported      bool // false when the service returned nothing for the day
	ExpectedHours int
}

// MissingDay is a flagged working day
type MissingDay struct {
	Date   time.Time
	Reason Reason
}

// Summary is the month-to-date result of gap detection
type Summary struct {
	Start         time.Time
	End           time.Time
	ReportedHours float64
	ExpectedHours float64
	Days          []DayStatus
	Missing       []MissingDay
}

// Deficit returns expected minus reported hours, 0 when nothing is missing
func (s Summary) Deficit() float64 {
	deficit := s.ExpectedHours - s.ReportedHours
	if deficit <= 0 {
		return 0
	}
	return math.Round(deficit*100) / 100
}

// HasDeficit reports whether a notification is due. It agrees with the
// rounded Deficit, so a shortfall below 0.01 hours is not reported.
func (s Summary) HasDeficit() bool {
	return s.Deficit() > 0
}

// Detector reconciles sparse records against a working calendar
type Detector struct {
	calendar calendar.Calendar
}

// NewDetector creates a detector. A nil calendar means Monday-Friday, 8 hours.
func NewDetector(cal calendar.Calendar) *Detector {
	if cal == nil {
		cal = calendar.Weekdays{}
	}
	return &Detector{calendar: cal}
}

// Detect runs gap detection with the default weekday calendar
func Detect(records []Record, now time.Time) Summary {
	return NewDetector(nil).Detect(records, now)
}

// Detect examines [first day of now's month, yesterday].
// Days without a record count as 0 confirmed hours. If several records share
// a date the last one wins.
func (d *Detector) Detect(records []Record, now time.Time) Summary {
	start := dateutil.StartOfMonth(now)
	end := dateutil.Yesterday(now)

	byDate := make(map[string]Record, len(records))
	for _, rec := range records {
		byDate[dateutil.FormatDate(rec.Date)] = rec
	}

	summary := Summary{Start: start, End: end}

	for _, day := range dateutil.Days(start, end) {
		status := DayStatus{Date: day, Confirmed: true}
		if rec, ok := byDate[dateutil.FormatDate(day)]; ok {
			status.Hours = rec.Hours
			status.Confirmed = rec.Confirmed
			status.Reported = true
		}
		status.ExpectedHours = d.calendar.WorkingHours(day)
		summary.Days = append(summary.Days, status)

		if status.Confirmed {
			summary.ReportedHours += status.Hours
		}

		if status.ExpectedHours == 0 {
			continue
		}
		summary.ExpectedHours += float64(status.ExpectedHours)

		if reason, flagged := classify(status); flagged {
			summary.Missing = append(summary.Missing, MissingDay{Date: day, Reason: reason})
		}
	}

	return summary
}

func classify(day DayStatus) (Reason, bool) {
	target := float64(day.ExpectedHours)

	switch {
	case day.Hours == 0:
		return NoReport, true
	case day.Hours < target && day.Confirmed:
		return Under8Confirmed, true
	case day.Hours < target:
		return Under8Unconfirmed, true
	case !day.Confirmed:
		return UnconfirmedFull, true
	default:
		return 0, false
	}
}
