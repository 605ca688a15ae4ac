package report

import (
	"fmt"
	"strings"

	"github.com/username/pzl-reminder/internal/calendar"
	"github.com/username/pzl-reminder/pkg/dateutil"
)

const notificationTitle = "Незаполненные отчеты в Puzzle"

// Message is a rendered notification
type Message struct {
	Title string
	Body  string
}

// Render builds the notification text for a summary.
// The body carries an <a href> link; backends without markup flatten it.
func Render(summary Summary, username, reportsURL string) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n с %s по %s не хватает %s\n",
		username,
		dateutil.FormatDate(summary.Start),
		dateutil.FormatDate(summary.End),
		calendar.HoursAmount(summary.Deficit()))
	fmt.Fprintf(&b, "<a href=\"%s\">Puzzle reports</a>\n", reportsURL)

	if n := len(summary.Missing); n > 0 {
		fmt.Fprintf(&b, "%d %s с замечаниями:\n", n, calendar.Days(n))
		for _, day := range summary.Missing {
			fmt.Fprintf(&b, "%s: %s\n", dateutil.FormatDate(day.Date), day.Reason.Phrase())
		}
	}

	return Message{Title: notificationTitle, Body: b.String()}
}
