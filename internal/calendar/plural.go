package calendar

import (
	"math"
	"strconv"
)

// Forms holds the three Russian noun forms used after a number:
// singular (1, 21), few (2-4, 22-24) and many (0, 5-20, 25-30).
type Forms struct {
	One  string
	Few  string
	Many string
}

var (
	// DayForms are the word forms for "day"
	DayForms = Forms{One: "день", Few: "дня", Many: "дней"}

	// HourForms are the word forms for "hour"
	HourForms = Forms{One: "час", Few: "часа", Many: "часов"}
)

// Plural selects the noun form that agrees with n
func Plural(n int, forms Forms) string {
	if n < 0 {
		n = -n
	}

	mod10 := n % 10
	mod100 := n % 100

	switch {
	case mod10 == 1 && mod100 != 11:
		return forms.One
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return forms.Few
	default:
		return forms.Many
	}
}

// Days returns the form of "day" for n
func Days(n int) string {
	return Plural(n, DayForms)
}

// Hours returns the form of "hour" for n
func Hours(n int) string {
	return Plural(n, HourForms)
}

// HoursAmount renders an hour quantity with its word, e.g. "5 часов".
// Fractional amounts take the "few" form ("7.5 часа"), as Russian does after a decimal.
func HoursAmount(hours float64) string {
	text := strconv.FormatFloat(hours, 'f', -1, 64)
	if hours != math.Trunc(hours) {
		return text + " " + HourForms.Few
	}
	return text + " " + Hours(int(hours))
}
