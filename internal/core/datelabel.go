package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dates travel through the system as short display labels ("Apr 15") rather
// than calendar dates. Everything that interprets those labels lives here so
// the comparison rules can be swapped for real date ranges in one place.
//
// Labels carry no year: two "Apr" labels a year apart compare equal.

// MonthLabel is a three-letter English month abbreviation, e.g. "Apr".
type MonthLabel string

// MonthOf returns the month label of t.
func MonthOf(t time.Time) MonthLabel {
	return MonthLabel(t.Month().String()[:3])
}

// DateLabel is a parsed "<Month> <Day>" transaction date.
type DateLabel struct {
	Month MonthLabel
	Day   int
}

// ParseDateLabel parses labels of the form "Apr 15".
func ParseDateLabel(s string) (DateLabel, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return DateLabel{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil || day < 1 || day > 31 {
		return DateLabel{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateLabel{Month: MonthLabel(fields[0]), Day: day}, nil
}

// MonthOfLabel returns the month part of a date label without validating the
// day, mirroring how ledger dates are compared against the current month.
func MonthOfLabel(s string) MonthLabel {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return MonthLabel(fields[0])
}

// String formats the label back to "Apr 15".
func (d DateLabel) String() string {
	return fmt.Sprintf("%s %d", d.Month, d.Day)
}

// LabelFor formats t as a transaction date label.
func LabelFor(t time.Time) string {
	return DateLabel{Month: MonthOf(t), Day: t.Day()}.String()
}

// WeekRange is a weekly bucket label "<M> <d1> - <M> <d2>".
type WeekRange struct {
	StartMonth MonthLabel
	StartDay   int
	EndMonth   MonthLabel
	EndDay     int
}

// ParseWeekRange parses a weekly chart bucket name.
func ParseWeekRange(s string) (WeekRange, bool) {
	parts := strings.Split(s, " - ")
	if len(parts) != 2 {
		return WeekRange{}, false
	}
	start, err := ParseDateLabel(parts[0])
	if err != nil {
		return WeekRange{}, false
	}
	end, err := ParseDateLabel(parts[1])
	if err != nil {
		return WeekRange{}, false
	}
	return WeekRange{
		StartMonth: start.Month,
		StartDay:   start.Day,
		EndMonth:   end.Month,
		EndDay:     end.Day,
	}, true
}

// Contains compares day numbers only; the month parts are not consulted.
func (w WeekRange) Contains(day int) bool {
	return day >= w.StartDay && day <= w.EndDay
}

func (w WeekRange) String() string {
	return fmt.Sprintf("%s %d - %s %d", w.StartMonth, w.StartDay, w.EndMonth, w.EndDay)
}

// DaysIn returns the number of days in the month containing t.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
