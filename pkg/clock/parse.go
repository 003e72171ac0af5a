package clock

import (
	"fmt"
	"strings"
	"time"
)

// Policy decides what happens to malformed date and time strings.
type Policy int

const (
	// Permissive falls back to midnight for times and today for dates.
	Permissive Policy = iota
	// Strict surfaces parse errors to the caller.
	Strict
)

// DefaultPolicy is the policy applied by ParseTime, ParseDate and the JSON codec.
// Clients rely on the permissive fallback; switch to Strict to tighten input handling.
const DefaultPolicy = Permissive

// ParseTime parses "HH:MM" according to the policy.
func (p Policy) ParseTime(raw string) (TimeOfDay, error) {
	parsed, err := time.Parse(TimeLayout, strings.TrimSpace(raw))
	if err != nil {
		if p == Permissive {
			return Midnight, nil
		}
		return Midnight, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return NewTimeOfDay(parsed.Hour(), parsed.Minute()), nil
}

// ParseDate parses "YYYY-MM-DD" according to the policy. now supplies "today".
func (p Policy) ParseDate(raw string, now time.Time) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		if p == Permissive {
			return DateOf(now), nil
		}
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return parsed, nil
}

// ParseTime parses "HH:MM" using DefaultPolicy.
func ParseTime(raw string) TimeOfDay {
	t, _ := DefaultPolicy.ParseTime(raw)
	return t
}

// ParseDate parses "YYYY-MM-DD" using DefaultPolicy.
func ParseDate(raw string, now time.Time) time.Time {
	d, err := DefaultPolicy.ParseDate(raw, now)
	if err != nil {
		return DateOf(now)
	}
	return d
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// FormatTime renders a time of day as HH:MM.
func FormatTime(t TimeOfDay) string {
	return t.String()
}

// DateOf strips the clock from t, keeping its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

var weekdayLabels = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayLabels returns the routine day labels in Monday-first order.
func WeekdayLabels() []string {
	out := make([]string, len(weekdayLabels))
	copy(out, weekdayLabels[:])
	return out
}

// IsWeekdayLabel reports whether s is one of Mon..Sun (case-sensitive).
func IsWeekdayLabel(s string) bool {
	for _, label := range weekdayLabels {
		if label == s {
			return true
		}
	}
	return false
}

// mondayIndex maps time.Weekday onto a Monday-first index.
func mondayIndex(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// WeekdayLabel returns the three-letter label of d's weekday.
func WeekdayLabel(d time.Time) string {
	return weekdayLabels[mondayIndex(d)]
}

// WeekdayName returns the full English name of d's weekday.
func WeekdayName(d time.Time) string {
	return weekdayNames[mondayIndex(d)]
}

// WeekDates returns the seven dates of the Monday-based week containing d.
func WeekDates(d time.Time) [7]time.Time {
	monday := DateOf(d).AddDate(0, 0, -mondayIndex(d))
	var week [7]time.Time
	for i := range week {
		week[i] = monday.AddDate(0, 0, i)
	}
	return week
}
