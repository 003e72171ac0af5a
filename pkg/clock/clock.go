package clock

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// MinutesPerDay bounds a valid wall-clock time of day.
	MinutesPerDay = 24 * 60

	// DateLayout is the ISO 8601 calendar date format used on the wire.
	DateLayout = "2006-01-02"
	// TimeLayout is the 24-hour time of day format used on the wire.
	TimeLayout = "15:04"
)

// Midnight is the zero time of day and the fallback for malformed times.
const Midnight TimeOfDay = 0

// ErrOutOfRange is returned when a minute offset does not map to a wall-clock time.
var ErrOutOfRange = errors.New("minute offset outside 00:00-23:59")

// TimeOfDay is a naive wall-clock time expressed as minutes since midnight.
// Arithmetic does not wrap, so a value may exceed 24:00 and is expected to be
// rejected by callers comparing it against a window end.
type TimeOfDay int

// NewTimeOfDay builds a time of day from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

// TimeToMinutes returns minutes since midnight.
func TimeToMinutes(t TimeOfDay) int {
	return int(t)
}

// MinutesToTime converts minutes since midnight into a wall-clock time.
func MinutesToTime(m int) (TimeOfDay, error) {
	if m < 0 || m >= MinutesPerDay {
		return Midnight, fmt.Errorf("%d: %w", m, ErrOutOfRange)
	}
	return TimeOfDay(m), nil
}

// DiffMinutes returns b - a in minutes. The result is negative when b precedes a.
func DiffMinutes(a, b TimeOfDay) int {
	return TimeToMinutes(b) - TimeToMinutes(a)
}

// AddMinutes shifts t by m minutes without wrapping past midnight.
func AddMinutes(t TimeOfDay, m int) TimeOfDay {
	return t + TimeOfDay(m)
}

// Add is a method form of AddMinutes.
func (t TimeOfDay) Add(m int) TimeOfDay {
	return AddMinutes(t, m)
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Valid reports whether t is a real wall-clock time.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && int(t) < MinutesPerDay
}

// String formats t as HH:MM. Values past midnight keep counting hours (24:30).
func (t TimeOfDay) String() string {
	m := int(t)
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s%02d:%02d", sign, m/60, m%60)
}

// MarshalJSON renders the time as "HH:MM".
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts "HH:MM" and applies DefaultPolicy on malformed input.
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}
	parsed, err := DefaultPolicy.ParseTime(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Midnight
		return nil
	case time.Time:
		*t = NewTimeOfDay(v.Hour(), v.Minute())
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t *TimeOfDay) scanString(raw string) error {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"15:04:05", TimeLayout, "15:04:05.999999"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = NewTimeOfDay(parsed.Hour(), parsed.Minute())
			return nil
		}
	}
	return fmt.Errorf("invalid TIME value %q", raw)
}

// Value implements driver.Valuer storing the time as HH:MM:00.
func (t TimeOfDay) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%s: %w", t, ErrOutOfRange)
	}
	return t.String() + ":00", nil
}
