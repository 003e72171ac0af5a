package clock

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinuteArithmetic(t *testing.T) {
	eight := NewTimeOfDay(8, 0)
	assert.Equal(t, 480, TimeToMinutes(eight))
	assert.Equal(t, 90, DiffMinutes(eight, NewTimeOfDay(9, 30)))
	assert.Equal(t, -90, DiffMinutes(NewTimeOfDay(9, 30), eight))
	assert.Equal(t, NewTimeOfDay(9, 30), AddMinutes(eight, 90))
	assert.Equal(t, "09:30", eight.Add(90).String())
}

func TestAddMinutesDoesNotWrap(t *testing.T) {
	late := AddMinutes(NewTimeOfDay(23, 0), 90)
	assert.Equal(t, 24*60+30, late.Minutes())
	assert.False(t, late.Valid())
	assert.Equal(t, "24:30", late.String())
}

func TestMinutesToTime(t *testing.T) {
	got, err := MinutesToTime(75)
	require.NoError(t, err)
	assert.Equal(t, "01:15", got.String())

	_, err = MinutesToTime(MinutesPerDay)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = MinutesToTime(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseTimePermissive(t *testing.T) {
	assert.Equal(t, NewTimeOfDay(14, 5), ParseTime("14:05"))
	assert.Equal(t, NewTimeOfDay(8, 0), ParseTime("8:00"))
	assert.Equal(t, Midnight, ParseTime("25:00"))
	assert.Equal(t, Midnight, ParseTime("noon"))
	assert.Equal(t, Midnight, ParseTime(""))
}

func TestParseTimeStrict(t *testing.T) {
	_, err := Strict.ParseTime("garbage")
	assert.Error(t, err)

	got, err := Strict.ParseTime("07:45")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(7, 45), got)
}

func TestParseDateFallsBackToToday(t *testing.T) {
	now := time.Date(2026, 3, 4, 17, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), ParseDate("03/04/2026", now))
	assert.Equal(t, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), ParseDate("2025-12-31", now))

	_, err := Strict.ParseDate("nope", now)
	assert.Error(t, err)
}

func TestWeekdayLabels(t *testing.T) {
	// 2025-01-06 is a Monday.
	monday := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon", WeekdayLabel(monday))
	assert.Equal(t, "Sun", WeekdayLabel(monday.AddDate(0, 0, 6)))
	assert.Equal(t, "Wednesday", WeekdayName(monday.AddDate(0, 0, 2)))
	assert.True(t, IsWeekdayLabel("Fri"))
	assert.False(t, IsWeekdayLabel("fri"))
	assert.Equal(t, []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}, WeekdayLabels())
}

func TestWeekDatesStartsMonday(t *testing.T) {
	sunday := time.Date(2025, 1, 12, 15, 0, 0, 0, time.UTC)
	week := WeekDates(sunday)
	assert.Equal(t, "2025-01-06", FormatDate(week[0]))
	assert.Equal(t, "2025-01-12", FormatDate(week[6]))
}

func TestTimeOfDayJSON(t *testing.T) {
	var payload struct {
		Start TimeOfDay `json:"start"`
		End   TimeOfDay `json:"end"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"09:15","end":"bad"}`), &payload))
	assert.Equal(t, NewTimeOfDay(9, 15), payload.Start)
	assert.Equal(t, Midnight, payload.End)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:15","end":"00:00"}`, string(out))
}

func TestTimeOfDaySQLCodec(t *testing.T) {
	var tod TimeOfDay
	require.NoError(t, tod.Scan([]byte("13:45:00")))
	assert.Equal(t, NewTimeOfDay(13, 45), tod)
	require.NoError(t, tod.Scan("06:30"))
	assert.Equal(t, NewTimeOfDay(6, 30), tod)
	assert.Error(t, tod.Scan(42))

	v, err := NewTimeOfDay(22, 0).Value()
	require.NoError(t, err)
	assert.Equal(t, "22:00:00", v)

	_, err = AddMinutes(NewTimeOfDay(23, 0), 120).Value()
	assert.ErrorIs(t, err, ErrOutOfRange)
}
