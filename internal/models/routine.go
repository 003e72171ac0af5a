package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/study-planner-api/pkg/clock"
)

// DefaultRoutineColor is applied when a routine is created without a colour.
const DefaultRoutineColor = "#9333ea"

// Routine is a recurring activity occupying the same time of day on selected weekdays.
type Routine struct {
	ID        string          `db:"id" json:"id"`
	StudentID string          `db:"student_id" json:"student_id"`
	Name      string          `db:"name" json:"name"`
	StartTime clock.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime   clock.TimeOfDay `db:"end_time" json:"end_time"`
	Days      pq.StringArray  `db:"days" json:"days"`
	Active    bool            `db:"is_active" json:"is_active"`
	Color     string          `db:"color" json:"color"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// OccursOn reports whether the routine is active on the weekday of date.
func (r Routine) OccursOn(date time.Time) bool {
	if !r.Active {
		return false
	}
	label := clock.WeekdayLabel(date)
	for _, day := range r.Days {
		if day == label {
			return true
		}
	}
	return false
}
