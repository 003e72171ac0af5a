package models

import (
	"time"

	"github.com/noah-isme/study-planner-api/pkg/clock"
)

// ExamColor is the fixed colour of generated exam entries.
const ExamColor = "#dc2626"

// Exam is a one-off dated appointment.
type Exam struct {
	ID           string          `db:"id" json:"id"`
	StudentID    string          `db:"student_id" json:"student_id"`
	Subject      string          `db:"subject" json:"subject"`
	ExamDate     time.Time       `db:"exam_date" json:"exam_date"`
	StartTime    clock.TimeOfDay `db:"start_time" json:"start_time"`
	EndTime      clock.TimeOfDay `db:"end_time" json:"end_time"`
	Location     *string         `db:"location" json:"location,omitempty"`
	Notes        *string         `db:"notes" json:"notes,omitempty"`
	ReminderSent bool            `db:"reminder_sent" json:"reminder_sent"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// OccursOn reports whether the exam is held on date.
func (e Exam) OccursOn(date time.Time) bool {
	return clock.SameDate(e.ExamDate, date)
}
