package models

import (
	"time"

	"github.com/lib/pq"
)

// ScheduleAnalytics aggregates planned versus completed study time for one date.
type ScheduleAnalytics struct {
	ID                string         `db:"id" json:"id"`
	StudentID         string         `db:"student_id" json:"student_id"`
	Date              time.Time      `db:"date" json:"date"`
	PlannedStudyHours float64        `db:"planned_study_hours" json:"planned_study_hours"`
	ActualStudyHours  float64        `db:"actual_study_hours" json:"actual_study_hours"`
	CompletionRate    float64        `db:"completion_rate" json:"completion_rate"`
	SubjectsCovered   pq.StringArray `db:"subjects_covered" json:"subjects_covered"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}
