package service

import (
	"time"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
)

// busyInterval is a half-open [Start, End) block of occupied time on one date.
type busyInterval struct {
	Start  clock.TimeOfDay
	End    clock.TimeOfDay
	Source models.EntryKind
	Label  string
	RefID  string
}

func (b busyInterval) valid() bool {
	return b.End > b.Start
}

// resolveOccupancy lists the busy intervals of date. Routines count on their
// weekdays while active, exams on their own date, and resident entries of kinds
// that survive regeneration count as stored. Intervals are neither sorted nor merged.
func resolveOccupancy(date time.Time, routines []models.Routine, exams []models.Exam, resident []models.ScheduleEntry) []busyInterval {
	var busy []busyInterval
	for _, routine := range routines {
		if !routine.OccursOn(date) {
			continue
		}
		busy = append(busy, busyInterval{
			Start:  routine.StartTime,
			End:    routine.EndTime,
			Source: models.EntryKindRoutine,
			Label:  routine.Name,
			RefID:  routine.ID,
		})
	}
	for _, exam := range exams {
		if !exam.OccursOn(date) {
			continue
		}
		busy = append(busy, busyInterval{
			Start:  exam.StartTime,
			End:    exam.EndTime,
			Source: models.EntryKindExam,
			Label:  examTitle(exam),
			RefID:  exam.ID,
		})
	}
	for _, entry := range resident {
		if entry.Kind.Regenerated() || !clock.SameDate(entry.Date, date) {
			continue
		}
		busy = append(busy, busyInterval{
			Start:  entry.StartTime,
			End:    entry.EndTime,
			Source: entry.Kind,
			Label:  entry.Title,
			RefID:  entry.ID,
		})
	}
	return busy
}

func examTitle(exam models.Exam) string {
	return exam.Subject + " Exam"
}
