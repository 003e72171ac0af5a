package service

import (
	"time"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
)

const breakTitle = "Break"

// studySubject is one subject in the round-robin rotation.
type studySubject struct {
	Name     string
	Priority models.Priority
}

// packRequest describes one day of session packing.
type packRequest struct {
	StudentID     string
	Date          time.Time
	Candidates    []clock.TimeOfDay
	Subjects      []studySubject
	StudyDuration int
	BreakDuration int
	DayEnd        clock.TimeOfDay
}

// packSessions assigns subjects round-robin to candidate starts, at most two
// sessions per subject. A session that would end after DayEnd is skipped and
// its index still consumes a rotation turn. A break follows a session only when
// it also fits before DayEnd.
func packSessions(req packRequest) []models.ScheduleEntry {
	n := len(req.Subjects)
	if n == 0 || req.StudyDuration <= 0 {
		return nil
	}

	var entries []models.ScheduleEntry
	for i, start := range req.Candidates {
		if i >= 2*n {
			break
		}
		subject := req.Subjects[i%n]
		sessionEnd := clock.AddMinutes(start, req.StudyDuration)
		if sessionEnd > req.DayEnd {
			continue
		}

		name := subject.Name
		studyColor := models.StudyColor
		priority := subject.Priority
		if !priority.Valid() {
			priority = models.PriorityNormal
		}
		entries = append(entries, models.ScheduleEntry{
			StudentID: req.StudentID,
			Date:      req.Date,
			StartTime: start,
			EndTime:   sessionEnd,
			Title:     name,
			Kind:      models.EntryKindStudy,
			Subject:   &name,
			Priority:  priority,
			Color:     &studyColor,
		})

		if req.BreakDuration <= 0 {
			continue
		}
		breakEnd := clock.AddMinutes(sessionEnd, req.BreakDuration)
		if breakEnd > req.DayEnd {
			continue
		}
		breakColor := models.BreakColor
		entries = append(entries, models.ScheduleEntry{
			StudentID: req.StudentID,
			Date:      req.Date,
			StartTime: sessionEnd,
			EndTime:   breakEnd,
			Title:     breakTitle,
			Kind:      models.EntryKindBreak,
			Priority:  models.PriorityNormal,
			Color:     &breakColor,
		})
	}
	return entries
}
