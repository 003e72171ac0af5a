package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
)

var packDate = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func studyEntries(entries []models.ScheduleEntry) []models.ScheduleEntry {
	var out []models.ScheduleEntry
	for _, e := range entries {
		if e.Kind == models.EntryKindStudy {
			out = append(out, e)
		}
	}
	return out
}

func TestPackSessionsSingleCandidate(t *testing.T) {
	entries := packSessions(packRequest{
		StudentID:     "stu-1",
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(8, 0)},
		Subjects:      []studySubject{{Name: "Math"}, {Name: "Physics"}},
		StudyDuration: 90,
		BreakDuration: 15,
		DayEnd:        hm(22, 0),
	})
	require.Len(t, entries, 2)

	assert.Equal(t, models.EntryKindStudy, entries[0].Kind)
	assert.Equal(t, "Math", entries[0].Title)
	require.NotNil(t, entries[0].Subject)
	assert.Equal(t, "Math", *entries[0].Subject)
	assert.Equal(t, hm(8, 0), entries[0].StartTime)
	assert.Equal(t, hm(9, 30), entries[0].EndTime)
	assert.Equal(t, models.PriorityNormal, entries[0].Priority)
	assert.Equal(t, models.StudyColor, *entries[0].Color)

	assert.Equal(t, models.EntryKindBreak, entries[1].Kind)
	assert.Equal(t, hm(9, 30), entries[1].StartTime)
	assert.Equal(t, hm(9, 45), entries[1].EndTime)
	assert.Equal(t, models.BreakColor, *entries[1].Color)
}

func TestPackSessionsRoundRobin(t *testing.T) {
	entries := packSessions(packRequest{
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(8, 0), hm(10, 0), hm(12, 0), hm(14, 0), hm(16, 0), hm(18, 0)},
		Subjects:      []studySubject{{Name: "A"}, {Name: "B"}},
		StudyDuration: 90,
		DayEnd:        hm(22, 0),
	})
	titles := make([]string, 0, len(entries))
	for _, e := range studyEntries(entries) {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"A", "B", "A", "B"}, titles, "two sessions per subject at most")
}

func TestPackSessionsSkippedCandidateConsumesTurn(t *testing.T) {
	entries := packSessions(packRequest{
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(21, 0), hm(8, 0)},
		Subjects:      []studySubject{{Name: "A"}, {Name: "B"}},
		StudyDuration: 90,
		DayEnd:        hm(22, 0),
	})
	sessions := studyEntries(entries)
	require.Len(t, sessions, 1)
	assert.Equal(t, "B", sessions[0].Title)
	assert.Equal(t, hm(8, 0), sessions[0].StartTime)
}

func TestPackSessionsNeverEndPastDayEnd(t *testing.T) {
	entries := packSessions(packRequest{
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(20, 0), hm(20, 31), hm(21, 0)},
		Subjects:      []studySubject{{Name: "A"}, {Name: "B"}},
		StudyDuration: 90,
		BreakDuration: 15,
		DayEnd:        hm(22, 0),
	})
	for _, e := range entries {
		assert.LessOrEqual(t, e.EndTime, hm(22, 0))
	}
	sessions := studyEntries(entries)
	require.Len(t, sessions, 1)
	assert.Equal(t, hm(21, 30), sessions[0].EndTime)
}

func TestPackSessionsBreakOnlyWhenItFits(t *testing.T) {
	entries := packSessions(packRequest{
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(20, 30)},
		Subjects:      []studySubject{{Name: "A"}},
		StudyDuration: 90,
		BreakDuration: 15,
		DayEnd:        hm(22, 0),
	})
	require.Len(t, entries, 1, "session ends exactly at day end so the break is dropped")
	assert.Equal(t, hm(22, 0), entries[0].EndTime)

	entries = packSessions(packRequest{
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(8, 0)},
		Subjects:      []studySubject{{Name: "A"}},
		StudyDuration: 90,
		BreakDuration: 0,
		DayEnd:        hm(22, 0),
	})
	assert.Len(t, entries, 1, "zero break duration emits no break")
}

func TestPackSessionsPassesPriorityThrough(t *testing.T) {
	entries := packSessions(packRequest{
		Date:          packDate,
		Candidates:    []clock.TimeOfDay{hm(8, 0), hm(12, 0)},
		Subjects:      []studySubject{{Name: "A", Priority: models.PriorityUrgent}, {Name: "B", Priority: models.PriorityHigh}},
		StudyDuration: 60,
		DayEnd:        hm(22, 0),
	})
	require.Len(t, entries, 2)
	assert.Equal(t, models.PriorityUrgent, entries[0].Priority)
	assert.Equal(t, models.PriorityHigh, entries[1].Priority)
}

func TestPackSessionsNoSubjects(t *testing.T) {
	assert.Empty(t, packSessions(packRequest{Candidates: []clock.TimeOfDay{hm(8, 0)}, StudyDuration: 90, DayEnd: hm(22, 0)}))
}
