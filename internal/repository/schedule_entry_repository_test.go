package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
)

var scheduleEntryColumnNames = []string{"id", "student_id", "date", "start_time", "end_time", "title", "description", "kind", "subject", "is_completed", "completion_notes", "priority", "color", "created_at", "updated_at"}

func studyEntry(date time.Time, start, end clock.TimeOfDay, subject string) models.ScheduleEntry {
	color := models.StudyColor
	return models.ScheduleEntry{
		StudentID: "stu-1",
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Title:     "Study: " + subject,
		Kind:      models.EntryKindStudy,
		Subject:   &subject,
		Priority:  models.PriorityNormal,
		Color:     &color,
	}
}

func TestScheduleEntryRepositoryListByStudentRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	rows := sqlmock.NewRows(scheduleEntryColumnNames).
		AddRow("s1", "stu-1", day, "08:00:00", "09:30:00", "Study: Math", nil, "study", "Math", false, nil, 2, models.StudyColor, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries WHERE student_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC, start_time ASC")).
		WithArgs("stu-1", day, day).
		WillReturnRows(rows)

	entries, err := repo.ListByStudentRange(context.Background(), "stu-1", day, day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntryKindStudy, entries[0].Kind)
	assert.Equal(t, models.PriorityHigh, entries[0].Priority)
	assert.Equal(t, 90, entries[0].DurationMinutes())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryListFiltersKinds(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM schedule_entries WHERE student_id = $1 AND kind = ANY($2) ORDER BY date ASC")).
		WithArgs("stu-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(scheduleEntryColumnNames))

	entries, err := repo.List(context.Background(), models.ScheduleEntryFilter{StudentID: "stu-1", Kinds: []models.EntryKind{models.EntryKindExam}})
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryReplaceStudyEntries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{
		studyEntry(day, clock.NewTimeOfDay(8, 0), clock.NewTimeOfDay(9, 30), "Math"),
		studyEntry(day, clock.NewTimeOfDay(10, 0), clock.NewTimeOfDay(11, 30), "Physics"),
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries WHERE student_id = $1 AND date >= $2 AND date <= $3 AND kind = ANY($4)")).
		WithArgs("stu-1", day, day, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_entries")).
		WithArgs(sqlmock.AnyArg(), "stu-1", day, "08:00:00", "09:30:00", "Study: Math", nil, "study", "Math", false, nil, 1, models.StudyColor, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_entries")).
		WithArgs(sqlmock.AnyArg(), "stu-1", day, "10:00:00", "11:30:00", "Study: Physics", nil, "study", "Physics", false, nil, 1, models.StudyColor, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	created, err := repo.ReplaceStudyEntries(context.Background(), "stu-1", day, day, entries)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.NotEmpty(t, entries[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryReplaceStudyEntriesRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{studyEntry(day, clock.NewTimeOfDay(8, 0), clock.NewTimeOfDay(9, 30), "Math")}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schedule_entries")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	created, err := repo.ReplaceStudyEntries(context.Background(), "stu-1", day, day, entries)
	require.Error(t, err)
	assert.Zero(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleEntryRepositoryReplaceRejectsInvalidTime(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScheduleEntryRepository(db)

	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	entries := []models.ScheduleEntry{studyEntry(day, clock.NewTimeOfDay(23, 0), clock.NewTimeOfDay(24, 30), "Math")}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM schedule_entries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.ReplaceStudyEntries(context.Background(), "stu-1", day, day, entries)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
