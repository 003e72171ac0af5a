package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/pkg/clock"
)

var examColumnNames = []string{"id", "student_id", "subject", "exam_date", "start_time", "end_time", "location", "notes", "reminder_sent", "created_at", "updated_at"}

func TestExamRepositoryListByStudentRange(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)
	now := time.Now()
	rows := sqlmock.NewRows(examColumnNames).
		AddRow("e1", "stu-1", "Chemistry", start.AddDate(0, 0, 2), "10:00:00", "12:00:00", "Hall B", nil, false, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM exams WHERE student_id = $1 AND exam_date >= $2 AND exam_date <= $3")).
		WithArgs("stu-1", start, end).
		WillReturnRows(rows)

	exams, err := repo.ListByStudentRange(context.Background(), "stu-1", start, end)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, "Chemistry", exams[0].Subject)
	assert.Equal(t, clock.NewTimeOfDay(10, 0), exams[0].StartTime)
	require.NotNil(t, exams[0].Location)
	assert.Equal(t, "Hall B", *exams[0].Location)
	assert.Nil(t, exams[0].Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM exams WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExamRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewExamRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exams WHERE id = $1")).
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exams WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
