package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
)

var routineColumnNames = []string{"id", "student_id", "name", "start_time", "end_time", "days", "is_active", "color", "created_at", "updated_at"}

func TestRoutineRepositoryListActiveByStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(routineColumnNames).
		AddRow("r1", "stu-1", "Gym", "07:00:00", "08:30:00", "{Mon,Wed}", true, models.DefaultRoutineColor, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM routines WHERE student_id = $1 AND is_active = TRUE ORDER BY start_time ASC")).
		WithArgs("stu-1").
		WillReturnRows(rows)

	routines, err := repo.ListActiveByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, routines, 1)
	assert.Equal(t, clock.NewTimeOfDay(7, 0), routines[0].StartTime)
	assert.Equal(t, clock.NewTimeOfDay(8, 30), routines[0].EndTime)
	assert.Equal(t, pq.StringArray{"Mon", "Wed"}, routines[0].Days)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO routines")).
		WithArgs(sqlmock.AnyArg(), "stu-1", "Gym", "07:00:00", "08:30:00", "{\"Mon\",\"Wed\"}", true, "#9333ea", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	routine := &models.Routine{
		StudentID: "stu-1",
		Name:      "Gym",
		StartTime: clock.NewTimeOfDay(7, 0),
		EndTime:   clock.NewTimeOfDay(8, 30),
		Days:      pq.StringArray{"Mon", "Wed"},
		Active:    true,
		Color:     models.DefaultRoutineColor,
	}
	require.NoError(t, repo.Create(context.Background(), routine))
	assert.NotEmpty(t, routine.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE routines SET name")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Routine{ID: "missing", Days: pq.StringArray{"Mon"}, EndTime: clock.NewTimeOfDay(9, 0)})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoutineRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRoutineRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE routines SET is_active = FALSE")).
		WithArgs("r1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE routines SET is_active = FALSE")).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Deactivate(context.Background(), "r1"))
	assert.ErrorIs(t, repo.Deactivate(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
