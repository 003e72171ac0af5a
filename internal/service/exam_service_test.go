package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type examRepoStub struct {
	exams   map[string]*models.Exam
	created []*models.Exam
	updated []*models.Exam
	deleted []string
}

func (s *examRepoStub) ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error) {
	var out []models.Exam
	for _, e := range s.exams {
		if e.StudentID == studentID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *examRepoStub) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	e, ok := s.exams[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (s *examRepoStub) Create(ctx context.Context, exam *models.Exam) error {
	s.created = append(s.created, exam)
	return nil
}

func (s *examRepoStub) Update(ctx context.Context, exam *models.Exam) error {
	s.updated = append(s.updated, exam)
	return nil
}

func (s *examRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func newExamTestService(repo *examRepoStub) *ExamService {
	svc := NewExamService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestExamServiceCreate(t *testing.T) {
	repo := &examRepoStub{}
	svc := newExamTestService(repo)

	exam, err := svc.Create(context.Background(), dto.CreateExamRequest{
		StudentID: "stu-1", Subject: "Math", ExamDate: "2025-01-10", StartTime: "09:00", EndTime: "11:00",
	})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), exam.ExamDate)
	assert.Equal(t, hm(9, 0), exam.StartTime)
}

func TestExamServiceCreateMalformedDateFallsBackToToday(t *testing.T) {
	svc := newExamTestService(&examRepoStub{})

	exam, err := svc.Create(context.Background(), dto.CreateExamRequest{
		StudentID: "stu-1", Subject: "Math", ExamDate: "next friday", StartTime: "09:00", EndTime: "11:00",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC), exam.ExamDate)
}

func TestExamServiceCreateRejectsInvertedTimes(t *testing.T) {
	svc := newExamTestService(&examRepoStub{})

	_, err := svc.Create(context.Background(), dto.CreateExamRequest{
		StudentID: "stu-1", Subject: "Math", ExamDate: "2025-01-10", StartTime: "11:00", EndTime: "09:00",
	})
	assertAppErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestExamServiceUpdateAndDelete(t *testing.T) {
	repo := &examRepoStub{exams: map[string]*models.Exam{
		"e1": {ID: "e1", StudentID: "stu-1", Subject: "Math", StartTime: hm(9, 0), EndTime: hm(11, 0)},
	}}
	svc := newExamTestService(repo)

	sent := true
	location := "Hall B"
	exam, err := svc.Update(context.Background(), studentActor, "e1", dto.UpdateExamRequest{ReminderSent: &sent, Location: &location})
	require.NoError(t, err)
	assert.True(t, exam.ReminderSent)
	assert.Equal(t, "Hall B", *exam.Location)

	other := Actor{UserID: "stu-9", Role: models.RoleStudent}
	err = svc.Delete(context.Background(), other, "e1")
	assertAppErrorCode(t, err, appErrors.ErrForbidden.Code)

	require.NoError(t, svc.Delete(context.Background(), studentActor, "e1"))
	assert.Equal(t, []string{"e1"}, repo.deleted)

	_, err = svc.Update(context.Background(), studentActor, "missing", dto.UpdateExamRequest{})
	assertAppErrorCode(t, err, appErrors.ErrNotFound.Code)
}
