package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/internal/service"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type examManagerMock struct {
	created   dto.CreateExamRequest
	updateErr error
}

func (m *examManagerMock) List(ctx context.Context, studentID string) ([]models.Exam, error) {
	return nil, nil
}

func (m *examManagerMock) Create(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	m.created = req
	return &models.Exam{ID: "e-new", StudentID: req.StudentID, Subject: req.Subject}, nil
}

func (m *examManagerMock) Update(ctx context.Context, actor service.Actor, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return &models.Exam{ID: id}, nil
}

func (m *examManagerMock) Delete(ctx context.Context, actor service.Actor, id string) error {
	return nil
}

func examRouter(claims *models.JWTClaims, mock *examManagerMock) http.Handler {
	h := &ExamHandler{service: mock}
	r := newTestRouter(claims)
	r.GET("/exams", h.List)
	r.POST("/exam", h.Create)
	r.PUT("/exam/:id", h.Update)
	r.DELETE("/exam/:id", h.Delete)
	return r
}

func TestExamHandlerCreateAsAdminForStudent(t *testing.T) {
	mock := &examManagerMock{}
	body := `{"student_id":"stu-3","subject":"Math","exam_date":"2025-01-10","start_time":"09:00","end_time":"11:00"}`
	w := perform(examRouter(adminClaims, mock), http.MethodPost, "/exam", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "stu-3", mock.created.StudentID)
}

func TestExamHandlerListEmpty(t *testing.T) {
	w := perform(examRouter(studentClaims, &examManagerMock{}), http.MethodGet, "/exams", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestExamHandlerUpdateForbidden(t *testing.T) {
	mock := &examManagerMock{updateErr: appErrors.Clone(appErrors.ErrForbidden, "exam belongs to another student")}
	w := perform(examRouter(studentClaims, mock), http.MethodPut, "/exam/e1", `{"subject":"Physics"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrForbidden.Code, errorCode(t, w))
}

func TestExamHandlerDelete(t *testing.T) {
	w := perform(examRouter(studentClaims, &examManagerMock{}), http.MethodDelete, "/exam/e1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
