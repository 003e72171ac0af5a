package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type examRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error)
	FindByID(ctx context.Context, id string) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, id string) error
}

// ExamService manages dated exams.
type ExamService struct {
	repo      examRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExamService creates a new exam service.
func NewExamService(repo examRepository, validate *validator.Validate, logger *zap.Logger) *ExamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExamService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns every exam of a student ordered by date.
func (s *ExamService) List(ctx context.Context, studentID string) ([]models.Exam, error) {
	exams, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list exams")
	}
	if exams == nil {
		exams = []models.Exam{}
	}
	return exams, nil
}

// Create registers an exam for the request's student.
func (s *ExamService) Create(ctx context.Context, req dto.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	exam := &models.Exam{
		StudentID: req.StudentID,
		Subject:   req.Subject,
		ExamDate:  clock.ParseDate(req.ExamDate, s.now()),
		StartTime: clock.ParseTime(req.StartTime),
		EndTime:   clock.ParseTime(req.EndTime),
		Location:  req.Location,
		Notes:     req.Notes,
	}
	if exam.EndTime <= exam.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if err := s.repo.Create(ctx, exam); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create exam")
	}
	return exam, nil
}

// Update applies a partial change to an exam.
func (s *ExamService) Update(ctx context.Context, actor Actor, id string, req dto.UpdateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}

	exam, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.ExamDate != nil {
		exam.ExamDate = clock.ParseDate(*req.ExamDate, s.now())
	}
	if req.StartTime != nil {
		exam.StartTime = clock.ParseTime(*req.StartTime)
	}
	if req.EndTime != nil {
		exam.EndTime = clock.ParseTime(*req.EndTime)
	}
	if req.Location != nil {
		exam.Location = req.Location
	}
	if req.Notes != nil {
		exam.Notes = req.Notes
	}
	if req.ReminderSent != nil {
		exam.ReminderSent = *req.ReminderSent
	}
	if exam.EndTime <= exam.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if err := s.repo.Update(ctx, exam); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update exam")
	}
	return exam, nil
}

// Delete removes an exam permanently.
func (s *ExamService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete exam")
	}
	return nil
}

func (s *ExamService) load(ctx context.Context, actor Actor, id string) (*models.Exam, error) {
	exam, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "exam not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam")
	}
	if !actor.CanAccess(exam.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exam belongs to another student")
	}
	return exam, nil
}
