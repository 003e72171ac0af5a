package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type routineRepository interface {
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.Routine, error)
	FindByID(ctx context.Context, id string) (*models.Routine, error)
	Create(ctx context.Context, routine *models.Routine) error
	Update(ctx context.Context, routine *models.Routine) error
	Deactivate(ctx context.Context, id string) error
}

// RoutineService manages recurring routines.
type RoutineService struct {
	repo      routineRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoutineService creates a new routine service.
func NewRoutineService(repo routineRepository, validate *validator.Validate, logger *zap.Logger) *RoutineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoutineService{repo: repo, validator: validate, logger: logger}
}

// List returns the active routines of a student.
func (s *RoutineService) List(ctx context.Context, studentID string) ([]models.Routine, error) {
	routines, err := s.repo.ListActiveByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list routines")
	}
	if routines == nil {
		routines = []models.Routine{}
	}
	return routines, nil
}

// Create registers a routine for the request's student.
func (s *RoutineService) Create(ctx context.Context, req dto.CreateRoutineRequest) (*models.Routine, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine payload")
	}

	routine := &models.Routine{
		StudentID: req.StudentID,
		Name:      req.Name,
		StartTime: clock.ParseTime(req.StartTime),
		EndTime:   clock.ParseTime(req.EndTime),
		Days:      pq.StringArray(req.Days),
		Active:    true,
		Color:     req.Color,
	}
	if routine.Color == "" {
		routine.Color = models.DefaultRoutineColor
	}
	if routine.EndTime <= routine.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if err := s.repo.Create(ctx, routine); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create routine")
	}
	return routine, nil
}

// Update applies a partial change to a routine owned by a student the actor may access.
func (s *RoutineService) Update(ctx context.Context, actor Actor, id string, req dto.UpdateRoutineRequest) (*models.Routine, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid routine payload")
	}

	routine, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		routine.Name = *req.Name
	}
	if req.StartTime != nil {
		routine.StartTime = clock.ParseTime(*req.StartTime)
	}
	if req.EndTime != nil {
		routine.EndTime = clock.ParseTime(*req.EndTime)
	}
	if req.Days != nil {
		routine.Days = pq.StringArray(req.Days)
	}
	if req.Color != nil {
		routine.Color = *req.Color
	}
	if req.Active != nil {
		routine.Active = *req.Active
	}
	if routine.EndTime <= routine.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if err := s.repo.Update(ctx, routine); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "routine not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update routine")
	}
	return routine, nil
}

// Delete soft deletes a routine so it stops occupying time.
func (s *RoutineService) Delete(ctx context.Context, actor Actor, id string) error {
	if _, err := s.load(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "routine not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete routine")
	}
	return nil
}

func (s *RoutineService) load(ctx context.Context, actor Actor, id string) (*models.Routine, error) {
	routine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "routine not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
	}
	if !actor.CanAccess(routine.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "routine belongs to another student")
	}
	return routine, nil
}
