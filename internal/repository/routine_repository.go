package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-planner-api/internal/models"
)

const routineColumns = `id, student_id, name, start_time, end_time, days, is_active, color, created_at, updated_at`

// RoutineRepository provides database access for recurring routines.
type RoutineRepository struct {
	db *sqlx.DB
}

// NewRoutineRepository creates a new instance of RoutineRepository.
func NewRoutineRepository(db *sqlx.DB) *RoutineRepository {
	return &RoutineRepository{db: db}
}

// ListActiveByStudent returns the active routines of a student ordered by start time.
func (r *RoutineRepository) ListActiveByStudent(ctx context.Context, studentID string) ([]models.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE student_id = $1 AND is_active = TRUE ORDER BY start_time ASC, created_at ASC`
	var routines []models.Routine
	if err := r.db.SelectContext(ctx, &routines, query, studentID); err != nil {
		return nil, fmt.Errorf("list active routines: %w", err)
	}
	return routines, nil
}

// FindByID returns a routine by identifier.
func (r *RoutineRepository) FindByID(ctx context.Context, id string) (*models.Routine, error) {
	query := `SELECT ` + routineColumns + ` FROM routines WHERE id = $1 LIMIT 1`
	var routine models.Routine
	if err := r.db.GetContext(ctx, &routine, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find routine by id: %w", err)
	}
	return &routine, nil
}

// Create inserts a new routine.
func (r *RoutineRepository) Create(ctx context.Context, routine *models.Routine) error {
	if routine.ID == "" {
		routine.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if routine.CreatedAt.IsZero() {
		routine.CreatedAt = now
	}
	routine.UpdatedAt = now

	const query = `INSERT INTO routines (id, student_id, name, start_time, end_time, days, is_active, color, created_at, updated_at) VALUES (:id, :student_id, :name, :start_time, :end_time, :days, :is_active, :color, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, routine); err != nil {
		return fmt.Errorf("create routine: %w", err)
	}
	return nil
}

// Update persists changes to an existing routine.
func (r *RoutineRepository) Update(ctx context.Context, routine *models.Routine) error {
	routine.UpdatedAt = time.Now().UTC()
	const query = `UPDATE routines SET name = :name, start_time = :start_time, end_time = :end_time, days = :days, is_active = :is_active, color = :color, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, routine)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated routine rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Deactivate soft deletes a routine by clearing its active flag.
func (r *RoutineRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE routines SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate routine: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deactivated routine rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
