package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/study-planner-api/internal/models"
)

// AnalyticsRepository stores per-day study analytics.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// UpsertBatch writes one row per (student, date), replacing existing figures.
func (r *AnalyticsRepository) UpsertBatch(ctx context.Context, rows []models.ScheduleAnalytics) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin analytics upsert tx: %w", err)
	}
	const query = `INSERT INTO schedule_analytics (id, student_id, date, planned_study_hours, actual_study_hours, completion_rate, subjects_covered, created_at, updated_at)
VALUES (:id, :student_id, :date, :planned_study_hours, :actual_study_hours, :completion_rate, :subjects_covered, :created_at, :updated_at)
ON CONFLICT (student_id, date) DO UPDATE
SET planned_study_hours = EXCLUDED.planned_study_hours,
    actual_study_hours = EXCLUDED.actual_study_hours,
    completion_rate = EXCLUDED.completion_rate,
    subjects_covered = EXCLUDED.subjects_covered,
    updated_at = EXCLUDED.updated_at`

	now := time.Now().UTC()
	for i := range rows {
		row := &rows[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert schedule analytics: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit analytics upsert tx: %w", err)
	}
	return nil
}

// ListByStudentRange returns analytics rows of a student dated within [start, end].
func (r *AnalyticsRepository) ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ScheduleAnalytics, error) {
	const query = `SELECT id, student_id, date, planned_study_hours, actual_study_hours, completion_rate, subjects_covered, created_at, updated_at
FROM schedule_analytics WHERE student_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	var rows []models.ScheduleAnalytics
	if err := r.db.SelectContext(ctx, &rows, query, studentID, start, end); err != nil {
		return nil, fmt.Errorf("list schedule analytics: %w", err)
	}
	return rows, nil
}
