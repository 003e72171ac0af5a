package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/study-planner-api/internal/models"
)

const scheduleEntryColumns = `id, student_id, date, start_time, end_time, title, description, kind, subject, is_completed, completion_notes, priority, color, created_at, updated_at`

const insertScheduleEntryQuery = `INSERT INTO schedule_entries (id, student_id, date, start_time, end_time, title, description, kind, subject, is_completed, completion_notes, priority, color, created_at, updated_at)
VALUES (:id, :student_id, :date, :start_time, :end_time, :title, :description, :kind, :subject, :is_completed, :completion_notes, :priority, :color, :created_at, :updated_at)`

// ScheduleEntryRepository provides database access for timetable entries.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository creates a new instance of ScheduleEntryRepository.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

// List returns entries matching the filter ordered by date and start time.
func (r *ScheduleEntryRepository) List(ctx context.Context, filter models.ScheduleEntryFilter) ([]models.ScheduleEntry, error) {
	var builder strings.Builder
	builder.WriteString(`SELECT ` + scheduleEntryColumns + ` FROM schedule_entries WHERE student_id = $1`)
	args := []interface{}{filter.StudentID}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		builder.WriteString(fmt.Sprintf(" AND date >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		builder.WriteString(fmt.Sprintf(" AND date <= $%d", len(args)))
	}
	if len(filter.Kinds) > 0 {
		kinds := make([]string, len(filter.Kinds))
		for i, kind := range filter.Kinds {
			kinds[i] = string(kind)
		}
		args = append(args, pq.Array(kinds))
		builder.WriteString(fmt.Sprintf(" AND kind = ANY($%d)", len(args)))
	}
	builder.WriteString(" ORDER BY date ASC, start_time ASC")

	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// ListByStudentRange returns every entry of a student dated within [start, end].
func (r *ScheduleEntryRepository) ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ScheduleEntry, error) {
	return r.List(ctx, models.ScheduleEntryFilter{StudentID: studentID, StartDate: &start, EndDate: &end})
}

// FindByID returns an entry by identifier.
func (r *ScheduleEntryRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleEntryColumns + ` FROM schedule_entries WHERE id = $1 LIMIT 1`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule entry by id: %w", err)
	}
	return &entry, nil
}

// Update persists changes to an entry.
func (r *ScheduleEntryRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET date = :date, start_time = :start_time, end_time = :end_time, title = :title, description = :description, is_completed = :is_completed, completion_notes = :completion_notes, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, entry)
	if err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated schedule entry rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an entry permanently.
func (r *ScheduleEntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted schedule entry rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ReplaceStudyEntries deletes the student's study and break entries dated within
// [start, end] and inserts entries, all in one transaction. It returns the number
// of inserted rows.
func (r *ScheduleEntryRepository) ReplaceStudyEntries(ctx context.Context, studentID string, start, end time.Time, entries []models.ScheduleEntry) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace schedule entries tx: %w", err)
	}

	const deleteQuery = `DELETE FROM schedule_entries WHERE student_id = $1 AND date >= $2 AND date <= $3 AND kind = ANY($4)`
	if _, err := tx.ExecContext(ctx, deleteQuery, studentID, start, end, pq.Array(models.RegeneratedKinds())); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("delete regenerated schedule entries: %w", err)
	}

	now := time.Now().UTC()
	for i := range entries {
		entry := &entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.StudentID == "" {
			entry.StudentID = studentID
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = now
		}
		entry.UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, insertScheduleEntryQuery, entry); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert schedule entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace schedule entries tx: %w", err)
	}
	return len(entries), nil
}
