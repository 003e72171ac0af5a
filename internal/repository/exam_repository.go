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

const examColumns = `id, student_id, subject, exam_date, start_time, end_time, location, notes, reminder_sent, created_at, updated_at`

// ExamRepository provides database access for exams.
type ExamRepository struct {
	db *sqlx.DB
}

// NewExamRepository creates a new instance of ExamRepository.
func NewExamRepository(db *sqlx.DB) *ExamRepository {
	return &ExamRepository{db: db}
}

// ListByStudent returns every exam of a student ordered by date.
func (r *ExamRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE student_id = $1 ORDER BY exam_date ASC, start_time ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, studentID); err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	return exams, nil
}

// ListByStudentRange returns the exams of a student dated within [start, end].
func (r *ExamRepository) ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE student_id = $1 AND exam_date >= $2 AND exam_date <= $3 ORDER BY exam_date ASC, start_time ASC`
	var exams []models.Exam
	if err := r.db.SelectContext(ctx, &exams, query, studentID, start, end); err != nil {
		return nil, fmt.Errorf("list exams in range: %w", err)
	}
	return exams, nil
}

// FindByID returns an exam by identifier.
func (r *ExamRepository) FindByID(ctx context.Context, id string) (*models.Exam, error) {
	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1 LIMIT 1`
	var exam models.Exam
	if err := r.db.GetContext(ctx, &exam, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find exam by id: %w", err)
	}
	return &exam, nil
}

// Create inserts a new exam.
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	if exam.ID == "" {
		exam.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = now
	}
	exam.UpdatedAt = now

	const query = `INSERT INTO exams (id, student_id, subject, exam_date, start_time, end_time, location, notes, reminder_sent, created_at, updated_at) VALUES (:id, :student_id, :subject, :exam_date, :start_time, :end_time, :location, :notes, :reminder_sent, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, exam); err != nil {
		return fmt.Errorf("create exam: %w", err)
	}
	return nil
}

// Update persists changes to an existing exam.
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	exam.UpdatedAt = time.Now().UTC()
	const query = `UPDATE exams SET subject = :subject, exam_date = :exam_date, start_time = :start_time, end_time = :end_time, location = :location, notes = :notes, reminder_sent = :reminder_sent, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, exam)
	if err != nil {
		return fmt.Errorf("update exam: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated exam rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an exam permanently.
func (r *ExamRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exam: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted exam rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
