package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
	"github.com/noah-isme/study-planner-api/pkg/jobs"
)

// JobTypeAnalyticsRecompute identifies analytics recompute jobs.
const JobTypeAnalyticsRecompute = "analytics.recompute"

type analyticsDispatcher interface {
	Enqueue(job jobs.Job) (bool, error)
}

type analyticsReader interface {
	ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ScheduleAnalytics, error)
}

type analyticsWriter interface {
	UpsertBatch(ctx context.Context, rows []models.ScheduleAnalytics) error
}

type entryRangeReader interface {
	ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ScheduleEntry, error)
}

// recomputePayload is carried by analytics jobs.
type recomputePayload struct {
	StudentID string
	Start     time.Time
	End       time.Time
}

// AnalyticsService exposes per-day study analytics and schedules their recomputation.
type AnalyticsService struct {
	repo   analyticsReader
	queue  analyticsDispatcher
	logger *zap.Logger
	now    func() time.Time
}

// NewAnalyticsService constructs the service. A nil queue disables recomputation.
func NewAnalyticsService(repo analyticsReader, queue analyticsDispatcher, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, queue: queue, logger: logger, now: time.Now}
}

// ScheduleRecompute queues a recompute for the range. Queue failures are logged only.
func (s *AnalyticsService) ScheduleRecompute(studentID string, start, end time.Time) {
	if s.queue == nil {
		return
	}
	key := fmt.Sprintf("%s:%s:%s", studentID, clock.FormatDate(start), clock.FormatDate(end))
	accepted, err := s.queue.Enqueue(jobs.Job{
		ID:      key,
		Type:    JobTypeAnalyticsRecompute,
		Key:     key,
		Payload: recomputePayload{StudentID: studentID, Start: start, End: end},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue analytics recompute", zap.String("student_id", studentID), zap.Error(err))
		return
	}
	if !accepted {
		s.logger.Debug("analytics recompute already pending", zap.String("key", key))
	}
}

// List returns analytics rows for the query range. Blank dates select the current week.
func (s *AnalyticsService) List(ctx context.Context, query dto.AnalyticsQuery) ([]models.ScheduleAnalytics, error) {
	if query.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	start, end := resolveRange(query.StartDate, query.EndDate, s.now())
	rows, err := s.repo.ListByStudentRange(ctx, query.StudentID, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule analytics")
	}
	if rows == nil {
		rows = []models.ScheduleAnalytics{}
	}
	return rows, nil
}

// resolveRange parses an optional date range. Missing bounds default to the
// Monday-based week containing today.
func resolveRange(rawStart, rawEnd string, now time.Time) (time.Time, time.Time) {
	week := clock.WeekDates(now)
	start, end := week[0], week[6]
	if rawStart != "" {
		start = clock.ParseDate(rawStart, now)
	}
	if rawEnd != "" {
		end = clock.ParseDate(rawEnd, now)
	}
	return start, end
}

// AnalyticsWorker recomputes analytics rows from stored schedule entries.
type AnalyticsWorker struct {
	entries entryRangeReader
	store   analyticsWriter
	logger  *zap.Logger
}

// NewAnalyticsWorker constructs a worker.
func NewAnalyticsWorker(entries entryRangeReader, store analyticsWriter, logger *zap.Logger) *AnalyticsWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsWorker{entries: entries, store: store, logger: logger}
}

// Handle processes a queue job.
func (w *AnalyticsWorker) Handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(recomputePayload)
	if !ok {
		w.logger.Error("dropping analytics job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return w.Recompute(ctx, payload.StudentID, payload.Start, payload.End)
}

// Recompute rebuilds the rows of every date in [start, end].
func (w *AnalyticsWorker) Recompute(ctx context.Context, studentID string, start, end time.Time) error {
	entries, err := w.entries.ListByStudentRange(ctx, studentID, start, end)
	if err != nil {
		return fmt.Errorf("load entries for analytics: %w", err)
	}
	rows := buildDailyAnalytics(studentID, start, end, entries)
	if err := w.store.UpsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("store analytics: %w", err)
	}
	w.logger.Debug("analytics recomputed", zap.String("student_id", studentID), zap.Int("days", len(rows)))
	return nil
}

// buildDailyAnalytics aggregates study entries per date. Dates without study
// entries produce zero rows so stale figures are overwritten.
func buildDailyAnalytics(studentID string, start, end time.Time, entries []models.ScheduleEntry) []models.ScheduleAnalytics {
	type tally struct {
		planned  int
		actual   int
		subjects map[string]struct{}
	}
	byDate := make(map[string]*tally)
	for _, entry := range entries {
		if entry.Kind != models.EntryKindStudy {
			continue
		}
		key := clock.FormatDate(entry.Date)
		t, ok := byDate[key]
		if !ok {
			t = &tally{subjects: make(map[string]struct{})}
			byDate[key] = t
		}
		minutes := entry.DurationMinutes()
		if minutes < 0 {
			minutes = 0
		}
		t.planned += minutes
		if entry.Completed {
			t.actual += minutes
		}
		if entry.Subject != nil && *entry.Subject != "" {
			t.subjects[*entry.Subject] = struct{}{}
		}
	}

	var rows []models.ScheduleAnalytics
	for date := clock.DateOf(start); !date.After(end); date = date.AddDate(0, 0, 1) {
		row := models.ScheduleAnalytics{StudentID: studentID, Date: date, SubjectsCovered: []string{}}
		if t, ok := byDate[clock.FormatDate(date)]; ok {
			row.PlannedStudyHours = roundTo(float64(t.planned)/60, 2)
			row.ActualStudyHours = roundTo(float64(t.actual)/60, 2)
			if t.planned > 0 {
				row.CompletionRate = roundTo(float64(t.actual)/float64(t.planned)*100, 2)
			}
			for subject := range t.subjects {
				row.SubjectsCovered = append(row.SubjectsCovered, subject)
			}
			sort.Strings(row.SubjectsCovered)
		}
		rows = append(rows, row)
	}
	return rows
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
