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

type scheduleEntryRepository interface {
	List(ctx context.Context, filter models.ScheduleEntryFilter) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

type weeklyCache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
	Invalidate(ctx context.Context, pattern string)
}

// ScheduleService serves timetable reads and direct edits of entries.
type ScheduleService struct {
	repo      scheduleEntryRepository
	cache     weeklyCache
	analytics analyticsScheduler
	validator *validator.Validate
	logger    *zap.Logger
	weeklyTTL time.Duration
	now       func() time.Time
}

// NewScheduleService creates the schedule service. cache and analytics may be nil.
func NewScheduleService(repo scheduleEntryRepository, cache weeklyCache, analytics analyticsScheduler, validate *validator.Validate, logger *zap.Logger, weeklyTTL time.Duration) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      repo,
		cache:     cache,
		analytics: analytics,
		validator: validate,
		logger:    logger,
		weeklyTTL: weeklyTTL,
		now:       time.Now,
	}
}

// List returns the entries of a student, optionally bounded by date.
func (s *ScheduleService) List(ctx context.Context, query dto.ScheduleQuery) ([]models.ScheduleEntry, error) {
	if query.StudentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	now := s.now()
	filter := models.ScheduleEntryFilter{StudentID: query.StudentID}
	if query.StartDate != "" {
		start := clock.ParseDate(query.StartDate, now)
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end := clock.ParseDate(query.EndDate, now)
		filter.EndDate = &end
	}

	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	return entries, nil
}

// Weekly returns the Monday-based week containing the query date grouped by day.
// The boolean reports whether the view came from cache.
func (s *ScheduleService) Weekly(ctx context.Context, query dto.WeeklyScheduleQuery) (*dto.WeeklySchedule, bool, error) {
	if query.StudentID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	now := s.now()
	anchor := clock.DateOf(now)
	if query.StartDate != "" {
		anchor = clock.ParseDate(query.StartDate, now)
	}
	week := clock.WeekDates(anchor)
	key := WeeklyCacheKey(query.StudentID, week[0])

	if s.cache != nil {
		var cached dto.WeeklySchedule
		if s.cache.Get(ctx, key, &cached) {
			return &cached, true, nil
		}
	}

	entries, err := s.repo.List(ctx, models.ScheduleEntryFilter{
		StudentID: query.StudentID,
		StartDate: &week[0],
		EndDate:   &week[6],
	})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekly schedule")
	}

	view := buildWeeklySchedule(week, entries)
	if s.cache != nil {
		s.cache.Set(ctx, key, view, s.weeklyTTL)
	}
	return view, false, nil
}

func buildWeeklySchedule(week [7]time.Time, entries []models.ScheduleEntry) *dto.WeeklySchedule {
	view := &dto.WeeklySchedule{
		WeekStart: clock.FormatDate(week[0]),
		WeekEnd:   clock.FormatDate(week[6]),
		Days:      make([]dto.WeeklyDay, 0, len(week)),
	}
	for _, date := range week {
		day := dto.WeeklyDay{
			Date:    clock.FormatDate(date),
			DayName: clock.WeekdayName(date),
			Slots:   []models.ScheduleEntry{},
		}
		for _, entry := range entries {
			if clock.SameDate(entry.Date, date) {
				day.Slots = append(day.Slots, entry)
			}
		}
		view.Days = append(view.Days, day)
	}
	return view
}

// UpdateEntry applies a partial edit to a timetable entry. Edited entries are not
// re-checked against other entries for overlap.
func (s *ScheduleService) UpdateEntry(ctx context.Context, actor Actor, id string, req dto.UpdateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule entry payload")
	}

	entry, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	previousDate := entry.Date

	if req.Date != nil {
		entry.Date = clock.ParseDate(*req.Date, s.now())
	}
	if req.StartTime != nil {
		entry.StartTime = clock.ParseTime(*req.StartTime)
	}
	if req.EndTime != nil {
		entry.EndTime = clock.ParseTime(*req.EndTime)
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Description != nil {
		entry.Description = req.Description
	}
	if req.Completed != nil {
		entry.Completed = *req.Completed
	}
	if req.CompletionNotes != nil {
		entry.CompletionNotes = req.CompletionNotes
	}
	if entry.EndTime <= entry.StartTime {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}

	s.afterChange(ctx, entry.StudentID, previousDate, entry.Date)
	return entry, nil
}

// DeleteEntry removes a timetable entry.
func (s *ScheduleService) DeleteEntry(ctx context.Context, actor Actor, id string) error {
	entry, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	s.afterChange(ctx, entry.StudentID, entry.Date, entry.Date)
	return nil
}

// afterChange drops cached weeks and refreshes analytics of the touched dates.
func (s *ScheduleService) afterChange(ctx context.Context, studentID string, dates ...time.Time) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, WeeklyCachePattern(studentID))
	}
	if s.analytics == nil {
		return
	}
	start, end := dates[0], dates[0]
	for _, d := range dates[1:] {
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	s.analytics.ScheduleRecompute(studentID, start, end)
}

func (s *ScheduleService) load(ctx context.Context, actor Actor, id string) (*models.ScheduleEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if !actor.CanAccess(entry.StudentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "schedule entry belongs to another student")
	}
	return entry, nil
}
