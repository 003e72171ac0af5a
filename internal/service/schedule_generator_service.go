package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/study-planner-api/internal/dto"
	"github.com/noah-isme/study-planner-api/internal/models"
	"github.com/noah-isme/study-planner-api/pkg/clock"
	appErrors "github.com/noah-isme/study-planner-api/pkg/errors"
)

type generatorRoutineReader interface {
	ListActiveByStudent(ctx context.Context, studentID string) ([]models.Routine, error)
}

type generatorExamReader interface {
	ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.Exam, error)
}

type generatorEntryStore interface {
	ListByStudentRange(ctx context.Context, studentID string, start, end time.Time) ([]models.ScheduleEntry, error)
	ReplaceStudyEntries(ctx context.Context, studentID string, start, end time.Time, entries []models.ScheduleEntry) (int, error)
}

type scheduleCacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string)
}

type analyticsScheduler interface {
	ScheduleRecompute(studentID string, start, end time.Time)
}

// ScheduleGeneratorConfig governs generator behaviour.
type ScheduleGeneratorConfig struct {
	DayStart      clock.TimeOfDay
	DayEnd        clock.TimeOfDay
	StudyDuration int
	BreakDuration int
	MaxCandidates int
	// DedupeEntries skips routine and exam entries already stored for the same slot.
	DedupeEntries bool
	// MaxRangeDays bounds how many dates one run may plan, keeping a run well
	// inside the generation lock TTL.
	MaxRangeDays int
}

const defaultMaxRangeDays = 366

func (c ScheduleGeneratorConfig) withDefaults() ScheduleGeneratorConfig {
	if c.DayStart == 0 && c.DayEnd == 0 {
		c.DayStart = clock.NewTimeOfDay(8, 0)
		c.DayEnd = clock.NewTimeOfDay(22, 0)
	}
	if c.StudyDuration <= 0 {
		c.StudyDuration = 90
	}
	if c.BreakDuration < 0 {
		c.BreakDuration = 15
	}
	if c.MaxCandidates <= 0 {
		c.MaxCandidates = defaultMaxCandidates
	}
	if c.MaxRangeDays <= 0 {
		c.MaxRangeDays = defaultMaxRangeDays
	}
	return c
}

// ScheduleGeneratorService builds study timetables around routines and exams.
type ScheduleGeneratorService struct {
	routines  generatorRoutineReader
	exams     generatorExamReader
	entries   generatorEntryStore
	locker    GenerationLocker
	cache     scheduleCacheInvalidator
	analytics analyticsScheduler
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGeneratorConfig
	now       func() time.Time
}

// NewScheduleGeneratorService wires generator dependencies. cache and analytics may be nil.
func NewScheduleGeneratorService(
	routines generatorRoutineReader,
	exams generatorExamReader,
	entries generatorEntryStore,
	locker GenerationLocker,
	cache scheduleCacheInvalidator,
	analytics analyticsScheduler,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = NewLocalGenerationLocker(10 * time.Second)
	}
	return &ScheduleGeneratorService{
		routines:  routines,
		exams:     exams,
		entries:   entries,
		locker:    locker,
		cache:     cache,
		analytics: analytics,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg.withDefaults(),
		now:       time.Now,
	}
}

// generationRun carries the resolved inputs of one request.
type generationRun struct {
	studentID     string
	start         time.Time
	end           time.Time
	subjects      []studySubject
	studyDuration int
	breakDuration int
}

// Generate replaces the student's study sessions and breaks within the date range.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	startedAt := time.Now()

	run, err := s.resolve(req)
	if err != nil {
		s.metrics.RecordGeneration(GenerationOutcomeInvalid, nil, 0)
		return nil, err
	}
	if run.end.Before(run.start) {
		s.logger.Info("schedule generation skipped for reversed range",
			zap.String("student_id", run.studentID),
			zap.String("start_date", clock.FormatDate(run.start)),
			zap.String("end_date", clock.FormatDate(run.end)),
		)
		return &dto.GenerateScheduleResponse{SlotsCreated: 0}, nil
	}
	if days := rangeDays(run.start, run.end); days > s.cfg.MaxRangeDays {
		s.metrics.RecordGeneration(GenerationOutcomeInvalid, nil, 0)
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("date range spans %d days, at most %d allowed", days, s.cfg.MaxRangeDays))
	}

	release, err := s.locker.Acquire(ctx, run.studentID)
	if err != nil {
		s.metrics.RecordGeneration(GenerationOutcomeBusy, nil, 0)
		return nil, err
	}
	defer release()

	created, byKind, err := s.execute(ctx, run)
	if err != nil {
		s.metrics.RecordGeneration(GenerationOutcomeFailed, nil, 0)
		s.logger.Error("schedule generation failed", zap.String("student_id", run.studentID), zap.Error(err))
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, WeeklyCachePattern(run.studentID))
	}
	if s.analytics != nil {
		s.analytics.ScheduleRecompute(run.studentID, run.start, run.end)
	}

	elapsed := time.Since(startedAt)
	s.metrics.RecordGeneration(GenerationOutcomeSuccess, byKind, elapsed)
	s.logger.Info("schedule generated",
		zap.String("student_id", run.studentID),
		zap.String("start_date", clock.FormatDate(run.start)),
		zap.String("end_date", clock.FormatDate(run.end)),
		zap.Int("slots_created", created),
		zap.Duration("duration", elapsed),
	)
	return &dto.GenerateScheduleResponse{SlotsCreated: created}, nil
}

func (s *ScheduleGeneratorService) resolve(req dto.GenerateScheduleRequest) (generationRun, error) {
	if err := s.validator.Struct(req); err != nil {
		return generationRun{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}

	studyDuration := s.cfg.StudyDuration
	if req.StudyDuration != nil {
		studyDuration = *req.StudyDuration
	}
	breakDuration := s.cfg.BreakDuration
	if req.BreakDuration != nil {
		breakDuration = *req.BreakDuration
	}
	if studyDuration <= 0 {
		return generationRun{}, appErrors.Clone(appErrors.ErrValidation, "study_duration must be positive")
	}
	if breakDuration < 0 {
		return generationRun{}, appErrors.Clone(appErrors.ErrValidation, "break_duration must not be negative")
	}

	subjects := make([]studySubject, len(req.Subjects))
	for i, subject := range req.Subjects {
		priority := subject.Priority
		if priority == 0 {
			priority = models.PriorityNormal
		}
		subjects[i] = studySubject{Name: subject.Name, Priority: priority}
	}

	today := s.now()
	return generationRun{
		studentID:     req.StudentID,
		start:         clock.ParseDate(req.StartDate, today),
		end:           clock.ParseDate(req.EndDate, today),
		subjects:      subjects,
		studyDuration: studyDuration,
		breakDuration: breakDuration,
	}, nil
}

// rangeDays counts the calendar dates in [start, end].
func rangeDays(start, end time.Time) int {
	return int(clock.DateOf(end).Sub(clock.DateOf(start)).Hours()/24) + 1
}

func (s *ScheduleGeneratorService) execute(ctx context.Context, run generationRun) (int, map[string]int, error) {
	routines, err := s.routines.ListActiveByStudent(ctx, run.studentID)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routines")
	}
	exams, err := s.exams.ListByStudentRange(ctx, run.studentID, run.start, run.end)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exams")
	}
	resident, err := s.entries.ListByStudentRange(ctx, run.studentID, run.start, run.end)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entries")
	}

	var planned []models.ScheduleEntry
	for date := run.start; !date.After(run.end); date = date.AddDate(0, 0, 1) {
		planned = append(planned, s.planDay(run, date, routines, exams, resident)...)
	}

	created, err := s.entries.ReplaceStudyEntries(ctx, run.studentID, run.start, run.end, planned)
	if err != nil {
		return 0, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist generated schedule")
	}

	byKind := make(map[string]int)
	for _, entry := range planned {
		byKind[string(entry.Kind)]++
	}
	return created, byKind, nil
}

// planDay emits the routine and exam entries of date followed by the packed study sessions.
func (s *ScheduleGeneratorService) planDay(run generationRun, date time.Time, routines []models.Routine, exams []models.Exam, resident []models.ScheduleEntry) []models.ScheduleEntry {
	var entries []models.ScheduleEntry
	for _, routine := range routines {
		if !routine.OccursOn(date) {
			continue
		}
		entries = s.appendFixed(entries, resident, routineEntry(run.studentID, date, routine))
	}
	for _, exam := range exams {
		if !exam.OccursOn(date) {
			continue
		}
		entries = s.appendFixed(entries, resident, examEntry(run.studentID, date, exam))
	}

	busy := resolveOccupancy(date, routines, exams, resident)
	candidates := findFreeSlots(busy, slotWindow{
		DayStart: s.cfg.DayStart,
		DayEnd:   s.cfg.DayEnd,
		MinSlot:  run.studyDuration,
		Limit:    s.cfg.MaxCandidates,
	})
	sessions := packSessions(packRequest{
		StudentID:     run.studentID,
		Date:          date,
		Candidates:    candidates,
		Subjects:      run.subjects,
		StudyDuration: run.studyDuration,
		BreakDuration: run.breakDuration,
		DayEnd:        s.cfg.DayEnd,
	})
	return append(entries, sessions...)
}

func (s *ScheduleGeneratorService) appendFixed(entries, resident []models.ScheduleEntry, entry models.ScheduleEntry) []models.ScheduleEntry {
	if s.cfg.DedupeEntries {
		for _, existing := range resident {
			if existing.SameSlot(entry) {
				return entries
			}
		}
	}
	return append(entries, entry)
}

func routineEntry(studentID string, date time.Time, routine models.Routine) models.ScheduleEntry {
	color := routine.Color
	if color == "" {
		color = models.DefaultRoutineColor
	}
	return models.ScheduleEntry{
		StudentID: studentID,
		Date:      date,
		StartTime: routine.StartTime,
		EndTime:   routine.EndTime,
		Title:     routine.Name,
		Kind:      models.EntryKindRoutine,
		Priority:  models.PriorityNormal,
		Color:     &color,
	}
}

func examEntry(studentID string, date time.Time, exam models.Exam) models.ScheduleEntry {
	subject := exam.Subject
	color := models.ExamColor
	return models.ScheduleEntry{
		StudentID: studentID,
		Date:      date,
		StartTime: exam.StartTime,
		EndTime:   exam.EndTime,
		Title:     examTitle(exam),
		Kind:      models.EntryKindExam,
		Subject:   &subject,
		Priority:  models.PriorityUrgent,
		Color:     &color,
	}
}
