package dto

import "github.com/noah-isme/study-planner-api/internal/models"

// SubjectRequest names one subject to rotate through study sessions.
type SubjectRequest struct {
	Name     string          `json:"name" validate:"required,max=120"`
	Priority models.Priority `json:"priority" validate:"omitempty,min=1,max=3"`
}

// GenerateScheduleRequest asks the generator to build a study timetable for a date range.
// Dates are YYYY-MM-DD; malformed dates fall back to today.
type GenerateScheduleRequest struct {
	StudentID     string           `json:"student_id" validate:"required"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Subjects      []SubjectRequest `json:"subjects" validate:"required,min=1,dive"`
	StudyDuration *int             `json:"study_duration" validate:"omitempty,min=1,max=1440"`
	BreakDuration *int             `json:"break_duration" validate:"omitempty,min=0,max=1440"`
}

// GenerateScheduleResponse reports how many entries a run persisted.
type GenerateScheduleResponse struct {
	SlotsCreated int `json:"slots_created"`
}

// CreateRoutineRequest registers a recurring activity.
type CreateRoutineRequest struct {
	StudentID string   `json:"student_id" validate:"required"`
	Name      string   `json:"name" validate:"required,max=120"`
	StartTime string   `json:"start_time" validate:"required"`
	EndTime   string   `json:"end_time" validate:"required"`
	Days      []string `json:"days" validate:"required,min=1,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Color     string   `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateRoutineRequest patches a routine. Nil fields are left unchanged.
type UpdateRoutineRequest struct {
	Name      *string  `json:"name" validate:"omitempty,max=120"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Days      []string `json:"days" validate:"omitempty,min=1,dive,oneof=Mon Tue Wed Thu Fri Sat Sun"`
	Color     *string  `json:"color" validate:"omitempty,hexcolor"`
	Active    *bool    `json:"is_active"`
}

// CreateExamRequest registers a dated exam.
type CreateExamRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Subject   string  `json:"subject" validate:"required,max=120"`
	ExamDate  string  `json:"exam_date" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	EndTime   string  `json:"end_time" validate:"required"`
	Location  *string `json:"location" validate:"omitempty,max=255"`
	Notes     *string `json:"notes"`
}

// UpdateExamRequest patches an exam. Nil fields are left unchanged.
type UpdateExamRequest struct {
	Subject      *string `json:"subject" validate:"omitempty,max=120"`
	ExamDate     *string `json:"exam_date"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Notes        *string `json:"notes"`
	ReminderSent *bool   `json:"reminder_sent"`
}

// UpdateScheduleEntryRequest patches a timetable entry. Nil fields are left unchanged.
type UpdateScheduleEntryRequest struct {
	Date            *string `json:"date"`
	StartTime       *string `json:"start_time"`
	EndTime         *string `json:"end_time"`
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description"`
	Completed       *bool   `json:"is_completed"`
	CompletionNotes *string `json:"completion_notes"`
}

// ScheduleQuery filters entry listings.
type ScheduleQuery struct {
	StudentID string `form:"student_id" json:"student_id"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

// WeeklyScheduleQuery selects the week containing StartDate (today when blank).
type WeeklyScheduleQuery struct {
	StudentID string `form:"student_id" json:"student_id"`
	StartDate string `form:"start_date" json:"start_date"`
}

// WeeklyDay groups the entries of one calendar day.
type WeeklyDay struct {
	Date    string                 `json:"date"`
	DayName string                 `json:"day_name"`
	Slots   []models.ScheduleEntry `json:"slots"`
}

// WeeklySchedule is the Monday-based week view.
type WeeklySchedule struct {
	WeekStart string      `json:"week_start"`
	WeekEnd   string      `json:"week_end"`
	Days      []WeeklyDay `json:"days"`
}

// AnalyticsQuery filters per-day analytics rows.
type AnalyticsQuery struct {
	StudentID string `form:"student_id" json:"student_id"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

// ExportQuery selects the timetable range and output format.
type ExportQuery struct {
	StudentID string `form:"student_id" json:"student_id"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
	Format    string `form:"format" json:"format"`
}
