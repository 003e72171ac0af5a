package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/study-planner-api/pkg/clock"
)

// EntryKind classifies a schedule entry.
type EntryKind string

const (
	EntryKindStudy   EntryKind = "study"
	EntryKindRoutine EntryKind = "routine"
	EntryKindExam    EntryKind = "exam"
	EntryKindBreak   EntryKind = "break"
	EntryKindCustom  EntryKind = "custom"
)

// Valid reports whether k is a known kind.
func (k EntryKind) Valid() bool {
	switch k {
	case EntryKindStudy, EntryKindRoutine, EntryKindExam, EntryKindBreak, EntryKindCustom:
		return true
	default:
		return false
	}
}

// Regenerated reports whether entries of this kind are replaced by each generation run.
func (k EntryKind) Regenerated() bool {
	switch k {
	case EntryKindStudy, EntryKindBreak:
		return true
	case EntryKindRoutine, EntryKindExam, EntryKindCustom:
		return false
	default:
		return false
	}
}

// RegeneratedKinds lists the kinds deleted before a generation run inserts its entries.
func RegeneratedKinds() []string {
	return []string{string(EntryKindStudy), string(EntryKindBreak)}
}

// Priority ranks a study subject. Stored as 1..3.
type Priority int

const (
	PriorityNormal Priority = 1
	PriorityHigh   Priority = 2
	PriorityUrgent Priority = 3
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return "normal"
	}
}

// ParsePriority accepts "normal", "high" or "urgent" in any case.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "normal":
		return PriorityNormal, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", raw)
	}
}

// MarshalJSON renders the numeric priority used by existing clients.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(p))
}

// UnmarshalJSON accepts 1..3 or a priority name. null and 0 leave p unset so
// callers can apply their default.
func (p *Priority) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	var num int
	if err := json.Unmarshal(data, &num); err == nil {
		if num == 0 {
			return nil
		}
		candidate := Priority(num)
		if !candidate.Valid() {
			return fmt.Errorf("priority %d out of range", num)
		}
		*p = candidate
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("priority must be a number or name: %w", err)
	}
	parsed, err := ParsePriority(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Fixed colours of generated entries.
const (
	StudyColor = "#3b82f6"
	BreakColor = "#10b981"
)

// ScheduleEntry is one timetable block for a student on a date.
type ScheduleEntry struct {
	ID              string          `db:"id" json:"id"`
	StudentID       string          `db:"student_id" json:"student_id"`
	Date            time.Time       `db:"date" json:"date"`
	StartTime       clock.TimeOfDay `db:"start_time" json:"start"`
	EndTime         clock.TimeOfDay `db:"end_time" json:"end"`
	Title           string          `db:"title" json:"title"`
	Description     *string         `db:"description" json:"description,omitempty"`
	Kind            EntryKind       `db:"kind" json:"type"`
	Subject         *string         `db:"subject" json:"subject,omitempty"`
	Completed       bool            `db:"is_completed" json:"is_completed"`
	CompletionNotes *string         `db:"completion_notes" json:"completion_notes,omitempty"`
	Priority        Priority        `db:"priority" json:"priority"`
	Color           *string         `db:"color" json:"color,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// DurationMinutes returns the length of the entry.
func (e ScheduleEntry) DurationMinutes() int {
	return clock.DiffMinutes(e.StartTime, e.EndTime)
}

// SameSlot reports whether two entries describe the same block on the same date.
func (e ScheduleEntry) SameSlot(other ScheduleEntry) bool {
	return e.Kind == other.Kind &&
		e.Title == other.Title &&
		e.StartTime == other.StartTime &&
		e.EndTime == other.EndTime &&
		clock.SameDate(e.Date, other.Date)
}

// ScheduleEntryFilter narrows entry listings.
type ScheduleEntryFilter struct {
	StudentID string
	StartDate *time.Time
	EndDate   *time.Time
	Kinds     []EntryKind
}
