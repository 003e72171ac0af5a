package service

import (
	"sort"

	"github.com/noah-isme/study-planner-api/pkg/clock"
)

const defaultMaxCandidates = 10

// slotWindow bounds the daily search for free time.
type slotWindow struct {
	DayStart clock.TimeOfDay
	DayEnd   clock.TimeOfDay
	MinSlot  int
	Limit    int
}

// findFreeSlots returns the start times of gaps of at least MinSlot minutes
// between busy intervals inside the window, in ascending order. Each gap yields
// only its start. An empty day yields dayStart alone, not one start per session.
func findFreeSlots(busy []busyInterval, window slotWindow) []clock.TimeOfDay {
	intervals := make([]busyInterval, 0, len(busy))
	for _, b := range busy {
		if b.valid() {
			intervals = append(intervals, b)
		}
	}
	if len(intervals) == 0 {
		return []clock.TimeOfDay{window.DayStart}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})

	var candidates []clock.TimeOfDay
	cursor := window.DayStart
	for _, b := range intervals {
		if cursor < b.Start && clock.DiffMinutes(cursor, b.Start) >= window.MinSlot {
			candidates = append(candidates, cursor)
		}
		if b.End > cursor {
			cursor = b.End
		}
	}
	if clock.DiffMinutes(cursor, window.DayEnd) >= window.MinSlot {
		candidates = append(candidates, cursor)
	}

	limit := window.Limit
	if limit <= 0 {
		limit = defaultMaxCandidates
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}
