package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/study-planner-api/pkg/clock"
)

func hm(h, m int) clock.TimeOfDay {
	return clock.NewTimeOfDay(h, m)
}

func busy(start, end clock.TimeOfDay) busyInterval {
	return busyInterval{Start: start, End: end}
}

var dayWindow = slotWindow{DayStart: hm(8, 0), DayEnd: hm(22, 0), MinSlot: 90, Limit: 10}

func TestFindFreeSlotsEmptyDayYieldsDayStartOnly(t *testing.T) {
	assert.Equal(t, []clock.TimeOfDay{hm(8, 0)}, findFreeSlots(nil, dayWindow))
}

func TestFindFreeSlotsAroundExam(t *testing.T) {
	got := findFreeSlots([]busyInterval{busy(hm(10, 0), hm(12, 0))}, dayWindow)
	assert.Equal(t, []clock.TimeOfDay{hm(8, 0), hm(12, 0)}, got)
}

func TestFindFreeSlotsSkipsShortGaps(t *testing.T) {
	got := findFreeSlots([]busyInterval{
		busy(hm(9, 0), hm(12, 0)),
		busy(hm(13, 0), hm(21, 0)),
	}, dayWindow)
	assert.Empty(t, got, "one hour gaps are shorter than a session")
}

func TestFindFreeSlotsSortsAndHandlesOverlap(t *testing.T) {
	got := findFreeSlots([]busyInterval{
		busy(hm(14, 0), hm(16, 0)),
		busy(hm(8, 0), hm(11, 0)),
		busy(hm(10, 0), hm(12, 0)),
		busy(hm(9, 0), hm(10, 0)),
	}, dayWindow)
	assert.Equal(t, []clock.TimeOfDay{hm(12, 0), hm(16, 0)}, got)
}

func TestFindFreeSlotsFinalGapMustFit(t *testing.T) {
	got := findFreeSlots([]busyInterval{busy(hm(8, 0), hm(21, 0))}, dayWindow)
	assert.Empty(t, got)

	got = findFreeSlots([]busyInterval{busy(hm(8, 0), hm(20, 30))}, dayWindow)
	assert.Equal(t, []clock.TimeOfDay{hm(20, 30)}, got)
}

func TestFindFreeSlotsIgnoresInvertedIntervals(t *testing.T) {
	got := findFreeSlots([]busyInterval{
		busy(hm(12, 0), hm(10, 0)),
		busy(hm(15, 0), hm(15, 0)),
		busy(hm(9, 0), hm(11, 0)),
	}, dayWindow)
	assert.Equal(t, []clock.TimeOfDay{hm(11, 0)}, got)

	assert.Equal(t, []clock.TimeOfDay{hm(8, 0)}, findFreeSlots([]busyInterval{busy(hm(12, 0), hm(10, 0))}, dayWindow))
}

func TestFindFreeSlotsCapsCandidates(t *testing.T) {
	window := slotWindow{DayStart: hm(0, 0), DayEnd: hm(23, 59), MinSlot: 10, Limit: 10}
	var intervals []busyInterval
	for h := 0; h < 23; h++ {
		intervals = append(intervals, busy(hm(h, 30), hm(h+1, 0)))
	}
	got := findFreeSlots(intervals, window)
	assert.Len(t, got, 10)
	assert.Equal(t, hm(0, 0), got[0])
	assert.Equal(t, hm(9, 0), got[9])

	window.Limit = 3
	assert.Len(t, findFreeSlots(intervals, window), 3)
}

func TestFindFreeSlotsCandidatesAscendAndFit(t *testing.T) {
	intervals := []busyInterval{
		busy(hm(9, 30), hm(10, 0)),
		busy(hm(13, 0), hm(13, 45)),
		busy(hm(18, 0), hm(19, 0)),
	}
	got := findFreeSlots(intervals, dayWindow)
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
	for _, start := range got {
		for _, b := range intervals {
			assert.False(t, start >= b.Start && start < b.End, "candidate %s lies inside a busy interval", start)
		}
	}
}
