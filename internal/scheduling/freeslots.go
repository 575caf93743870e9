// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"time"
)

// WorkingHours is the part of each day meetings may be placed in, expressed in
// minutes since local midnight.
type WorkingHours struct {
	Start int
	End   int
}

// DefaultWorkingHours is 09:00 to 17:00.
var DefaultWorkingHours = WorkingHours{Start: 9 * 60, End: 17 * 60}

// Valid reports whether the working hours describe a non-empty range within a day.
func (h WorkingHours) Valid() bool {
	return h.Start >= 0 && h.End <= 24*60 && h.Start < h.End
}

func (h WorkingHours) on(day time.Time) Interval {
	y, m, d := day.Date()
	return Interval{
		Start: time.Date(y, m, d, 0, h.Start, 0, 0, day.Location()),
		End:   time.Date(y, m, d, 0, h.End, 0, 0, day.Location()),
	}
}

// FindFreeSlots returns the gaps between busy intervals inside window that are
// at least minDuration long. busy must be sorted and disjoint, as produced by
// MergeBusyIntervals. Gaps are confined to the working hours of every local
// day the window touches, so a slot never crosses the end of a working day.
func FindFreeSlots(busy []Interval, window Interval, minDuration time.Duration, hours WorkingHours, loc *time.Location) []Interval {
	slots := []Interval{}
	if !window.Start.Before(window.End) {
		return slots
	}

	relevant := make([]Interval, 0, len(busy))
	for _, b := range busy {
		if b.Overlaps(window) {
			relevant = append(relevant, b)
		}
	}

	for day := StartOfDay(window.Start, loc); day.Before(window.End); day = day.AddDate(0, 0, 1) {
		workday := hours.on(day)
		floor := latest(window.Start, workday.Start)
		ceiling := earliest(window.End, workday.End)
		if !floor.Before(ceiling) {
			continue
		}
		slots = append(slots, freeSlotsWithin(relevant, floor, ceiling, minDuration)...)
	}
	return slots
}

func freeSlotsWithin(busy []Interval, floor, ceiling time.Time, minDuration time.Duration) []Interval {
	var slots []Interval
	cursor := floor
	for _, b := range busy {
		if !b.End.After(cursor) {
			continue
		}
		if !b.Start.Before(ceiling) {
			break
		}
		if cursor.Before(b.Start) && b.Start.Sub(cursor) >= minDuration {
			slots = append(slots, Interval{Start: cursor, End: b.Start})
		}
		cursor = latest(cursor, b.End)
		if !cursor.Before(ceiling) {
			return slots
		}
	}
	if ceiling.Sub(cursor) >= minDuration {
		slots = append(slots, Interval{Start: cursor, End: ceiling})
	}
	return slots
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
