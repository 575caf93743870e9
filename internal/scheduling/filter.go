// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// slotFilter holds the parsed clock bounds of a time constraint.
type slotFilter struct {
	startMinute *int
	endMinute   *int
	window      *MinuteRange
	loc         *time.Location
}

func newSlotFilter(tc models.TimeConstraint, loc *time.Location) (*slotFilter, error) {
	f := &slotFilter{loc: loc}
	if tc.StartTime != "" {
		minute, err := TimeToMinutes(tc.StartTime)
		if err != nil {
			return nil, err
		}
		f.startMinute = &minute
	}
	if tc.EndTime != "" {
		minute, err := TimeToMinutes(tc.EndTime)
		if err != nil {
			return nil, err
		}
		f.endMinute = &minute
	}
	if tc.TimeWindow != "" {
		bounds := WindowBounds(tc.TimeWindow)
		f.window = &bounds
	}
	return f, nil
}

func (f *slotFilter) accepts(slot Interval) bool {
	start := MinuteOfDay(slot.Start, f.loc)
	end := MinuteOfDay(slot.End, f.loc)

	if f.startMinute != nil && start < *f.startMinute {
		return false
	}
	if f.endMinute != nil && end > *f.endMinute {
		return false
	}
	if f.window != nil && (!f.window.Contains(start) || !f.window.Contains(end)) {
		return false
	}
	return true
}

// ApplyTimeConstraints keeps the slots that satisfy every clock bound set on tc.
// Slots are kept or dropped whole, never clipped.
func ApplyTimeConstraints(slots []Interval, tc models.TimeConstraint, loc *time.Location) ([]Interval, error) {
	f, err := newSlotFilter(tc, loc)
	if err != nil {
		return nil, err
	}

	kept := make([]Interval, 0, len(slots))
	for _, slot := range slots {
		if f.accepts(slot) {
			kept = append(kept, slot)
		}
	}
	return kept, nil
}
