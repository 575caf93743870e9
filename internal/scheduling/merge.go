// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"sort"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// MergeBusyIntervals collapses the busy events of every calendar into a sorted
// list of disjoint intervals. Touching intervals are merged. Events that do not
// block scheduling, or that end before they start, are ignored.
func MergeBusyIntervals(calendars []models.Calendar) []Interval {
	var busy []Interval
	for _, calendar := range calendars {
		for _, event := range calendar.Events {
			if !event.IsBusy || event.End.Before(event.Start) {
				continue
			}
			busy = append(busy, Interval{Start: event.Start, End: event.End})
		}
	}
	return mergeIntervals(busy)
}

func mergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return []Interval{}
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
