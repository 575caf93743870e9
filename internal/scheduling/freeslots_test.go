// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFreeSlots(t *testing.T) {
	fullDay := interval(testDay, testDay.AddDate(0, 0, 1))

	tests := []struct {
		name        string
		busy        []Interval
		window      Interval
		minDuration time.Duration
		want        []Interval
	}{
		{
			name:        "empty calendar yields the whole working day",
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(9, 0), at(17, 0))},
		},
		{
			name:        "gaps around busy intervals",
			busy:        []Interval{interval(at(9, 0), at(10, 0)), interval(at(14, 0), at(15, 0))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(10, 0), at(14, 0)), interval(at(15, 0), at(17, 0))},
		},
		{
			name:        "short gaps are dropped",
			busy:        []Interval{interval(at(9, 30), at(12, 0)), interval(at(12, 45), at(16, 30))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{},
		},
		{
			name:        "gap exactly as long as the minimum is kept",
			busy:        []Interval{interval(at(9, 0), at(10, 0)), interval(at(11, 0), at(17, 0))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(10, 0), at(11, 0))},
		},
		{
			name:        "window starting mid morning is not moved back",
			window:      interval(at(10, 30), testDay.AddDate(0, 0, 1)),
			minDuration: 30 * time.Minute,
			want:        []Interval{interval(at(10, 30), at(17, 0))},
		},
		{
			name:        "window ending early caps the tail",
			window:      interval(testDay, at(12, 0)),
			minDuration: 30 * time.Minute,
			want:        []Interval{interval(at(9, 0), at(12, 0))},
		},
		{
			name:        "evening busy time does not extend a gap past 17:00",
			busy:        []Interval{interval(at(9, 0), at(10, 0)), interval(at(19, 0), at(20, 0))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(10, 0), at(17, 0))},
		},
		{
			name:        "busy interval crossing the end of the working day",
			busy:        []Interval{interval(at(16, 30), at(18, 0))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(9, 0), at(16, 30))},
		},
		{
			name:        "busy interval starting before the window",
			busy:        []Interval{interval(at(7, 0), at(11, 0))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(11, 0), at(17, 0))},
		},
		{
			name:        "busy intervals outside the window are ignored",
			busy:        []Interval{interval(at(-5, 0), at(-4, 0)), interval(at(30, 0), at(31, 0))},
			window:      fullDay,
			minDuration: time.Hour,
			want:        []Interval{interval(at(9, 0), at(17, 0))},
		},
		{
			name:        "fully booked day",
			busy:        []Interval{interval(at(8, 0), at(18, 0))},
			window:      fullDay,
			minDuration: 15 * time.Minute,
			want:        []Interval{},
		},
		{
			name:        "empty window",
			window:      interval(at(12, 0), at(12, 0)),
			minDuration: time.Minute,
			want:        []Interval{},
		},
		{
			name:        "multi day window is clamped to each working day",
			busy:        []Interval{interval(at(16, 0), at(34, 0))},
			window:      interval(testDay, testDay.AddDate(0, 0, 2)),
			minDuration: time.Hour,
			want:        []Interval{interval(at(9, 0), at(16, 0)), interval(at(34, 0), at(41, 0))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindFreeSlots(tt.busy, tt.window, tt.minDuration, DefaultWorkingHours, time.UTC)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindFreeSlots_CustomWorkingHours(t *testing.T) {
	hours := WorkingHours{Start: 7 * 60, End: 22 * 60}
	got := FindFreeSlots(nil, interval(testDay, testDay.AddDate(0, 0, 1)), time.Hour, hours, time.UTC)
	assert.Equal(t, []Interval{interval(at(7, 0), at(22, 0))}, got)
}

func TestWorkingHours_Valid(t *testing.T) {
	assert.True(t, DefaultWorkingHours.Valid())
	assert.True(t, WorkingHours{Start: 0, End: 24 * 60}.Valid())
	assert.False(t, WorkingHours{}.Valid())
	assert.False(t, WorkingHours{Start: 17 * 60, End: 9 * 60}.Valid())
	assert.False(t, WorkingHours{Start: 9 * 60, End: 25 * 60}.Valid())
}

func TestFindFreeSlots_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	window := interval(testDay, testDay.AddDate(0, 0, 1))

	for run := 0; run < 200; run++ {
		merged := MergeBusyIntervals(randomCalendars(r))
		minDuration := time.Duration(15+r.Intn(120)) * time.Minute

		slots := FindFreeSlots(merged, window, minDuration, DefaultWorkingHours, time.UTC)

		for i, slot := range slots {
			require.GreaterOrEqual(t, slot.Duration(), minDuration, "run %d slot %d too short", run, i)
			require.False(t, slot.Start.Before(at(9, 0)), "run %d slot %d starts before 09:00", run, i)
			require.False(t, slot.End.After(at(17, 0)), "run %d slot %d ends after 17:00", run, i)
			if i > 0 {
				require.True(t, slots[i-1].End.Before(slot.Start) || slots[i-1].End.Equal(slot.Start), "run %d slots out of order", run)
			}
			for _, b := range merged {
				require.False(t, slot.Overlaps(b), "run %d slot %d overlaps busy time", run, i)
			}
		}
	}
}
