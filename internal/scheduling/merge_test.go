// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

func TestMergeBusyIntervals(t *testing.T) {
	tests := []struct {
		name      string
		calendars []models.Calendar
		want      []Interval
	}{
		{
			name:      "no calendars",
			calendars: nil,
			want:      []Interval{},
		},
		{
			name:      "no busy events",
			calendars: []models.Calendar{{UserID: "a", Events: []models.Event{{Start: at(9, 0), End: at(10, 0), IsBusy: false}}}},
			want:      []Interval{},
		},
		{
			name: "overlap across calendars",
			calendars: []models.Calendar{
				{UserID: "a", Events: []models.Event{busy("1", at(9, 0), at(10, 0)), busy("2", at(14, 0), at(15, 0))}},
				{UserID: "b", Events: []models.Event{busy("3", at(9, 30), at(9, 45))}},
			},
			want: []Interval{interval(at(9, 0), at(10, 0)), interval(at(14, 0), at(15, 0))},
		},
		{
			name: "touching intervals merge",
			calendars: []models.Calendar{
				{UserID: "a", Events: []models.Event{busy("1", at(11, 0), at(12, 0)), busy("2", at(10, 0), at(11, 0))}},
			},
			want: []Interval{interval(at(10, 0), at(12, 0))},
		},
		{
			name: "free events never block",
			calendars: []models.Calendar{
				{UserID: "a", Events: []models.Event{
					busy("1", at(9, 0), at(10, 0)),
					{ID: "2", Start: at(10, 0), End: at(16, 0), IsBusy: false},
					busy("3", at(16, 0), at(17, 0)),
				}},
			},
			want: []Interval{interval(at(9, 0), at(10, 0)), interval(at(16, 0), at(17, 0))},
		},
		{
			name: "contained interval keeps the longer end",
			calendars: []models.Calendar{
				{UserID: "a", Events: []models.Event{busy("1", at(9, 0), at(13, 0))}},
				{UserID: "b", Events: []models.Event{busy("2", at(10, 0), at(11, 0))}},
			},
			want: []Interval{interval(at(9, 0), at(13, 0))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeBusyIntervals(tt.calendars))
		})
	}
}

func TestMergeBusyIntervals_DoesNotMutateInput(t *testing.T) {
	events := []models.Event{busy("2", at(12, 0), at(13, 0)), busy("1", at(9, 0), at(12, 30))}
	calendars := []models.Calendar{{UserID: "a", Events: events}}

	MergeBusyIntervals(calendars)

	assert.Equal(t, at(12, 0), calendars[0].Events[0].Start)
	assert.Equal(t, at(12, 30), calendars[0].Events[1].End)
}

func randomCalendars(r *rand.Rand) []models.Calendar {
	calendars := make([]models.Calendar, 1+r.Intn(4))
	for i := range calendars {
		for j := 0; j < r.Intn(8); j++ {
			start := r.Intn(24*60 - 1)
			length := 1 + r.Intn(180)
			end := min(start+length, 24*60)
			calendars[i].Events = append(calendars[i].Events, models.Event{
				Start:  testDay.Add(time.Duration(start) * time.Minute),
				End:    testDay.Add(time.Duration(end) * time.Minute),
				IsBusy: r.Intn(5) > 0,
			})
		}
	}
	return calendars
}

func coveredMinutes(intervals []Interval) map[int]bool {
	covered := map[int]bool{}
	for _, iv := range intervals {
		for m := iv.Start; m.Before(iv.End); m = m.Add(time.Minute) {
			covered[int(m.Sub(testDay)/time.Minute)] = true
		}
	}
	return covered
}

func TestMergeBusyIntervals_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		calendars := randomCalendars(r)
		merged := MergeBusyIntervals(calendars)

		var input []Interval
		for _, c := range calendars {
			for _, e := range c.Events {
				if e.IsBusy {
					input = append(input, interval(e.Start, e.End))
				}
			}
		}

		for i := 1; i < len(merged); i++ {
			require.True(t, merged[i-1].End.Before(merged[i].Start), "run %d: intervals %d and %d overlap or touch", run, i-1, i)
		}
		require.Equal(t, coveredMinutes(input), coveredMinutes(merged), "run %d: union changed", run)
		require.Equal(t, merged, mergeIntervals(merged), "run %d: merge is not idempotent", run)
	}
}
