// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// testDay is a Tuesday.
var testDay = time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return testDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func busy(id string, start, end time.Time) models.Event {
	return models.Event{ID: id, Title: "busy", Start: start, End: end, Priority: models.PriorityMedium, IsBusy: true}
}

func interval(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
