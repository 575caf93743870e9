// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

var testNow = time.Date(2025, 1, 7, 8, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 7, hour, minute, 0, 0, time.UTC)
}

// testGroup returns a fresh group on every call, services mutate what they read.
func testGroup() *models.Group {
	return &models.Group{
		ID:   "group-1",
		Code: "ABC234",
		Name: "Study Group",
		Members: []models.Member{
			{
				ID:         "alice",
				Name:       "Alice",
				IsIncluded: true,
				Calendar: models.Calendar{
					UserID: "alice",
					Events: []models.Event{
						{ID: "a1", Title: "Lecture", Start: at(9, 0), End: at(11, 0), Priority: models.PriorityHigh, IsBusy: true},
					},
				},
			},
			{
				ID:         "bob",
				Name:       "Bob",
				IsIncluded: true,
				Calendar: models.Calendar{
					UserID: "bob",
					Events: []models.Event{
						{ID: "b1", Title: "Gym", Start: at(12, 0), End: at(13, 0), Priority: models.PriorityWorkout, IsBusy: true},
					},
				},
			},
			{
				ID:         "carol",
				Name:       "Carol",
				IsIncluded: false,
				Calendar:   models.Calendar{UserID: "carol", Events: []models.Event{}},
			},
		},
		CreatedAt: testNow.Add(-24 * time.Hour),
		UpdatedAt: testNow.Add(-24 * time.Hour),
	}
}
