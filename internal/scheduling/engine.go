// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package scheduling finds meeting slots where a set of calendars are all free.
package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// DefaultMaxSuggestions is used when the caller asks for zero or fewer suggestions.
const DefaultMaxSuggestions = 3

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Location is the zone clock times and day boundaries are evaluated in.
	// Defaults to time.Local.
	Location *time.Location
	// WorkingHours defaults to DefaultWorkingHours.
	WorkingHours WorkingHours
	// Now is the reference clock for relative days. Defaults to time.Now.
	Now func() time.Time
}

// Engine computes ranked meeting suggestions. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	location *time.Location
	hours    WorkingHours
	now      func() time.Time
}

// NewEngine creates an engine, filling unset config fields with defaults.
func NewEngine(config EngineConfig) *Engine {
	e := &Engine{
		location: config.Location,
		hours:    config.WorkingHours,
		now:      config.Now,
	}
	if e.location == nil {
		e.location = time.Local
	}
	if !e.hours.Valid() {
		e.hours = DefaultWorkingHours
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Location returns the zone the engine evaluates clock times in.
func (e *Engine) Location() *time.Location {
	return e.location
}

// Now returns the engine's reference time.
func (e *Engine) Now() time.Time {
	return e.now()
}

// FindCommonFreeSlots returns up to maxSuggestions suggestions, highest
// confidence first, for slots where every relevant calendar is free.
//
// Calendars are narrowed to constraints.Participants when that list is
// non-empty. No relevant calendar, or no slot long enough, yields an empty
// list and a nil error. A non-positive duration or a malformed clock bound is
// rejected with a validation error.
func (e *Engine) FindCommonFreeSlots(calendars []models.Calendar, constraints models.SchedulingConstraints, maxSuggestions int) ([]models.Suggestion, error) {
	if constraints.Duration <= 0 {
		return nil, domain.NewValidationError(
			fmt.Sprintf("duration must be positive, got %d", constraints.Duration),
			domain.ErrInvalidDuration,
		)
	}
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	relevant := filterCalendars(calendars, constraints.Participants)
	if len(relevant) == 0 {
		return []models.Suggestion{}, nil
	}

	window, err := DateRange(constraints.TimeConstraints, e.now(), e.location)
	if err != nil {
		return nil, err
	}

	minDuration := time.Duration(constraints.Duration) * time.Minute
	busy := MergeBusyIntervals(relevant)
	slots := FindFreeSlots(busy, window, minDuration, e.hours, e.location)
	slots, err = ApplyTimeConstraints(slots, constraints.TimeConstraints, e.location)
	if err != nil {
		return nil, err
	}

	if len(slots) > maxSuggestions {
		slots = slots[:maxSuggestions]
	}

	available := availableMembers(relevant, constraints.Participants)
	described := constraints
	described.Participants = participantNames(relevant, constraints.Participants)
	suggestions := make([]models.Suggestion, 0, len(slots))
	for i, slot := range slots {
		suggestions = append(suggestions, models.Suggestion{
			ID:                fmt.Sprintf("suggestion-%d", i),
			Start:             slot.Start.In(e.location),
			End:               slot.Start.Add(minDuration).In(e.location),
			Confidence:        Confidence(slot, constraints, e.location),
			Assumptions:       Assumptions(constraints),
			NormalizedSummary: Summary(slot, described, e.location),
			AvailableMembers:  available,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	return suggestions, nil
}

func filterCalendars(calendars []models.Calendar, participants []string) []models.Calendar {
	if len(participants) == 0 {
		return calendars
	}
	wanted := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		wanted[p] = struct{}{}
	}
	relevant := make([]models.Calendar, 0, len(calendars))
	for _, c := range calendars {
		if _, ok := wanted[c.UserID]; ok {
			relevant = append(relevant, c)
		}
	}
	return relevant
}

func availableMembers(calendars []models.Calendar, participants []string) []string {
	if len(participants) > 0 {
		return append([]string(nil), participants...)
	}
	ids := make([]string, 0, len(calendars))
	for _, c := range calendars {
		ids = append(ids, c.UserID)
	}
	return ids
}

// participantNames maps participant ids onto the user names of their
// calendars. Ids without a named calendar are kept as they are.
func participantNames(calendars []models.Calendar, participants []string) []string {
	if len(participants) == 0 {
		return nil
	}
	names := make(map[string]string, len(calendars))
	for _, c := range calendars {
		if c.UserName != "" {
			names[c.UserID] = c.UserName
		}
	}
	out := make([]string, 0, len(participants))
	for _, p := range participants {
		if name, ok := names[p]; ok {
			out = append(out, name)
			continue
		}
		out = append(out, p)
	}
	return out
}
