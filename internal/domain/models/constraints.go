// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// RelativeDay is a day reference relative to "now".
type RelativeDay string

// Supported relative days.
const (
	RelativeDayToday    RelativeDay = "today"
	RelativeDayTomorrow RelativeDay = "tomorrow"
	RelativeDayThisWeek RelativeDay = "this_week"
	RelativeDayNextWeek RelativeDay = "next_week"
)

// TimeWindow is a named part of the day.
type TimeWindow string

// Supported time windows.
const (
	TimeWindowMorning   TimeWindow = "morning"
	TimeWindowAfternoon TimeWindow = "afternoon"
	TimeWindowEvening   TimeWindow = "evening"
	TimeWindowNight     TimeWindow = "night"
)

// RecurrenceFrequency is how often a recurring booking repeats.
type RecurrenceFrequency string

// Supported recurrence frequencies.
const (
	FrequencyDaily    RecurrenceFrequency = "daily"
	FrequencyWeekly   RecurrenceFrequency = "weekly"
	FrequencyBiweekly RecurrenceFrequency = "biweekly"
)

// TimeConstraint narrows when a meeting may happen. Every field is optional and
// an absent field leaves that dimension unconstrained.
type TimeConstraint struct {
	Duration     *int        `json:"duration,omitempty" mapstructure:"duration"`
	StartTime    string      `json:"start_time,omitempty" mapstructure:"startTime"`
	EndTime      string      `json:"end_time,omitempty" mapstructure:"endTime"`
	RelativeDay  RelativeDay `json:"relative_day,omitempty" mapstructure:"relativeDay"`
	SpecificDate string      `json:"specific_date,omitempty" mapstructure:"specificDate"`
	DayOfWeek    *int        `json:"day_of_week,omitempty" mapstructure:"dayOfWeek"`
	TimeWindow   TimeWindow  `json:"time_window,omitempty" mapstructure:"timeWindow"`
}

// Recurrence describes a repeating booking.
type Recurrence struct {
	Frequency  RecurrenceFrequency `json:"frequency" mapstructure:"frequency"`
	Count      int                 `json:"count" mapstructure:"count"`
	DaysOfWeek []int               `json:"days_of_week,omitempty" mapstructure:"daysOfWeek"`
}

// SchedulingConstraints is the structured form of a scheduling request.
type SchedulingConstraints struct {
	Duration        int            `json:"duration" mapstructure:"duration"`
	Participants    []string       `json:"participants" mapstructure:"participants"`
	Location        string         `json:"location,omitempty" mapstructure:"location"`
	Priority        string         `json:"priority,omitempty" mapstructure:"priority"`
	TimeConstraints TimeConstraint `json:"time_constraints" mapstructure:"timeConstraints"`
	Recurrence      *Recurrence    `json:"recurrence,omitempty" mapstructure:"recurrence"`
}

// ParsedRequest is what a constraint extractor produces from free-form text.
type ParsedRequest struct {
	Constraints       SchedulingConstraints `json:"constraints"`
	NormalizedSummary string                `json:"normalized_summary"`
	Assumptions       []string              `json:"assumptions"`
}

// Suggestion is a scored candidate meeting slot. Suggestions are never persisted.
type Suggestion struct {
	ID                string    `json:"id"`
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	Confidence        float64   `json:"confidence"`
	Assumptions       []string  `json:"assumptions"`
	NormalizedSummary string    `json:"normalized_summary"`
	AvailableMembers  []string  `json:"available_members"`
}
