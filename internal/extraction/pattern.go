// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package extraction turns free-form scheduling requests into structured
// constraints.
package extraction

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/utils"
)

// DefaultDuration is used when the text names no duration.
const DefaultDuration = 60

// AssumptionDefaultDuration is reported when DefaultDuration was applied.
const AssumptionDefaultDuration = "No duration specified, defaulting to 1 hour"

type durationPattern struct {
	re         *regexp.Regexp
	multiplier int
}

// Checked in order; the first match wins.
var durationPatterns = []durationPattern{
	{regexp.MustCompile(`(?i)(\d+)\s*hours?\b`), 60},
	{regexp.MustCompile(`(?i)(\d+)\s*hrs?\b`), 60},
	{regexp.MustCompile(`(?i)(\d+)\s*minutes?\b`), 1},
	{regexp.MustCompile(`(?i)(\d+)\s*mins?\b`), 1},
	{regexp.MustCompile(`(?i)(\d+)\s*h\b`), 60},
	{regexp.MustCompile(`(?i)(\d+)\s*m\b`), 1},
}

type clockKind int

const (
	clockAfter clockKind = iota
	clockBefore
	clockAt
)

type clockPattern struct {
	re   *regexp.Regexp
	kind clockKind
}

var clockPatterns = []clockPattern{
	{regexp.MustCompile(`(?i)\bafter\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`), clockAfter},
	{regexp.MustCompile(`(?i)\bbefore\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`), clockBefore},
	{regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`), clockAt},
	{regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`), clockAt},
	{regexp.MustCompile(`\b(\d{1,2}):(\d{2})()\b`), clockAt},
}

var relativeDayPatterns = []struct {
	re  *regexp.Regexp
	day models.RelativeDay
}{
	{regexp.MustCompile(`(?i)\btomorrow\b`), models.RelativeDayTomorrow},
	{regexp.MustCompile(`(?i)\btoday\b`), models.RelativeDayToday},
	{regexp.MustCompile(`(?i)\bthis\s+week\b`), models.RelativeDayThisWeek},
	{regexp.MustCompile(`(?i)\bnext\s+week\b`), models.RelativeDayNextWeek},
}

// Index is the weekday number, Sunday first.
var weekdayPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsun(day)?\b`),
	regexp.MustCompile(`(?i)\bmon(day)?\b`),
	regexp.MustCompile(`(?i)\btue(s|sday)?\b`),
	regexp.MustCompile(`(?i)\bwed(nesday)?\b`),
	regexp.MustCompile(`(?i)\bthu(rs|rsday)?\b`),
	regexp.MustCompile(`(?i)\bfri(day)?\b`),
	regexp.MustCompile(`(?i)\bsat(urday)?\b`),
}

var windowPatterns = []struct {
	re     *regexp.Regexp
	window models.TimeWindow
}{
	{regexp.MustCompile(`(?i)\bmornings?\b`), models.TimeWindowMorning},
	{regexp.MustCompile(`(?i)\bafternoons?\b`), models.TimeWindowAfternoon},
	{regexp.MustCompile(`(?i)\bevenings?\b`), models.TimeWindowEvening},
	{regexp.MustCompile(`(?i)\b(to)?nights?\b`), models.TimeWindowNight},
}

var participantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwith\s+(.+)`),
	regexp.MustCompile(`(?i)\bincluding\s+(.+)`),
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bat\s+([^,]+)`),
	regexp.MustCompile(`(?i)\bin\s+([^,]+)`),
}

var priorityPatterns = []struct {
	re       *regexp.Regexp
	priority models.Priority
}{
	{regexp.MustCompile(`(?i)\bexams?\b`), models.PriorityExam},
	{regexp.MustCompile(`(?i)\bstudy(ing)?\b`), models.PriorityStudy},
	{regexp.MustCompile(`(?i)\b(workout|gym)\b`), models.PriorityWorkout},
	{regexp.MustCompile(`(?i)\bsocial\b`), models.PrioritySocial},
	{regexp.MustCompile(`(?i)\burgent\b`), models.PriorityHigh},
}

// A phrase captured after "with" or "at" ends where another clause begins.
var clauseBoundary = regexp.MustCompile(`(?i)\s+(?:\d|(?:with|including|at|in|on|for|from|after|before|tomorrow|today|this|next|around|during|morning|afternoon|evening|night|tonight|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b)`)

var listSeparator = regexp.MustCompile(`(?i)\s*,\s*|\s+and\s+|\s*&\s*`)

// Phrases after "at"/"in" that are times of day rather than places.
var notALocation = regexp.MustCompile(`(?i)^(\d|the\s+(morning|afternoon|evening|night)\b|(morning|afternoon|evening|night|noon)\b)`)

// PatternExtractor reads constraints out of text with a cascade of regular
// expressions. It never calls out of process.
type PatternExtractor struct{}

// NewPatternExtractor returns a PatternExtractor.
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{}
}

// Extract implements domain.ConstraintExtractor.
func (p *PatternExtractor) Extract(_ context.Context, text string) (*models.ParsedRequest, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("transcript is required")
	}

	assumptions := []string{}
	summary := []string{}

	duration, found := parseDuration(text)
	if !found {
		duration = DefaultDuration
		assumptions = append(assumptions, AssumptionDefaultDuration)
		summary = append(summary, "1 hour")
	} else {
		summary = append(summary, fmt.Sprintf("%dh %dm", duration/60, duration%60))
	}

	tc := parseTimeConstraint(text)
	if tc.RelativeDay != "" {
		summary = append(summary, strings.ReplaceAll(string(tc.RelativeDay), "_", " "))
	}
	if tc.DayOfWeek != nil {
		summary = append(summary, "on "+weekdayName(*tc.DayOfWeek))
	}
	if tc.TimeWindow != "" {
		summary = append(summary, "in the "+string(tc.TimeWindow))
	}
	if tc.StartTime != "" {
		summary = append(summary, "after "+tc.StartTime)
	}
	if tc.EndTime != "" {
		summary = append(summary, "before "+tc.EndTime)
	}

	participants := parseParticipants(text)
	if len(participants) > 0 {
		summary = append(summary, "with "+strings.Join(participants, ", "))
	}

	location := parseLocation(text)
	if location != "" {
		summary = append(summary, "at "+location)
	}

	priority := parsePriority(text)
	if priority != "" {
		summary = append(summary, fmt.Sprintf("(%s priority)", priority))
	}

	return &models.ParsedRequest{
		Constraints: models.SchedulingConstraints{
			Duration:        duration,
			Participants:    participants,
			Location:        location,
			Priority:        string(priority),
			TimeConstraints: tc,
		},
		NormalizedSummary: strings.Join(summary, " "),
		Assumptions:       assumptions,
	}, nil
}

func parseDuration(text string) (int, bool) {
	for _, p := range durationPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		return n * p.multiplier, true
	}
	return 0, false
}

func parseTimeConstraint(text string) models.TimeConstraint {
	var tc models.TimeConstraint

	for _, p := range relativeDayPatterns {
		if p.re.MatchString(text) {
			tc.RelativeDay = p.day
			break
		}
	}

	for day, re := range weekdayPatterns {
		if re.MatchString(text) {
			tc.DayOfWeek = utils.IntPtr(day)
			break
		}
	}

	for _, p := range windowPatterns {
		if p.re.MatchString(text) {
			tc.TimeWindow = p.window
			break
		}
	}

	for _, p := range clockPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		minutes, ok := clockMinutes(m[1], m[2], m[3])
		if !ok {
			continue
		}
		switch p.kind {
		case clockAfter, clockAt:
			// an exact time only sets the earliest start, an end bound would
			// drop every free gap running past it
			tc.StartTime = formatClock(minutes)
		case clockBefore:
			tc.EndTime = formatClock(minutes)
		}
		break
	}

	return tc
}

// clockMinutes converts a matched hour, minute and meridiem to minutes past
// midnight.
func clockMinutes(hourText, minuteText, meridiem string) (int, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, false
	}
	minute := 0
	if minuteText != "" {
		if minute, err = strconv.Atoi(minuteText); err != nil {
			return 0, false
		}
	}

	switch strings.ToLower(meridiem) {
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour < 1 || hour > 12 {
			return 0, false
		}
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func weekdayName(day int) string {
	names := [...]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if day < 0 || day >= len(names) {
		return ""
	}
	return names[day]
}

// untilNextClause cuts phrase at the first word that starts a new clause.
func untilNextClause(phrase string) string {
	if loc := clauseBoundary.FindStringIndex(phrase); loc != nil {
		phrase = phrase[:loc[0]]
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(phrase), ".!?"))
}

func parseParticipants(text string) []string {
	for _, re := range participantPatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		var names []string
		for _, name := range listSeparator.Split(untilNextClause(m[1]), -1) {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return []string{}
}

func parseLocation(text string) string {
	for _, re := range locationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			raw := strings.TrimSpace(m[1])
			if notALocation.MatchString(raw) {
				continue
			}
			if candidate := untilNextClause(raw); candidate != "" {
				return candidate
			}
		}
	}
	return ""
}

func parsePriority(text string) models.Priority {
	for _, p := range priorityPatterns {
		if p.re.MatchString(text) {
			return p.priority
		}
	}
	return ""
}
