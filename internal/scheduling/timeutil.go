// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// DateLayout is the layout of specific dates in time constraints.
const DateLayout = "2006-01-02"

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether the two intervals share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// MinuteRange is a [Start, End] range of minutes since midnight.
type MinuteRange struct {
	Start int
	End   int
}

// Contains reports whether minute lies within the range, bounds included.
func (r MinuteRange) Contains(minute int) bool {
	return minute >= r.Start && minute <= r.End
}

// TimeToMinutes converts an "HH:MM" clock time into minutes since midnight.
func TimeToMinutes(clock string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(clock), ":")
	if !ok {
		return 0, domain.NewValidationError(fmt.Sprintf("invalid clock time %q, expected HH:MM", clock))
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, domain.NewValidationError(fmt.Sprintf("invalid hour in clock time %q", clock))
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, domain.NewValidationError(fmt.Sprintf("invalid minute in clock time %q", clock))
	}
	return hours*60 + minutes, nil
}

// MinutesToTime converts minutes since midnight into a zero padded "HH:MM".
func MinutesToTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns the minutes since midnight of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// ResolveRelativeDay maps a relative day onto a concrete instant. Unknown values
// resolve to now. Spaces are accepted in place of underscores ("next week").
func ResolveRelativeDay(day models.RelativeDay, now time.Time) time.Time {
	normalized := models.RelativeDay(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(string(day))), " ", "_"))
	switch normalized {
	case models.RelativeDayTomorrow:
		return now.AddDate(0, 0, 1)
	case models.RelativeDayNextWeek:
		return now.AddDate(0, 0, 7)
	default:
		// today, this_week and anything unrecognised
		return now
	}
}

// WindowBounds returns the minute range of a named time window. An empty or
// unknown window yields the default 09:00-21:00 range.
func WindowBounds(window models.TimeWindow) MinuteRange {
	switch models.TimeWindow(strings.ToLower(string(window))) {
	case models.TimeWindowMorning:
		return MinuteRange{Start: 6 * 60, End: 12 * 60}
	case models.TimeWindowAfternoon:
		return MinuteRange{Start: 12 * 60, End: 17 * 60}
	case models.TimeWindowEvening:
		return MinuteRange{Start: 17 * 60, End: 21 * 60}
	case models.TimeWindowNight:
		return MinuteRange{Start: 21 * 60, End: 23*60 + 59}
	default:
		return MinuteRange{Start: 9 * 60, End: 21 * 60}
	}
}

// StartOfDay returns local midnight of the calendar day of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// DayInterval returns the full local day containing t, midnight to next midnight.
func DayInterval(t time.Time, loc *time.Location) Interval {
	start := StartOfDay(t, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// NextWeekday returns the first local day on or after now that falls on
// weekday (0 is Sunday).
func NextWeekday(now time.Time, weekday int, loc *time.Location) (time.Time, error) {
	if weekday < 0 || weekday > 6 {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("day of week %d is out of range", weekday))
	}
	day := StartOfDay(now, loc)
	ahead := (weekday - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, ahead), nil
}

// DateRange resolves the search window of a time constraint. A specific date
// wins over a relative day and the reference day is used when neither is set.
func DateRange(tc models.TimeConstraint, now time.Time, loc *time.Location) (Interval, error) {
	if tc.SpecificDate != "" {
		date, err := time.ParseInLocation(DateLayout, tc.SpecificDate, loc)
		if err != nil {
			// full timestamps are accepted as well, only their own date part is used
			ts, tsErr := time.Parse(time.RFC3339, tc.SpecificDate)
			if tsErr != nil {
				return Interval{}, domain.NewValidationError(fmt.Sprintf("invalid specific date %q", tc.SpecificDate), err)
			}
			year, month, day := ts.Date()
			date = time.Date(year, month, day, 0, 0, 0, 0, loc)
		}
		return DayInterval(date, loc), nil
	}

	if tc.RelativeDay != "" {
		return DayInterval(ResolveRelativeDay(tc.RelativeDay, now), loc), nil
	}

	return DayInterval(now, loc), nil
}
