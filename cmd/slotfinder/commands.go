// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/extraction"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/scheduling"
)

func suggestCommand() *cli.Command {
	return &cli.Command{
		Name:  "suggest",
		Usage: "Suggest meeting slots where every calendar is free.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "calendars", Aliases: []string{"c"}, Required: true, Usage: "JSON file with the calendars to schedule against"},
			&cli.StringFlag{Name: "text", Usage: "free-form request; explicit flags override what is parsed from it"},
			&cli.IntFlag{Name: "duration", Value: 60, Usage: "meeting length in minutes"},
			&cli.StringFlag{Name: "day", Usage: "today, tomorrow, this_week or next_week"},
			&cli.StringFlag{Name: "date", Usage: "specific date as YYYY-MM-DD"},
			&cli.StringFlag{Name: "start", Usage: "earliest start as HH:MM"},
			&cli.StringFlag{Name: "end", Usage: "latest end as HH:MM"},
			&cli.StringFlag{Name: "window", Usage: "morning, afternoon, evening or night"},
			&cli.StringSliceFlag{Name: "participant", Aliases: []string{"p"}, Usage: "limit to these user ids or names"},
			&cli.IntFlag{Name: "max", Value: scheduling.DefaultMaxSuggestions, Usage: "maximum number of suggestions"},
			&cli.StringFlag{Name: "tz", Value: "UTC", EnvVars: []string{"TIMEZONE"}, Usage: "timezone the working day is evaluated in"},
			&cli.StringFlag{Name: "workday-start", Value: "09:00", EnvVars: []string{"WORKDAY_START"}},
			&cli.StringFlag{Name: "workday-end", Value: "17:00", EnvVars: []string{"WORKDAY_END"}},
			&cli.TimestampFlag{Name: "now", Layout: time.RFC3339, Usage: "reference time for relative days (RFC 3339)"},
		},
		Action: func(c *cli.Context) error {
			loc, err := time.LoadLocation(c.String("tz"))
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", c.String("tz"), err)
			}
			hours, err := workingHours(c.String("workday-start"), c.String("workday-end"))
			if err != nil {
				return err
			}

			calendars, err := loadCalendars(c.String("calendars"))
			if err != nil {
				return err
			}

			constraints, err := buildConstraints(c)
			if err != nil {
				return err
			}

			now := time.Now
			if ts := c.Timestamp("now"); ts != nil {
				fixed := *ts
				now = func() time.Time { return fixed }
			}

			engine := scheduling.NewEngine(scheduling.EngineConfig{
				Location:     loc,
				WorkingHours: hours,
				Now:          now,
			})

			tc := &constraints.TimeConstraints
			if tc.DayOfWeek != nil && tc.SpecificDate == "" && tc.RelativeDay == "" {
				day, err := scheduling.NextWeekday(engine.Now(), *tc.DayOfWeek, loc)
				if err != nil {
					return err
				}
				tc.SpecificDate = day.Format(scheduling.DateLayout)
			}

			suggestions, err := engine.FindCommonFreeSlots(calendars, constraints, c.Int("max"))
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, suggestions)
		},
	}
}

func parseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Print the constraints extracted from a free-form request.",
		ArgsUsage: "<text>",
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return cli.Exit("parse needs the request text as arguments", 2)
			}

			parsed, err := extraction.NewPatternExtractor().Extract(c.Context, text)
			if err != nil {
				return err
			}
			return writeJSON(c.App.Writer, parsed)
		},
	}
}

// buildConstraints starts from the parsed --text request, if any, and applies
// the explicit flags on top.
func buildConstraints(c *cli.Context) (models.SchedulingConstraints, error) {
	constraints := models.SchedulingConstraints{
		Duration:     c.Int("duration"),
		Participants: []string{},
	}

	if text := c.String("text"); text != "" {
		parsed, err := extraction.NewPatternExtractor().Extract(c.Context, text)
		if err != nil {
			return models.SchedulingConstraints{}, err
		}
		constraints = parsed.Constraints
		if c.IsSet("duration") {
			constraints.Duration = c.Int("duration")
		}
	}

	tc := &constraints.TimeConstraints
	if c.IsSet("day") {
		tc.RelativeDay = models.RelativeDay(c.String("day"))
	}
	if c.IsSet("date") {
		tc.SpecificDate = c.String("date")
	}
	if c.IsSet("start") {
		tc.StartTime = c.String("start")
	}
	if c.IsSet("end") {
		tc.EndTime = c.String("end")
	}
	if c.IsSet("window") {
		tc.TimeWindow = models.TimeWindow(c.String("window"))
	}
	if c.IsSet("participant") {
		constraints.Participants = c.StringSlice("participant")
	}
	return constraints, nil
}

func workingHours(start, end string) (scheduling.WorkingHours, error) {
	startMinutes, err := scheduling.TimeToMinutes(start)
	if err != nil {
		return scheduling.WorkingHours{}, fmt.Errorf("invalid workday start: %w", err)
	}
	endMinutes, err := scheduling.TimeToMinutes(end)
	if err != nil {
		return scheduling.WorkingHours{}, fmt.Errorf("invalid workday end: %w", err)
	}
	hours := scheduling.WorkingHours{Start: startMinutes, End: endMinutes}
	if !hours.Valid() {
		return scheduling.WorkingHours{}, fmt.Errorf("working day %s-%s is empty", start, end)
	}
	return hours, nil
}

// loadCalendars reads either a bare JSON array of calendars or the
// {"calendars": [...]} document the API returns.
func loadCalendars(path string) ([]models.Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading calendars: %w", err)
	}

	var calendars []models.Calendar
	if err := json.Unmarshal(data, &calendars); err == nil {
		return calendars, nil
	}

	var doc struct {
		Calendars []models.Calendar `json:"calendars"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding calendars in %s: %w", path, err)
	}
	return doc.Calendars, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
