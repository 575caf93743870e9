// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

const calendarsJSON = `[
  {"user_id": "alice", "user_name": "Alice", "events": [
    {"id": "a1", "title": "Lecture", "start": "2025-01-07T09:00:00Z", "end": "2025-01-07T11:00:00Z", "priority": "high", "is_busy": true}
  ]},
  {"user_id": "bob", "user_name": "Bob", "events": [
    {"id": "b1", "title": "Lunch", "start": "2025-01-07T12:00:00Z", "end": "2025-01-07T13:00:00Z", "priority": "social", "is_busy": true},
    {"id": "b2", "title": "Gym", "start": "2025-01-07T14:00:00Z", "end": "2025-01-07T15:00:00Z", "priority": "workout", "is_busy": false}
  ]}
]`

func writeCalendars(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calendars.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"slotfinder"}, args...))
	return out.String(), err
}

func TestSuggest(t *testing.T) {
	path := writeCalendars(t, calendarsJSON)

	out, err := runApp(t, "suggest", "--calendars", path, "--duration", "60",
		"--now", "2025-01-07T08:00:00Z", "--max", "10")
	require.NoError(t, err)

	var suggestions []models.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &suggestions))
	require.NotEmpty(t, suggestions)

	busy := []struct{ start, end time.Time }{
		{time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC), time.Date(2025, 1, 7, 11, 0, 0, 0, time.UTC)},
		{time.Date(2025, 1, 7, 12, 0, 0, 0, time.UTC), time.Date(2025, 1, 7, 13, 0, 0, 0, time.UTC)},
	}
	for _, s := range suggestions {
		assert.Equal(t, time.Hour, s.End.Sub(s.Start))
		for _, b := range busy {
			assert.False(t, s.Start.Before(b.end) && s.End.After(b.start), "suggestion at %v overlaps busy time", s.Start)
		}
	}
}

func TestSuggest_AcceptsAPIDocument(t *testing.T) {
	path := writeCalendars(t, `{"calendars": `+calendarsJSON+`}`)

	out, err := runApp(t, "suggest", "-c", path, "--now", "2025-01-07T08:00:00Z", "--start", "13:00")
	require.NoError(t, err)

	var suggestions []models.Suggestion
	require.NoError(t, json.Unmarshal([]byte(out), &suggestions))
	require.Len(t, suggestions, 1)
	assert.Equal(t, time.Date(2025, 1, 7, 13, 0, 0, 0, time.UTC), suggestions[0].Start.UTC())
}

func TestSuggest_Errors(t *testing.T) {
	path := writeCalendars(t, calendarsJSON)

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing calendars flag", args: []string{"suggest"}},
		{name: "unreadable file", args: []string{"suggest", "-c", filepath.Join(t.TempDir(), "missing.json")}},
		{name: "malformed file", args: []string{"suggest", "-c", writeCalendars(t, "not json")}},
		{name: "bad timezone", args: []string{"suggest", "-c", path, "--tz", "Nowhere/Else"}},
		{name: "empty working day", args: []string{"suggest", "-c", path, "--workday-start", "17:00", "--workday-end", "09:00"}},
		{name: "non-positive duration", args: []string{"suggest", "-c", path, "--duration", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runApp(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestParse(t *testing.T) {
	out, err := runApp(t, "parse", "30", "minutes", "tomorrow", "morning")
	require.NoError(t, err)

	var parsed models.ParsedRequest
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, 30, parsed.Constraints.Duration)
	assert.Equal(t, models.RelativeDayTomorrow, parsed.Constraints.TimeConstraints.RelativeDay)
	assert.Equal(t, models.TimeWindowMorning, parsed.Constraints.TimeConstraints.TimeWindow)

	_, err = runApp(t, "parse")
	assert.Error(t, err)
}

func TestWorkingHours(t *testing.T) {
	hours, err := workingHours("08:30", "16:00")
	require.NoError(t, err)
	assert.Equal(t, 510, hours.Start)
	assert.Equal(t, 960, hours.End)

	_, err = workingHours("8", "16:00")
	assert.Error(t, err)
}
