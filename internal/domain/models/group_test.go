// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGroup() *Group {
	start := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	return &Group{
		ID:   "g-1",
		Code: "ABC234",
		Name: "Study Group",
		Members: []Member{
			{ID: "m-1", Name: "Alice", IsIncluded: true, Calendar: Calendar{Events: []Event{
				{ID: "e-1", Title: "Lecture", Start: start, End: start.Add(time.Hour), IsBusy: true},
			}}},
			{ID: "m-2", Name: "Bob", IsIncluded: false},
			{ID: "m-3", Name: "Carol", IsIncluded: true},
		},
	}
}

func TestPriority_IsValid(t *testing.T) {
	assert.True(t, PriorityExam.IsValid())
	assert.True(t, Priority("social").IsValid())
	assert.False(t, Priority("urgent").IsValid())
	assert.False(t, Priority("").IsValid())
}

func TestGroup_Tags(t *testing.T) {
	var nilGroup *Group
	assert.Nil(t, nilGroup.Tags())
	assert.Equal(t, []string{"g-1", "group_id:g-1", "group_code:ABC234"}, testGroup().Tags())
}

func TestGroup_FindMember(t *testing.T) {
	g := testGroup()

	m := g.FindMember("m-3")
	require.NotNil(t, m)
	m.IsIncluded = false
	assert.False(t, g.Members[2].IsIncluded, "FindMember must point into the group")

	assert.Nil(t, g.FindMember("missing"))

	byName := g.FindMemberByName("alice")
	require.NotNil(t, byName)
	assert.Equal(t, "m-1", byName.ID)
	assert.Nil(t, g.FindMemberByName("dave"))
}

func TestGroup_SchedulingCalendars(t *testing.T) {
	tests := []struct {
		name    string
		userIDs []string
		want    []string
	}{
		{name: "all included members", userIDs: nil, want: []string{"m-1", "m-3"}},
		{name: "filtered to requested ids", userIDs: []string{"m-3"}, want: []string{"m-3"}},
		{name: "excluded member is never returned", userIDs: []string{"m-2"}, want: []string{}},
		{name: "unknown id", userIDs: []string{"zzz"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calendars := testGroup().SchedulingCalendars(tt.userIDs)
			got := make([]string, 0, len(calendars))
			for _, c := range calendars {
				got = append(got, c.UserID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroup_SchedulingCalendarsFillsOwner(t *testing.T) {
	calendars := testGroup().SchedulingCalendars(nil)
	require.Len(t, calendars, 2)
	assert.Equal(t, "Alice", calendars[0].UserName)
	assert.Len(t, calendars[0].Events, 1)
}

func TestGroup_Summary(t *testing.T) {
	summary := testGroup().Summary()
	assert.Equal(t, "g-1", summary.ID)
	assert.Equal(t, "ABC234", summary.Code)
	require.Len(t, summary.Members, 3)
	assert.Equal(t, MemberSummary{ID: "m-2", Name: "Bob", IsIncluded: false}, summary.Members[1])
}

func TestGroup_Calendars(t *testing.T) {
	calendars := testGroup().Calendars()
	require.Len(t, calendars, 3)
	assert.Equal(t, "m-2", calendars[1].UserID)
	assert.Equal(t, "Bob", calendars[1].UserName)
	assert.Empty(t, calendars[1].Events)
}
