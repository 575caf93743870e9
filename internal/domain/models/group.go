// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"time"
)

// Priority is the category tag of a calendar event.
type Priority string

// Supported event priorities.
const (
	PriorityLow     Priority = "low"
	PriorityMedium  Priority = "medium"
	PriorityHigh    Priority = "high"
	PriorityExam    Priority = "exam"
	PriorityStudy   Priority = "study"
	PriorityWorkout Priority = "workout"
	PrioritySocial  Priority = "social"
)

// IsValid reports whether p is one of the supported priorities.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityExam, PriorityStudy, PriorityWorkout, PrioritySocial:
		return true
	}
	return false
}

// Event is a single calendar entry. Events with IsBusy=false never block scheduling.
type Event struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Location string    `json:"location,omitempty"`
	Priority Priority  `json:"priority"`
	IsBusy   bool      `json:"is_busy"`
}

// Calendar is the set of events owned by one participant. Events may overlap.
type Calendar struct {
	UserID   string  `json:"user_id"`
	UserName string  `json:"user_name,omitempty"`
	Events   []Event `json:"events"`
}

// Member is a participant of a group.
type Member struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	IsIncluded bool     `json:"is_included"`
	Calendar   Calendar `json:"calendar"`
}

// Group is the key-value store representation of a scheduling group.
type Group struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Members   []Member  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tags returns the tags used when publishing messages about the group.
func (g *Group) Tags() []string {
	if g == nil {
		return nil
	}

	var tags []string
	if g.ID != "" {
		tags = append(tags, g.ID, "group_id:"+g.ID)
	}
	if g.Code != "" {
		tags = append(tags, "group_code:"+g.Code)
	}
	return tags
}

// FindMember returns a pointer into g.Members for the member with the given id.
func (g *Group) FindMember(memberID string) *Member {
	for i := range g.Members {
		if g.Members[i].ID == memberID {
			return &g.Members[i]
		}
	}
	return nil
}

// FindMemberByName matches a member name case-insensitively.
func (g *Group) FindMemberByName(name string) *Member {
	for i := range g.Members {
		if strings.EqualFold(g.Members[i].Name, name) {
			return &g.Members[i]
		}
	}
	return nil
}

// SchedulingCalendars returns the calendars of the included members. When userIDs
// is non-empty only members whose id is listed are considered.
func (g *Group) SchedulingCalendars(userIDs []string) []Calendar {
	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}

	calendars := make([]Calendar, 0, len(g.Members))
	for _, member := range g.Members {
		if !member.IsIncluded {
			continue
		}
		if len(wanted) > 0 {
			if _, ok := wanted[member.ID]; !ok {
				continue
			}
		}
		cal := member.Calendar
		if cal.UserID == "" {
			cal.UserID = member.ID
		}
		if cal.UserName == "" {
			cal.UserName = member.Name
		}
		calendars = append(calendars, cal)
	}
	return calendars
}

// GroupSummary is the public view of a group, without member calendars.
type GroupSummary struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Members   []MemberSummary `json:"members"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MemberSummary is the public view of a member.
type MemberSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsIncluded bool   `json:"is_included"`
}

// Summary strips calendars from the group.
func (g *Group) Summary() GroupSummary {
	members := make([]MemberSummary, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, MemberSummary{ID: m.ID, Name: m.Name, IsIncluded: m.IsIncluded})
	}
	return GroupSummary{
		ID:        g.ID,
		Code:      g.Code,
		Name:      g.Name,
		Members:   members,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// Calendars returns every member's calendar, filling in the owner fields.
func (g *Group) Calendars() []Calendar {
	calendars := make([]Calendar, 0, len(g.Members))
	for _, m := range g.Members {
		calendars = append(calendars, Calendar{
			UserID:   m.ID,
			UserName: m.Name,
			Events:   m.Calendar.Events,
		})
	}
	return calendars
}
