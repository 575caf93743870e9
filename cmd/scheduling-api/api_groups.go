// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/infrastructure/ics"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/constants"
)

// Group actions accepted by POST /groups.
const (
	actionCreate = "create"
	actionJoin   = "join"
)

type groupRequest struct {
	Action     string `json:"action"`
	GroupName  string `json:"group_name"`
	MemberName string `json:"member_name"`
	GroupCode  string `json:"group_code"`
}

type membershipResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	MemberID   string `json:"member_id,omitempty"`
	MemberName string `json:"member_name,omitempty"`
	JoinLink   string `json:"join_link"`
}

func toMembershipResponse(m *service.Membership) membershipResponse {
	return membershipResponse{
		ID:         m.Group.ID,
		Code:       m.Group.Code,
		Name:       m.Group.Name,
		MemberID:   m.MemberID,
		MemberName: m.MemberName,
		JoinLink:   m.JoinLink,
	}
}

// CreateOrJoinGroup creates a group or joins one by code, depending on action.
func (s *SchedulingAPI) CreateOrJoinGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	switch req.Action {
	case actionCreate:
		membership, err := s.groups.CreateGroup(ctx, req.GroupName, req.MemberName)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusCreated, toMembershipResponse(membership))
	case actionJoin:
		membership, err := s.groups.JoinGroup(ctx, req.GroupCode, req.MemberName)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		writeJSON(ctx, w, http.StatusOK, toMembershipResponse(membership))
	default:
		handleError(ctx, w, domain.NewValidationError(fmt.Sprintf("invalid action %q", req.Action)))
	}
}

// GetGroup returns the group without member calendars. The ETag carries the
// revision to send back as If-Match on delete.
func (s *SchedulingAPI) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	group, revision, err := s.groups.GetGroup(ctx, mux.Vars(r)["id"])
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	w.Header().Set(constants.EtagHeader, etag(revision))
	writeJSON(ctx, w, http.StatusOK, group.Summary())
}

// DeleteGroup deletes the group, checking If-Match when it is sent.
func (s *SchedulingAPI) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	revision, err := ifMatchRevision(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	if err := s.groups.DeleteGroup(ctx, mux.Vars(r)["id"], revision); err != nil {
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCalendars returns every member's calendar.
func (s *SchedulingAPI) GetCalendars(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	calendars, err := s.groups.GetCalendars(ctx, mux.Vars(r)["groupId"])
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, map[string]any{"calendars": calendars})
}

type includedRequest struct {
	Included *bool `json:"included"`
}

// SetMemberIncluded toggles whether a member takes part in scheduling.
func (s *SchedulingAPI) SetMemberIncluded(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	var req includedRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}
	if req.Included == nil {
		handleError(ctx, w, domain.NewValidationError("included is required"))
		return
	}

	group, err := s.groups.SetMemberIncluded(ctx, vars["id"], vars["memberId"], *req.Included)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, group.Summary())
}

type addEventsRequest struct {
	Events []models.Event `json:"events"`
}

// AddEvents appends events to a member's calendar.
func (s *SchedulingAPI) AddEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	var req addEventsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	events, err := s.groups.AddEvents(ctx, vars["id"], vars["memberId"], req.Events)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, map[string]any{"events": events})
}

// DeleteEvent removes one event from a member's calendar.
func (s *SchedulingAPI) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	if err := s.groups.DeleteEvent(ctx, vars["id"], vars["memberId"], vars["eventId"]); err != nil {
		handleError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MemberCalendarICS exports a member's calendar as an iCalendar file.
func (s *SchedulingAPI) MemberCalendarICS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	cal, err := s.groups.MemberCalendar(ctx, vars["id"], vars["memberId"])
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	data, err := ics.CalendarICS(*cal)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeCalendar(w, "calendar.ics", data)
}

func writeCalendar(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeCalendar)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
