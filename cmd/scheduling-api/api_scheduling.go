// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/infrastructure/ics"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/service"
)

type parseRequest struct {
	Transcript string `json:"transcript"`
}

// Parse turns a free-form request into scheduling constraints.
func (s *SchedulingAPI) Parse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	parsed, err := s.scheduling.Parse(ctx, req.Transcript)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, parsed)
}

type scheduleRequest struct {
	GroupID        string                        `json:"group_id"`
	UserIDs        []string                      `json:"user_ids"`
	Constraints    *models.SchedulingConstraints `json:"constraints"`
	Transcript     string                        `json:"transcript"`
	MaxSuggestions int                           `json:"max_suggestions"`
}

type scheduleResponse struct {
	Suggestions []models.Suggestion   `json:"suggestions"`
	Parsed      *models.ParsedRequest `json:"parsed,omitempty"`
}

// Schedule returns meeting suggestions. Constraints are taken as given, or
// extracted from the transcript when only that is sent.
func (s *SchedulingAPI) Schedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	var parsed *models.ParsedRequest
	if req.Constraints == nil {
		if req.Transcript == "" {
			handleError(ctx, w, domain.NewValidationError("group id and constraints are required"))
			return
		}
		var err error
		parsed, err = s.scheduling.Parse(ctx, req.Transcript)
		if err != nil {
			handleError(ctx, w, err)
			return
		}
		req.Constraints = &parsed.Constraints
	}

	suggestions, err := s.scheduling.Suggest(ctx, service.SuggestRequest{
		GroupID:        req.GroupID,
		UserIDs:        req.UserIDs,
		Constraints:    *req.Constraints,
		MaxSuggestions: req.MaxSuggestions,
	})
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, scheduleResponse{Suggestions: suggestions, Parsed: parsed})
}

type slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type bookRequest struct {
	GroupID    string             `json:"group_id"`
	UserIDs    []string           `json:"user_ids"`
	Slot       *slot              `json:"slot"`
	Title      string             `json:"title"`
	Location   string             `json:"location"`
	Recurrence *models.Recurrence `json:"recurrence"`
}

type bookResponse struct {
	Event          models.Event   `json:"event"`
	Events         []models.Event `json:"events"`
	UpdatedMembers int            `json:"updated_members"`
}

// Book writes a slot into the calendars of the chosen members.
func (s *SchedulingAPI) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bookRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}
	if req.Slot == nil {
		handleError(ctx, w, domain.NewValidationError("group id, user ids and slot are required"))
		return
	}

	result, err := s.booking.Book(ctx, service.BookingRequest{
		GroupID:    req.GroupID,
		UserIDs:    req.UserIDs,
		Start:      req.Slot.Start,
		End:        req.Slot.End,
		Title:      req.Title,
		Location:   req.Location,
		Recurrence: req.Recurrence,
	})
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, bookResponse{
		Event:          result.Events[0],
		Events:         result.Events,
		UpdatedMembers: result.UpdatedMembers,
	})
}

type icsRequest struct {
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
}

// EventICS renders a single event as an iCalendar file.
func (s *SchedulingAPI) EventICS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req icsRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	data, err := ics.EventICS(ics.EventParams{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Start:       req.Start,
		End:         req.End,
	})
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeCalendar(w, "event.ics", data)
}
