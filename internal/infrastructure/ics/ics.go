// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package ics renders events as iCalendar (RFC 5545) documents.
package ics

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// ICS constants shared by every generated document.
const (
	ProdID      = "-//Linux Foundation//LFX Scheduling Service//EN"
	ICALVersion = "2.0"
	ICALScale   = "GREGORIAN"
	ICALMethod  = "PUBLISH"
	UIDDomain   = "scheduling.lfx.dev"

	propCalendarName = "X-WR-CALNAME"
)

// Errors returned for unusable input.
var (
	ErrMissingTitle = errors.New("title is required")
	ErrInvalidRange = errors.New("event must end after it starts")
	ErrNoEvents     = errors.New("calendar has no events to export")
)

// EventParams describes a single event to export.
type EventParams struct {
	UID         string // generated when empty
	Title       string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

// EventICS returns a calendar document holding one event.
func EventICS(params EventParams) ([]byte, error) {
	if params.Title == "" {
		return nil, ErrMissingTitle
	}
	if !params.End.After(params.Start) {
		return nil, ErrInvalidRange
	}
	if params.UID == "" {
		params.UID = fmt.Sprintf("%s@%s", uuid.NewString(), UIDDomain)
	}

	cal := newCalendar()
	cal.Children = append(cal.Children, newEvent(params, true, ""))
	return encode(cal)
}

// CalendarICS exports every event of a member's calendar. Events that do not
// block scheduling are marked transparent. A calendar without a valid event
// yields ErrNoEvents.
func CalendarICS(calendar models.Calendar) ([]byte, error) {
	cal := newCalendar()
	if calendar.UserName != "" {
		cal.Props.SetText(propCalendarName, calendar.UserName)
	}

	for _, e := range calendar.Events {
		if !e.End.After(e.Start) {
			continue
		}
		cal.Children = append(cal.Children, newEvent(EventParams{
			UID:      fmt.Sprintf("%s@%s", e.ID, UIDDomain),
			Title:    e.Title,
			Location: e.Location,
			Start:    e.Start,
			End:      e.End,
		}, e.IsBusy, string(e.Priority)))
	}
	if len(cal.Children) == 0 {
		return nil, ErrNoEvents
	}

	return encode(cal)
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, ICALVersion)
	cal.Props.SetText(ical.PropProductID, ProdID)
	cal.Props.SetText(ical.PropCalendarScale, ICALScale)
	cal.Props.SetText(ical.PropMethod, ICALMethod)
	return cal
}

func newEvent(params EventParams, busy bool, category string) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, params.UID)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, params.Start.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, params.End.UTC())
	ve.Props.SetText(ical.PropSummary, params.Title)

	if params.Description != "" {
		ve.Props.SetText(ical.PropDescription, params.Description)
	}
	if params.Location != "" {
		ve.Props.SetText(ical.PropLocation, params.Location)
	}
	if category != "" {
		ve.Props.SetText(ical.PropCategories, category)
	}
	if busy {
		ve.Props.SetText(ical.PropTransparency, "OPAQUE")
	} else {
		ve.Props.SetText(ical.PropTransparency, "TRANSPARENT")
	}
	return ve
}

func encode(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
