// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"fmt"
	"time"
)

// NATS subjects that the scheduling service sends messages about.
const (
	// BookingCreatedSubject is the subject prefix for booking notifications.
	// The subject is of the form: lfx.scheduling.booking_created.<group_id>
	BookingCreatedSubject = "lfx.scheduling.booking_created"

	// GroupDeletedSubject is the subject for group deletion notifications.
	// The subject is of the form: lfx.scheduling.group_deleted
	GroupDeletedSubject = "lfx.scheduling.group_deleted"
)

// BookingSubject returns the per-group booking subject subscribers listen on.
func BookingSubject(groupID string) string {
	return fmt.Sprintf("%s.%s", BookingCreatedSubject, groupID)
}

// BookedEvent is the slice of the booked event carried by a notification.
type BookedEvent struct {
	ID    string    `json:"id" msgpack:"id"`
	Title string    `json:"title" msgpack:"title"`
	Start time.Time `json:"start" msgpack:"start"`
	End   time.Time `json:"end" msgpack:"end"`
}

// BookingEvent is published after a booking has been persisted.
type BookingEvent struct {
	Type           string        `json:"type" msgpack:"type"`
	GroupID        string        `json:"group_id" msgpack:"group_id"`
	Events         []BookedEvent `json:"events" msgpack:"events"`
	UpdatedMembers int           `json:"updated_members" msgpack:"updated_members"`
	Timestamp      time.Time     `json:"timestamp" msgpack:"timestamp"`
}

// GroupDeletedMessage is published after a group has been removed.
type GroupDeletedMessage struct {
	GroupID string `json:"group_id" msgpack:"group_id"`
	Code    string `json:"code" msgpack:"code"`
}
