// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// CalendarPublisher pushes a booked event to a participant's external calendar.
// It never feeds information back into scheduling.
type CalendarPublisher interface {
	// PublishEvent inserts the event into the member's external calendar and
	// returns the provider's id for it.
	PublishEvent(ctx context.Context, memberID string, event models.Event) (string, error)

	// IsConnected reports whether the member has linked an external calendar.
	IsConnected(ctx context.Context, memberID string) bool
}

// ConstraintExtractor turns free-form text into scheduling constraints.
type ConstraintExtractor interface {
	Extract(ctx context.Context, text string) (*models.ParsedRequest, error)
}
