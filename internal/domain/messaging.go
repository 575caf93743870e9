// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// BookingNotifier is told about every booking after it has been persisted.
type BookingNotifier interface {
	SendBookingCreated(ctx context.Context, event models.BookingEvent) error
}

// GroupEventSender handles group lifecycle events.
type GroupEventSender interface {
	SendGroupDeleted(ctx context.Context, data models.GroupDeletedMessage) error
}

// MessageBuilder is the main interface that composes all messaging capabilities.
type MessageBuilder interface {
	BookingNotifier
	GroupEventSender
}
