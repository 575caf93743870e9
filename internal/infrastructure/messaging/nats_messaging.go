// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
)

// ErrNotConnected is returned when publishing without a live NATS connection.
var ErrNotConnected = errors.New("nats connection is not established")

// INatsConn is a NATS connection interface needed for the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// sendMessage sends the message to the NATS server.
func (m *MessageBuilder) sendMessage(ctx context.Context, subject string, data []byte) error {
	if m.NatsConn == nil || !m.NatsConn.IsConnected() {
		slog.WarnContext(ctx, "dropping message, NATS is not connected", "subject", subject)
		return ErrNotConnected
	}
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// SendBookingCreated publishes a booking notification on the group's booking
// subject. The payload is msgpack encoded.
func (m *MessageBuilder) SendBookingCreated(ctx context.Context, event models.BookingEvent) error {
	dataBytes, err := msgpack.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling booking event into msgpack", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "publishing booking event",
		"group_id", event.GroupID,
		"events_count", len(event.Events),
		"updated_members", event.UpdatedMembers,
	)

	return m.sendMessage(ctx, models.BookingSubject(event.GroupID), dataBytes)
}

// SendGroupDeleted sends a message about a group being deleted.
func (m *MessageBuilder) SendGroupDeleted(ctx context.Context, data models.GroupDeletedMessage) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err)
		return err
	}

	return m.sendMessage(ctx, models.GroupDeletedSubject, dataBytes)
}
