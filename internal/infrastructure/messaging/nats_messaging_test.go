// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// MockNATSConn is a mock of the NATS connection.
type MockNATSConn struct {
	mock.Mock
}

func (m *MockNATSConn) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNATSConn) Publish(subj string, data []byte) error {
	args := m.Called(subj, data)
	return args.Error(0)
}

func TestMessageBuilder_sendMessage(t *testing.T) {
	tests := []struct {
		name         string
		connected    bool
		publishError error
		expectError  error
	}{
		{
			name:      "successful send",
			connected: true,
		},
		{
			name:         "publish error",
			connected:    true,
			publishError: errors.New("publish failed"),
			expectError:  errors.New("publish failed"),
		},
		{
			name:        "disconnected",
			connected:   false,
			expectError: ErrNotConnected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockConn := new(MockNATSConn)
			mockConn.On("IsConnected").Return(tt.connected)
			if tt.connected {
				mockConn.On("Publish", "test.subject", []byte("test data")).Return(tt.publishError)
			}

			builder := NewMessageBuilder(mockConn)
			err := builder.sendMessage(context.Background(), "test.subject", []byte("test data"))

			if tt.expectError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectError.Error(), err.Error())
			} else {
				require.NoError(t, err)
			}
			mockConn.AssertExpectations(t)
		})
	}
}

func TestMessageBuilder_SendBookingCreated(t *testing.T) {
	start := time.Date(2025, 1, 7, 14, 0, 0, 0, time.UTC)
	event := models.BookingEvent{
		Type:           "booking_created",
		GroupID:        "group-1",
		Events:         []models.BookedEvent{{ID: "e-1", Title: "Review", Start: start, End: start.Add(time.Hour)}},
		UpdatedMembers: 3,
		Timestamp:      start,
	}

	mockConn := new(MockNATSConn)
	mockConn.On("IsConnected").Return(true)
	mockConn.On("Publish", "lfx.scheduling.booking_created.group-1", mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) {
			var decoded models.BookingEvent
			require.NoError(t, msgpack.Unmarshal(args.Get(1).([]byte), &decoded))
			assert.Equal(t, "group-1", decoded.GroupID)
			assert.Equal(t, 3, decoded.UpdatedMembers)
			require.Len(t, decoded.Events, 1)
			assert.True(t, decoded.Events[0].Start.Equal(start))
		}).
		Return(nil)

	err := NewMessageBuilder(mockConn).SendBookingCreated(context.Background(), event)
	require.NoError(t, err)
	mockConn.AssertExpectations(t)
}

func TestMessageBuilder_SendGroupDeleted(t *testing.T) {
	mockConn := new(MockNATSConn)
	mockConn.On("IsConnected").Return(true)
	mockConn.On("Publish", models.GroupDeletedSubject, mock.AnythingOfType("[]uint8")).
		Run(func(args mock.Arguments) {
			var decoded models.GroupDeletedMessage
			require.NoError(t, json.Unmarshal(args.Get(1).([]byte), &decoded))
			assert.Equal(t, models.GroupDeletedMessage{GroupID: "group-1", Code: "ABC234"}, decoded)
		}).
		Return(nil)

	err := NewMessageBuilder(mockConn).SendGroupDeleted(context.Background(), models.GroupDeletedMessage{GroupID: "group-1", Code: "ABC234"})
	require.NoError(t, err)
	mockConn.AssertExpectations(t)
}

func TestMessageBuilder_NilConnection(t *testing.T) {
	err := NewMessageBuilder(nil).SendGroupDeleted(context.Background(), models.GroupDeletedMessage{GroupID: "g"})
	assert.ErrorIs(t, err, ErrNotConnected)
}
