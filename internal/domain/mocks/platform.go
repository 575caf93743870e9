// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// MockCalendarPublisher implements CalendarPublisher for testing
type MockCalendarPublisher struct {
	mock.Mock
}

func (m *MockCalendarPublisher) PublishEvent(ctx context.Context, memberID string, event models.Event) (string, error) {
	args := m.Called(ctx, memberID, event)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarPublisher) IsConnected(ctx context.Context, memberID string) bool {
	args := m.Called(ctx, memberID)
	return args.Bool(0)
}

// MockConstraintExtractor implements ConstraintExtractor for testing
type MockConstraintExtractor struct {
	mock.Mock
}

func (m *MockConstraintExtractor) Extract(ctx context.Context, text string) (*models.ParsedRequest, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParsedRequest), args.Error(1)
}
