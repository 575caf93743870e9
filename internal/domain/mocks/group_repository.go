// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// MockGroupRepository implements GroupRepository for testing
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	args := m.Called(ctx, group)
	return args.Error(0)
}

func (m *MockGroupRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockGroupRepository) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Group), args.Error(1)
}

func (m *MockGroupRepository) GetGroupWithRevision(ctx context.Context, groupID string) (*models.Group, uint64, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Group), args.Get(1).(uint64), args.Error(2)
}

func (m *MockGroupRepository) GetGroupByCode(ctx context.Context, code string) (*models.Group, uint64, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Group), args.Get(1).(uint64), args.Error(2)
}

func (m *MockGroupRepository) UpdateGroup(ctx context.Context, group *models.Group, revision uint64) error {
	args := m.Called(ctx, group, revision)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteGroup(ctx context.Context, groupID string, revision uint64) error {
	args := m.Called(ctx, groupID, revision)
	return args.Error(0)
}

func (m *MockGroupRepository) ListAllGroups(ctx context.Context) ([]*models.Group, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Group), args.Error(1)
}

func (m *MockGroupRepository) IsReady(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// MockCalendarTokenRepository implements CalendarTokenRepository for testing
type MockCalendarTokenRepository struct {
	mock.Mock
}

func (m *MockCalendarTokenRepository) GetToken(ctx context.Context, memberID string) (*oauth2.Token, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockCalendarTokenRepository) SaveToken(ctx context.Context, memberID string, token *oauth2.Token) error {
	args := m.Called(ctx, memberID, token)
	return args.Error(0)
}

func (m *MockCalendarTokenRepository) DeleteToken(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}
