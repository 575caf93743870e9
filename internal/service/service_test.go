// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

func TestServiceConfig_Attempts(t *testing.T) {
	assert.Equal(t, DefaultMaxRetries, ServiceConfig{}.attempts())
	assert.Equal(t, 5, ServiceConfig{MaxRetries: 5}.attempts())
}

func TestMutateGroup(t *testing.T) {
	conflict := domain.NewConflictError("group has been modified", domain.ErrRevisionMismatch)

	tests := []struct {
		name        string
		setupMocks  func(repo *mocks.MockGroupRepository)
		fn          func(group *models.Group) error
		wantErr     error
		wantName    string
		wantUpdated bool
	}{
		{
			name: "writes at the revision it read",
			setupMocks: func(repo *mocks.MockGroupRepository) {
				repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(4), nil).Once()
				repo.On("UpdateGroup", mock.Anything, mock.AnythingOfType("*models.Group"), uint64(4)).Return(nil).Once()
			},
			fn: func(group *models.Group) error {
				group.Name = "Renamed"
				return nil
			},
			wantName:    "Renamed",
			wantUpdated: true,
		},
		{
			name: "retries after a revision conflict",
			setupMocks: func(repo *mocks.MockGroupRepository) {
				repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(4), nil).Once()
				repo.On("UpdateGroup", mock.Anything, mock.AnythingOfType("*models.Group"), uint64(4)).Return(conflict).Once()
				repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(5), nil).Once()
				repo.On("UpdateGroup", mock.Anything, mock.AnythingOfType("*models.Group"), uint64(5)).Return(nil).Once()
			},
			fn: func(group *models.Group) error {
				group.Name = "Renamed"
				return nil
			},
			wantName:    "Renamed",
			wantUpdated: true,
		},
		{
			name: "gives up after the configured attempts",
			setupMocks: func(repo *mocks.MockGroupRepository) {
				for i := 0; i < DefaultMaxRetries; i++ {
					repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(i+1), nil).Once()
					repo.On("UpdateGroup", mock.Anything, mock.AnythingOfType("*models.Group"), uint64(i+1)).Return(conflict).Once()
				}
			},
			fn:      func(*models.Group) error { return nil },
			wantErr: domain.ErrRevisionMismatch,
		},
		{
			name: "no change skips the write",
			setupMocks: func(repo *mocks.MockGroupRepository) {
				repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(4), nil).Once()
			},
			fn:       func(*models.Group) error { return errNoChange },
			wantName: "Study Group",
		},
		{
			name: "mutation error is returned without writing",
			setupMocks: func(repo *mocks.MockGroupRepository) {
				repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(4), nil).Once()
			},
			fn: func(*models.Group) error {
				return domain.NewNotFoundError("member x not found", domain.ErrMemberNotFound)
			},
			wantErr: domain.ErrMemberNotFound,
		},
		{
			name: "other update errors are not retried",
			setupMocks: func(repo *mocks.MockGroupRepository) {
				repo.On("GetGroupWithRevision", mock.Anything, "group-1").Return(testGroup(), uint64(4), nil).Once()
				repo.On("UpdateGroup", mock.Anything, mock.AnythingOfType("*models.Group"), uint64(4)).Return(domain.ErrInternal).Once()
			},
			fn:      func(*models.Group) error { return nil },
			wantErr: domain.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockGroupRepository{}
			tt.setupMocks(repo)

			group, err := mutateGroup(context.Background(), repo, DefaultMaxRetries, fixedNow, "group-1", tt.fn)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, group)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantName, group.Name)
				if tt.wantUpdated {
					assert.Equal(t, testNow, group.UpdatedAt)
				} else {
					repo.AssertNotCalled(t, "UpdateGroup", mock.Anything, mock.Anything, mock.Anything)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMutateGroup_StopsOnCancelledContext(t *testing.T) {
	repo := &mocks.MockGroupRepository{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mutateGroup(ctx, repo, DefaultMaxRetries, fixedNow, "group-1", func(*models.Group) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertNotCalled(t, "GetGroupWithRevision", mock.Anything, mock.Anything)
}
