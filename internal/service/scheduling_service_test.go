// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/mocks"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/scheduling"
)

func newTestSchedulingService() (*SchedulingService, *mocks.MockGroupRepository, *mocks.MockConstraintExtractor) {
	repo := &mocks.MockGroupRepository{}
	extractor := &mocks.MockConstraintExtractor{}
	engine := scheduling.NewEngine(scheduling.EngineConfig{Location: time.UTC, Now: fixedNow})
	return NewSchedulingService(repo, extractor, engine, ServiceConfig{MaxSuggestions: 3}), repo, extractor
}

func intPtr(v int) *int { return &v }

func TestSchedulingService_Suggest(t *testing.T) {
	tests := []struct {
		name          string
		req           SuggestRequest
		wantStarts    []time.Time
		wantAvailable []string
	}{
		{
			name: "included members only",
			req: SuggestRequest{
				GroupID:     "group-1",
				Constraints: models.SchedulingConstraints{Duration: 60},
			},
			wantStarts:    []time.Time{at(11, 0), at(13, 0)},
			wantAvailable: []string{"alice", "bob"},
		},
		{
			name: "user ids narrow the calendars",
			req: SuggestRequest{
				GroupID:     "group-1",
				UserIDs:     []string{"bob"},
				Constraints: models.SchedulingConstraints{Duration: 60},
			},
			wantStarts:    []time.Time{at(9, 0), at(13, 0)},
			wantAvailable: []string{"bob"},
		},
		{
			name: "participant names resolve to member ids",
			req: SuggestRequest{
				GroupID:     "group-1",
				Constraints: models.SchedulingConstraints{Duration: 60, Participants: []string{"alice", "Zed"}},
			},
			wantStarts:    []time.Time{at(11, 0)},
			wantAvailable: []string{"alice"},
		},
		{
			name: "unknown participants give no suggestions",
			req: SuggestRequest{
				GroupID:     "group-1",
				Constraints: models.SchedulingConstraints{Duration: 60, Participants: []string{"Zed"}},
			},
			wantStarts: []time.Time{},
		},
		{
			name: "weekday is resolved to the next matching date",
			req: SuggestRequest{
				GroupID: "group-1",
				Constraints: models.SchedulingConstraints{
					Duration:        60,
					TimeConstraints: models.TimeConstraint{DayOfWeek: intPtr(5)},
				},
				MaxSuggestions: 1,
			},
			wantStarts:    []time.Time{time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)},
			wantAvailable: []string{"alice", "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo, _ := newTestSchedulingService()
			repo.On("GetGroup", mock.Anything, "group-1").Return(testGroup(), nil).Once()

			suggestions, err := s.Suggest(context.Background(), tt.req)
			require.NoError(t, err)

			starts := make([]time.Time, 0, len(suggestions))
			for _, sg := range suggestions {
				starts = append(starts, sg.Start)
				assert.Equal(t, tt.wantAvailable, sg.AvailableMembers)
				assert.Equal(t, time.Hour, sg.End.Sub(sg.Start))
			}
			assert.Equal(t, tt.wantStarts, starts)
			repo.AssertExpectations(t)
		})
	}
}

func TestSchedulingService_SuggestErrors(t *testing.T) {
	t.Run("missing group id", func(t *testing.T) {
		s, _, _ := newTestSchedulingService()
		_, err := s.Suggest(context.Background(), SuggestRequest{Constraints: models.SchedulingConstraints{Duration: 30}})
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("unknown group", func(t *testing.T) {
		s, repo, _ := newTestSchedulingService()
		repo.On("GetGroup", mock.Anything, "missing").
			Return(nil, domain.NewNotFoundError("group missing not found", domain.ErrGroupNotFound)).Once()

		_, err := s.Suggest(context.Background(), SuggestRequest{GroupID: "missing", Constraints: models.SchedulingConstraints{Duration: 30}})
		assert.ErrorIs(t, err, domain.ErrGroupNotFound)
	})

	t.Run("non-positive duration", func(t *testing.T) {
		s, repo, _ := newTestSchedulingService()
		repo.On("GetGroup", mock.Anything, "group-1").Return(testGroup(), nil).Once()

		_, err := s.Suggest(context.Background(), SuggestRequest{GroupID: "group-1"})
		assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	})

	t.Run("weekday out of range", func(t *testing.T) {
		s, repo, _ := newTestSchedulingService()
		repo.On("GetGroup", mock.Anything, "group-1").Return(testGroup(), nil).Once()

		_, err := s.Suggest(context.Background(), SuggestRequest{
			GroupID: "group-1",
			Constraints: models.SchedulingConstraints{
				Duration:        30,
				TimeConstraints: models.TimeConstraint{DayOfWeek: intPtr(9)},
			},
		})
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("not ready", func(t *testing.T) {
		s := &SchedulingService{}
		_, err := s.Suggest(context.Background(), SuggestRequest{GroupID: "group-1"})
		assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	})
}

func TestSchedulingService_Parse(t *testing.T) {
	s, _, extractor := newTestSchedulingService()
	parsed := &models.ParsedRequest{
		Constraints:       models.SchedulingConstraints{Duration: 30, Participants: []string{}},
		NormalizedSummary: "30 minutes",
		Assumptions:       []string{},
	}
	extractor.On("Extract", mock.Anything, "30 min tomorrow").Return(parsed, nil).Once()

	got, err := s.Parse(context.Background(), "30 min tomorrow")
	require.NoError(t, err)
	assert.Equal(t, parsed, got)

	_, err = s.Parse(context.Background(), "   ")
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	extractor.AssertExpectations(t)

	_, err = (&SchedulingService{}).Parse(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestSchedulingService_SuggestSummaryUsesMemberNames(t *testing.T) {
	service, repo, _ := newTestSchedulingService()
	group := &models.Group{
		ID: "group-2",
		Members: []models.Member{
			{ID: "7f3c1a2e-0b6d-4c1e-9d0a-5e2f8b7c6a10", Name: "Alice", IsIncluded: true,
				Calendar: models.Calendar{Events: []models.Event{}}},
			{ID: "c2d9e4f1-8a3b-4f6c-b1e2-0d7a9c5b3e24", Name: "Bob", IsIncluded: true,
				Calendar: models.Calendar{Events: []models.Event{}}},
		},
	}
	repo.On("GetGroup", mock.Anything, "group-2").Return(group, nil).Once()

	suggestions, err := service.Suggest(context.Background(), SuggestRequest{
		GroupID:     "group-2",
		Constraints: models.SchedulingConstraints{Duration: 60, Participants: []string{"alice"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)

	assert.Contains(t, suggestions[0].NormalizedSummary, "session with Alice on")
	assert.NotContains(t, suggestions[0].NormalizedSummary, "7f3c1a2e")
	assert.Equal(t, []string{"7f3c1a2e-0b6d-4c1e-9d0a-5e2f8b7c6a10"}, suggestions[0].AvailableMembers)
}
