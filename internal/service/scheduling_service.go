// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/scheduling"
)

const meterName = "github.com/linuxfoundation/lfx-v2-scheduling-service/internal/service"

// SuggestRequest asks for meeting slots within a group.
type SuggestRequest struct {
	GroupID string
	// UserIDs narrows the search to these members when non-empty.
	UserIDs        []string
	Constraints    models.SchedulingConstraints
	MaxSuggestions int
}

// SchedulingService turns group calendars and constraints into suggestions.
type SchedulingService struct {
	GroupRepository domain.GroupRepository
	Extractor       domain.ConstraintExtractor
	Engine          *scheduling.Engine
	Config          ServiceConfig

	requests metric.Int64Counter
	returned metric.Int64Counter
}

// NewSchedulingService creates a new SchedulingService.
func NewSchedulingService(
	groupRepository domain.GroupRepository,
	extractor domain.ConstraintExtractor,
	engine *scheduling.Engine,
	config ServiceConfig,
) *SchedulingService {
	meter := otel.Meter(meterName)
	return &SchedulingService{
		GroupRepository: groupRepository,
		Extractor:       extractor,
		Engine:          engine,
		Config:          config,
		requests: int64Counter(meter, "scheduling.suggestions.requests",
			"Number of suggestion requests handled."),
		returned: int64Counter(meter, "scheduling.suggestions.returned",
			"Number of suggestions handed back to callers."),
	}
}

// int64Counter falls back to a no-op counter so metrics never block requests.
func int64Counter(meter metric.Meter, name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create counter", "counter", name, logging.ErrKey, err)
		counter, _ = noop.NewMeterProvider().Meter(meterName).Int64Counter(name)
	}
	return counter
}

// ServiceReady checks if the service is ready for use.
func (s *SchedulingService) ServiceReady() bool {
	return s.GroupRepository != nil && s.Engine != nil
}

// Parse extracts constraints from free-form text.
func (s *SchedulingService) Parse(ctx context.Context, text string) (*models.ParsedRequest, error) {
	if s.Extractor == nil {
		slog.ErrorContext(ctx, "no constraint extractor configured", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("text is required")
	}
	return s.Extractor.Extract(ctx, text)
}

// Suggest finds up to MaxSuggestions slots where the selected, included
// members of the group are all free.
func (s *SchedulingService) Suggest(ctx context.Context, req SuggestRequest) ([]models.Suggestion, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	if req.GroupID == "" {
		return nil, domain.NewValidationError("group id is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("group_id", req.GroupID))
	s.requests.Add(ctx, 1)

	group, err := s.GroupRepository.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, err
	}

	constraints := req.Constraints
	calendars := group.SchedulingCalendars(req.UserIDs)

	if len(constraints.Participants) > 0 {
		resolved := resolveParticipants(ctx, group, constraints.Participants)
		if len(resolved) == 0 {
			slog.InfoContext(ctx, "none of the named participants belong to the group",
				"participants", constraints.Participants)
			return []models.Suggestion{}, nil
		}
		constraints.Participants = resolved
	}

	if err := s.resolveDayOfWeek(&constraints.TimeConstraints); err != nil {
		return nil, err
	}

	maxSuggestions := req.MaxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = s.Config.MaxSuggestions
	}

	suggestions, err := s.Engine.FindCommonFreeSlots(calendars, constraints, maxSuggestions)
	if err != nil {
		return nil, err
	}

	s.returned.Add(ctx, int64(len(suggestions)),
		metric.WithAttributes(attribute.Bool("empty", len(suggestions) == 0)))
	slog.DebugContext(ctx, "computed suggestions",
		"calendars", len(calendars), "suggestions", len(suggestions))
	return suggestions, nil
}

// resolveParticipants maps participant names or ids onto member ids. Entries
// that match no member are dropped.
func resolveParticipants(ctx context.Context, group *models.Group, participants []string) []string {
	resolved := make([]string, 0, len(participants))
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		member := group.FindMember(p)
		if member == nil {
			member = group.FindMemberByName(strings.TrimSpace(p))
		}
		if member == nil {
			slog.DebugContext(ctx, "ignoring unknown participant", "participant", p)
			continue
		}
		if _, ok := seen[member.ID]; ok {
			continue
		}
		seen[member.ID] = struct{}{}
		resolved = append(resolved, member.ID)
	}
	return resolved
}

// resolveDayOfWeek pins a bare weekday to its next occurrence so the engine
// searches that date.
func (s *SchedulingService) resolveDayOfWeek(tc *models.TimeConstraint) error {
	if tc.DayOfWeek == nil || tc.SpecificDate != "" || tc.RelativeDay != "" {
		return nil
	}
	day, err := scheduling.NextWeekday(s.Engine.Now(), *tc.DayOfWeek, s.Engine.Location())
	if err != nil {
		return err
	}
	tc.SpecificDate = day.Format(scheduling.DateLayout)
	return nil
}
