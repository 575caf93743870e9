// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/akamensky/base58"
	"github.com/google/uuid"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
)

const (
	// GroupCodeLength is the number of characters in a join code.
	GroupCodeLength = 6
	// DefaultGroupName is used when a group is created without a name.
	DefaultGroupName = "New Group"

	maxCodeAttempts = 10
)

// Membership is what a caller gets back after creating or joining a group.
// MemberID is empty when a group is created without a creator.
type Membership struct {
	Group      *models.Group
	MemberID   string
	MemberName string
	JoinLink   string
}

// GroupService manages groups, their members and member calendars.
type GroupService struct {
	GroupRepository domain.GroupRepository
	MessageBuilder  domain.MessageBuilder
	Config          ServiceConfig

	now func() time.Time
}

// NewGroupService creates a new GroupService.
func NewGroupService(
	groupRepository domain.GroupRepository,
	messageBuilder domain.MessageBuilder,
	config ServiceConfig,
) *GroupService {
	return &GroupService{
		GroupRepository: groupRepository,
		MessageBuilder:  messageBuilder,
		Config:          config,
		now:             time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *GroupService) ServiceReady() bool {
	return s.GroupRepository != nil && s.MessageBuilder != nil
}

// generateGroupCode returns GroupCodeLength characters drawn from the base58
// alphabet, upper-cased, with the characters people misread removed.
func generateGroupCode() (string, error) {
	var code strings.Builder
	for code.Len() < GroupCodeLength {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, r := range strings.ToUpper(base58.Encode(buf)) {
			switch r {
			case 'I', 'O', '0', '1':
				continue
			}
			code.WriteRune(r)
			if code.Len() == GroupCodeLength {
				break
			}
		}
	}
	return code.String(), nil
}

func (s *GroupService) joinLink(code string) string {
	return strings.TrimRight(s.Config.BaseURL, "/") + "/group/" + code
}

func newMember(name string) models.Member {
	id := uuid.New().String()
	return models.Member{
		ID:         id,
		Name:       name,
		IsIncluded: true,
		Calendar: models.Calendar{
			UserID: id,
			Events: []models.Event{},
		},
	}
}

// CreateGroup stores a new group under a fresh join code. A non-blank
// creatorName makes the creator the first member.
func (s *GroupService) CreateGroup(ctx context.Context, name, creatorName string) (*Membership, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultGroupName
	}

	now := s.now().UTC()
	group := &models.Group{
		ID:        uuid.New().String(),
		Name:      name,
		Members:   []models.Member{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	membership := &Membership{Group: group}
	if creatorName = strings.TrimSpace(creatorName); creatorName != "" {
		creator := newMember(creatorName)
		group.Members = append(group.Members, creator)
		membership.MemberID = creator.ID
		membership.MemberName = creator.Name
	}

	ctx = logging.AppendCtx(ctx, slog.String("group_id", group.ID))

	for attempt := 1; ; attempt++ {
		code, err := generateGroupCode()
		if err != nil {
			return nil, domain.NewInternalError("failed to generate group code", err)
		}
		group.Code = code

		taken, err := s.GroupRepository.CodeExists(ctx, code)
		if err != nil {
			slog.ErrorContext(ctx, "error checking group code", logging.ErrKey, err)
			return nil, err
		}
		if !taken {
			err = s.GroupRepository.CreateGroup(ctx, group)
			if err == nil {
				break
			}
			// A concurrent create can still claim the code after the check.
			if domain.GetErrorType(err) != domain.ErrorTypeConflict {
				slog.ErrorContext(ctx, "error creating group", logging.ErrKey, err)
				return nil, err
			}
		}
		if attempt >= maxCodeAttempts {
			slog.ErrorContext(ctx, "no free group code", "attempts", attempt)
			return nil, domain.NewConflictError("could not allocate a free group code")
		}
		slog.DebugContext(ctx, "group code taken, generating another", "group_code", code)
	}

	membership.JoinLink = s.joinLink(group.Code)
	slog.InfoContext(ctx, "created group", "group_code", group.Code, "members", len(group.Members))
	return membership, nil
}

// JoinGroup adds memberName to the group with the given code. Joining under a
// name that is already taken, ignoring case, returns the existing member.
func (s *GroupService) JoinGroup(ctx context.Context, code, memberName string) (*Membership, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	memberName = strings.TrimSpace(memberName)
	if code == "" || memberName == "" {
		return nil, domain.NewValidationError("group code and member name are required")
	}

	existing, _, err := s.GroupRepository.GetGroupByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	ctx = logging.AppendCtx(ctx, slog.String("group_id", existing.ID))

	var member models.Member
	group, err := mutateGroup(ctx, s.GroupRepository, s.Config.attempts(), s.now, existing.ID, func(group *models.Group) error {
		if m := group.FindMemberByName(memberName); m != nil {
			member = *m
			return errNoChange
		}
		member = newMember(memberName)
		group.Members = append(group.Members, member)
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "error joining group", logging.ErrKey, err)
		return nil, err
	}

	slog.InfoContext(ctx, "member joined group", "member_id", member.ID)
	return &Membership{
		Group:      group,
		MemberID:   member.ID,
		MemberName: member.Name,
		JoinLink:   s.joinLink(group.Code),
	}, nil
}

// GetGroup returns the group and the revision it was read at.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, uint64, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, 0, domain.ErrServiceUnavailable
	}
	if groupID == "" {
		return nil, 0, domain.NewValidationError("group id is required")
	}

	return s.GroupRepository.GetGroupWithRevision(ctx, groupID)
}

// GetCalendars returns the calendar of every member of the group.
func (s *GroupService) GetCalendars(ctx context.Context, groupID string) ([]models.Calendar, error) {
	group, _, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return group.Calendars(), nil
}

// MemberCalendar returns one member's calendar.
func (s *GroupService) MemberCalendar(ctx context.Context, groupID, memberID string) (*models.Calendar, error) {
	group, _, err := s.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	member := group.FindMember(memberID)
	if member == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("member %s not found", memberID), domain.ErrMemberNotFound)
	}
	return &models.Calendar{
		UserID:   member.ID,
		UserName: member.Name,
		Events:   member.Calendar.Events,
	}, nil
}

// SetMemberIncluded toggles whether the member's calendar takes part in
// scheduling.
func (s *GroupService) SetMemberIncluded(ctx context.Context, groupID, memberID string, included bool) (*models.Group, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	return mutateGroup(ctx, s.GroupRepository, s.Config.attempts(), s.now, groupID, func(group *models.Group) error {
		member := group.FindMember(memberID)
		if member == nil {
			return domain.NewNotFoundError(fmt.Sprintf("member %s not found", memberID), domain.ErrMemberNotFound)
		}
		if member.IsIncluded == included {
			return errNoChange
		}
		member.IsIncluded = included
		return nil
	})
}

// validateEvent fills in defaults and rejects events that cannot be stored.
func validateEvent(event *models.Event) error {
	if event.Start.IsZero() || event.End.IsZero() {
		return domain.NewValidationError("event start and end are required")
	}
	if !event.Start.Before(event.End) {
		return domain.NewValidationError(fmt.Sprintf("event %q must start before it ends", event.Title))
	}
	if event.Priority == "" {
		event.Priority = models.PriorityMedium
	}
	if !event.Priority.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("unsupported priority %q", event.Priority))
	}
	event.ID = uuid.New().String()
	event.Start = event.Start.UTC()
	event.End = event.End.UTC()
	return nil
}

// AddEvents appends events to a member's calendar and returns them with their
// assigned ids.
func (s *GroupService) AddEvents(ctx context.Context, groupID, memberID string, events []models.Event) ([]models.Event, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	if len(events) == 0 {
		return nil, domain.NewValidationError("at least one event is required")
	}

	added := make([]models.Event, len(events))
	copy(added, events)
	for i := range added {
		if err := validateEvent(&added[i]); err != nil {
			return nil, err
		}
	}

	_, err := mutateGroup(ctx, s.GroupRepository, s.Config.attempts(), s.now, groupID, func(group *models.Group) error {
		member := group.FindMember(memberID)
		if member == nil {
			return domain.NewNotFoundError(fmt.Sprintf("member %s not found", memberID), domain.ErrMemberNotFound)
		}
		member.Calendar.Events = append(member.Calendar.Events, added...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "added events", "group_id", groupID, "member_id", memberID, "count", len(added))
	return added, nil
}

// DeleteEvent removes one event from a member's calendar.
func (s *GroupService) DeleteEvent(ctx context.Context, groupID, memberID, eventID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}

	_, err := mutateGroup(ctx, s.GroupRepository, s.Config.attempts(), s.now, groupID, func(group *models.Group) error {
		member := group.FindMember(memberID)
		if member == nil {
			return domain.NewNotFoundError(fmt.Sprintf("member %s not found", memberID), domain.ErrMemberNotFound)
		}
		for i, event := range member.Calendar.Events {
			if event.ID == eventID {
				member.Calendar.Events = append(member.Calendar.Events[:i], member.Calendar.Events[i+1:]...)
				return nil
			}
		}
		return domain.NewNotFoundError(fmt.Sprintf("event %s not found", eventID), domain.ErrEventNotFound)
	})
	return err
}

// DeleteGroup removes the group. A zero revision deletes unconditionally.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID string, revision uint64) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}

	ctx = logging.AppendCtx(ctx, slog.String("group_id", groupID))

	group, err := s.GroupRepository.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if err := s.GroupRepository.DeleteGroup(ctx, groupID, revision); err != nil {
		if errors.Is(err, domain.ErrRevisionMismatch) {
			slog.WarnContext(ctx, "group changed before delete", "revision", revision)
		}
		return err
	}

	err = s.MessageBuilder.SendGroupDeleted(ctx, models.GroupDeletedMessage{
		GroupID: group.ID,
		Code:    group.Code,
	})
	if err != nil {
		slog.ErrorContext(ctx, "error sending group deleted message", logging.ErrKey, err)
	}

	slog.InfoContext(ctx, "deleted group", "group_code", group.Code)
	return nil
}

// GroupStats counts what the store currently holds.
type GroupStats struct {
	Groups  int `json:"groups"`
	Members int `json:"members"`
	Events  int `json:"events"`
}

// Stats walks every stored group and counts its members and events.
func (s *GroupService) Stats(ctx context.Context) (*GroupStats, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	groups, err := s.GroupRepository.ListAllGroups(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error listing groups", logging.ErrKey, err)
		return nil, err
	}

	stats := &GroupStats{Groups: len(groups)}
	for _, group := range groups {
		stats.Members += len(group.Members)
		for _, member := range group.Members {
			stats.Events += len(member.Calendar.Events)
		}
	}
	return stats, nil
}
