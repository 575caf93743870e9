// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/scheduling"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/utils"
)

const (
	// DefaultBookingTitle is used when a booking has no title.
	DefaultBookingTitle = "Group Meeting"
	// MaxOccurrences caps how many events one recurring booking may create.
	MaxOccurrences = 52
	// BookingCreatedType is the type carried by booking notifications.
	BookingCreatedType = "booking_created"

	publishTimeout = 30 * time.Second
)

var rruleWeekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// BookingRequest books a slot for a set of group members.
type BookingRequest struct {
	GroupID    string
	UserIDs    []string
	Start      time.Time
	End        time.Time
	Title      string
	Location   string
	Recurrence *models.Recurrence
}

// BookingResult describes a persisted booking.
type BookingResult struct {
	Events         []models.Event
	MemberIDs      []string
	UpdatedMembers int
}

// BookingService writes booked slots into member calendars.
type BookingService struct {
	GroupRepository   domain.GroupRepository
	MessageBuilder    domain.MessageBuilder
	CalendarPublisher domain.CalendarPublisher
	WorkerPool        *concurrent.WorkerPool
	Config            ServiceConfig
	// Location is the zone recurrence weekdays are evaluated in.
	Location *time.Location

	now      func() time.Time
	bookings metric.Int64Counter
	inflight sync.WaitGroup
}

// NewBookingService creates a new BookingService. calendarPublisher may be nil
// when no external calendar is configured.
func NewBookingService(
	groupRepository domain.GroupRepository,
	messageBuilder domain.MessageBuilder,
	calendarPublisher domain.CalendarPublisher,
	config ServiceConfig,
	location *time.Location,
) *BookingService {
	if location == nil {
		location = time.UTC
	}
	return &BookingService{
		GroupRepository:   groupRepository,
		MessageBuilder:    messageBuilder,
		CalendarPublisher: calendarPublisher,
		WorkerPool:        concurrent.NewWorkerPool(config.PublishWorkers),
		Config:            config,
		Location:          location,
		now:               time.Now,
		bookings: int64Counter(otel.Meter(meterName), "scheduling.bookings",
			"Number of bookings persisted."),
	}
}

// ServiceReady checks if the service is ready for use.
func (s *BookingService) ServiceReady() bool {
	return s.GroupRepository != nil && s.MessageBuilder != nil
}

// WaitForPublications blocks until every external calendar publication that
// has been started is done.
func (s *BookingService) WaitForPublications() {
	s.inflight.Wait()
}

// ExpandRecurrence returns the occurrences of a booking. Without a recurrence
// the slot itself is the only occurrence.
func ExpandRecurrence(start, end time.Time, recurrence *models.Recurrence, loc *time.Location) ([]scheduling.Interval, error) {
	if !start.Before(end) {
		return nil, domain.NewValidationError("booking must start before it ends")
	}
	if recurrence == nil {
		return []scheduling.Interval{{Start: start, End: end}}, nil
	}
	if recurrence.Count < 1 {
		return nil, domain.NewValidationError("recurrence count must be at least 1")
	}
	if recurrence.Count > MaxOccurrences {
		return nil, domain.NewValidationError(fmt.Sprintf("recurrence count must be at most %d", MaxOccurrences))
	}
	if loc == nil {
		loc = time.UTC
	}

	option := rrule.ROption{
		Dtstart: start.In(loc),
		Count:   recurrence.Count,
	}

	switch recurrence.Frequency {
	case models.FrequencyDaily:
		option.Freq = rrule.DAILY
	case models.FrequencyWeekly:
		option.Freq = rrule.WEEKLY
	case models.FrequencyBiweekly:
		option.Freq = rrule.WEEKLY
		option.Interval = 2
	default:
		return nil, domain.NewValidationError(fmt.Sprintf("unsupported recurrence frequency %q", recurrence.Frequency))
	}

	for _, day := range recurrence.DaysOfWeek {
		if day < 0 || day > 6 {
			return nil, domain.NewValidationError(fmt.Sprintf("day of week %d is out of range", day))
		}
		option.Byweekday = append(option.Byweekday, rruleWeekdays[day])
	}

	rule, err := rrule.NewRRule(option)
	if err != nil {
		return nil, domain.NewValidationError("invalid recurrence", err)
	}

	length := end.Sub(start)
	occurrences := rule.All()
	intervals := make([]scheduling.Interval, 0, len(occurrences))
	for _, occurrence := range occurrences {
		intervals = append(intervals, scheduling.Interval{
			Start: occurrence.UTC(),
			End:   occurrence.Add(length).UTC(),
		})
	}
	return intervals, nil
}

func (s *BookingService) validateBookingRequest(req BookingRequest) error {
	if req.GroupID == "" {
		return domain.NewValidationError("group id is required")
	}
	if len(req.UserIDs) == 0 {
		return domain.NewValidationError("at least one user id is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return domain.NewValidationError("slot start and end are required")
	}
	if !req.Start.Before(req.End) {
		return domain.NewValidationError("booking must start before it ends")
	}
	return nil
}

// Book adds the booked slot, or each of its occurrences, to the calendars of
// the selected members in a single revision-checked write.
func (s *BookingService) Book(ctx context.Context, req BookingRequest) (*BookingResult, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	if err := s.validateBookingRequest(req); err != nil {
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("group_id", req.GroupID))

	occurrences, err := ExpandRecurrence(req.Start, req.End, req.Recurrence, s.Location)
	if err != nil {
		return nil, err
	}

	title := utils.CoalesceString(strings.TrimSpace(req.Title), DefaultBookingTitle)

	events := make([]models.Event, 0, len(occurrences))
	for _, occurrence := range occurrences {
		events = append(events, models.Event{
			ID:       uuid.New().String(),
			Title:    title,
			Start:    occurrence.Start,
			End:      occurrence.End,
			Location: strings.TrimSpace(req.Location),
			Priority: models.PriorityMedium,
			IsBusy:   true,
		})
	}

	selected := make(map[string]struct{}, len(req.UserIDs))
	for _, id := range req.UserIDs {
		selected[id] = struct{}{}
	}

	var memberIDs []string
	_, err = mutateGroup(ctx, s.GroupRepository, s.Config.attempts(), s.now, req.GroupID, func(group *models.Group) error {
		memberIDs = memberIDs[:0]
		for i := range group.Members {
			member := &group.Members[i]
			if _, ok := selected[member.ID]; !ok {
				continue
			}
			member.Calendar.Events = append(member.Calendar.Events, events...)
			memberIDs = append(memberIDs, member.ID)
		}
		if len(memberIDs) == 0 {
			return domain.NewValidationError("none of the user ids belong to the group", domain.ErrNoMembersSelected)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bookings.Add(ctx, 1, metric.WithAttributes(attribute.Bool("recurring", req.Recurrence != nil)))
	slog.InfoContext(ctx, "booked slot",
		"events", len(events), "updated_members", len(memberIDs), "start", req.Start)

	result := &BookingResult{
		Events:         events,
		MemberIDs:      memberIDs,
		UpdatedMembers: len(memberIDs),
	}

	s.notifyBooking(ctx, req.GroupID, result)
	s.publishExternally(ctx, result)

	return result, nil
}

// notifyBooking publishes the booking event. The booking is already stored,
// so a failure is only logged.
func (s *BookingService) notifyBooking(ctx context.Context, groupID string, result *BookingResult) {
	booked := make([]models.BookedEvent, 0, len(result.Events))
	for _, event := range result.Events {
		booked = append(booked, models.BookedEvent{
			ID:    event.ID,
			Title: event.Title,
			Start: event.Start,
			End:   event.End,
		})
	}

	err := s.MessageBuilder.SendBookingCreated(ctx, models.BookingEvent{
		Type:           BookingCreatedType,
		GroupID:        groupID,
		Events:         booked,
		UpdatedMembers: result.UpdatedMembers,
		Timestamp:      s.now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "error sending booking created message", logging.ErrKey, err)
	}
}

type publication struct {
	memberID string
	event    models.Event
}

// publishExternally inserts the booked events into the external calendars of
// members who connected one. It runs in the background and only logs failures.
func (s *BookingService) publishExternally(ctx context.Context, result *BookingResult) {
	if s.CalendarPublisher == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		var items []publication
		for _, memberID := range result.MemberIDs {
			if !s.CalendarPublisher.IsConnected(ctx, memberID) {
				continue
			}
			for _, event := range result.Events {
				items = append(items, publication{memberID: memberID, event: event})
			}
		}
		if len(items) == 0 {
			return
		}
		slog.DebugContext(ctx, "publishing bookings to external calendars",
			"publications", len(items), "workers", s.WorkerPool.Size())

		errs := concurrent.ForEach(ctx, s.WorkerPool, items, func(ctx context.Context, p publication) error {
			externalID, err := s.CalendarPublisher.PublishEvent(ctx, p.memberID, p.event)
			if err != nil {
				return err
			}
			slog.DebugContext(ctx, "published event to external calendar",
				"member_id", p.memberID, "event_id", p.event.ID, "external_id", externalID)
			return nil
		})

		for i, err := range errs {
			if err != nil {
				slog.WarnContext(ctx, "failed to publish event to external calendar",
					logging.ErrKey, err, "member_id", items[i].memberID, "event_id", items[i].event.ID)
			}
		}
	}()
}
