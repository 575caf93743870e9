// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package calendar inserts booked events into members' external calendars.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/utils"
)

// DefaultCalendarID is the member's primary Google calendar.
const DefaultCalendarID = "primary"

// ErrNotConnected is returned for members without a stored token.
var ErrNotConnected = errors.New("member has not connected an external calendar")

// GoogleConfig holds the OAuth client used to refresh member tokens.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	CalendarID   string

	// Endpoint overrides the Calendar API base URL.
	Endpoint string
}

// GoogleCalendarPublisher implements domain.CalendarPublisher on the Google
// Calendar API.
type GoogleCalendarPublisher struct {
	oauth      *oauth2.Config
	tokens     domain.CalendarTokenRepository
	calendarID string
	endpoint   string
}

var _ domain.CalendarPublisher = (*GoogleCalendarPublisher)(nil)

// NewGoogleCalendarPublisher creates a publisher reading member tokens from
// tokens.
func NewGoogleCalendarPublisher(config GoogleConfig, tokens domain.CalendarTokenRepository) *GoogleCalendarPublisher {
	calendarID := utils.CoalesceString(config.CalendarID, DefaultCalendarID)
	return &GoogleCalendarPublisher{
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       []string{gcal.CalendarEventsScope, gcal.CalendarScope},
			Endpoint:     google.Endpoint,
		},
		tokens:     tokens,
		calendarID: calendarID,
		endpoint:   config.Endpoint,
	}
}

// IsConnected reports whether the member has a usable token.
func (p *GoogleCalendarPublisher) IsConnected(ctx context.Context, memberID string) bool {
	token, err := p.tokens.GetToken(ctx, memberID)
	return err == nil && token != nil && token.AccessToken != ""
}

// PublishEvent inserts event into the member's calendar and returns the
// Google event id.
func (p *GoogleCalendarPublisher) PublishEvent(ctx context.Context, memberID string, event models.Event) (string, error) {
	token, err := p.tokens.GetToken(ctx, memberID)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return "", ErrNotConnected
		}
		return "", err
	}
	if token == nil || token.AccessToken == "" {
		return "", ErrNotConnected
	}

	source := p.oauth.TokenSource(ctx, token)
	fresh, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}
	if fresh.AccessToken != token.AccessToken {
		if err := p.tokens.SaveToken(ctx, memberID, fresh); err != nil {
			slog.WarnContext(ctx, "failed to store refreshed token", logging.ErrKey, err, "member_id", memberID)
		}
	}

	opts := []option.ClientOption{option.WithHTTPClient(oauth2.NewClient(ctx, source))}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create calendar service: %w", err)
	}

	created, err := service.Events.Insert(p.calendarID, toGoogleEvent(event)).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		slog.WarnContext(ctx, "google calendar insert failed",
			logging.ErrKey, err, "member_id", memberID, "event_id", event.ID)
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	return created.Id, nil
}

func toGoogleEvent(event models.Event) *gcal.Event {
	transparency := "opaque"
	if !event.IsBusy {
		transparency = "transparent"
	}
	return &gcal.Event{
		Summary:      event.Title,
		Location:     event.Location,
		Start:        &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:          &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
		Transparency: transparency,
	}
}
