// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/service"
)

// SchedulingAPI serves the HTTP API of the scheduling service.
type SchedulingAPI struct {
	groups     *service.GroupService
	scheduling *service.SchedulingService
	booking    *service.BookingService
	tokens     domain.CalendarTokenRepository
}

// NewSchedulingAPI creates a new SchedulingAPI.
func NewSchedulingAPI(
	groups *service.GroupService,
	scheduling *service.SchedulingService,
	booking *service.BookingService,
	tokens domain.CalendarTokenRepository,
) *SchedulingAPI {
	return &SchedulingAPI{
		groups:     groups,
		scheduling: scheduling,
		booking:    booking,
		tokens:     tokens,
	}
}

func (s *SchedulingAPI) ready() bool {
	if s.groups == nil || s.scheduling == nil || s.booking == nil {
		return false
	}
	for _, svc := range []service.Service{s.groups, s.scheduling, s.booking} {
		if !svc.ServiceReady() {
			return false
		}
	}
	return true
}

// Readyz checks if the service is able to take inbound requests.
func (s *SchedulingAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		handleError(r.Context(), w, domain.ErrServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (s *SchedulingAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	_, _ = w.Write([]byte("OK\n"))
}

// Diagnostics reports how many groups, members and events are stored.
func (s *SchedulingAPI) Diagnostics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.groups.Stats(ctx)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, stats)
}
