// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/constants"
)

// newRouter mounts every route of the API.
func newRouter(api *SchedulingAPI) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/livez", api.Livez).Methods(http.MethodGet)
	router.HandleFunc("/readyz", api.Readyz).Methods(http.MethodGet)
	router.HandleFunc("/diagnostics", api.Diagnostics).Methods(http.MethodGet)

	// Groups and members
	router.HandleFunc("/groups", api.CreateOrJoinGroup).Methods(http.MethodPost)
	router.HandleFunc("/groups/{id}", api.GetGroup).Methods(http.MethodGet)
	router.HandleFunc("/groups/{id}", api.DeleteGroup).Methods(http.MethodDelete)
	router.HandleFunc("/groups/{id}/members/{memberId}/included", api.SetMemberIncluded).Methods(http.MethodPut)
	router.HandleFunc("/groups/{id}/members/{memberId}/events", api.AddEvents).Methods(http.MethodPost)
	router.HandleFunc("/groups/{id}/members/{memberId}/events/{eventId}", api.DeleteEvent).Methods(http.MethodDelete)
	router.HandleFunc("/groups/{id}/members/{memberId}/calendar.ics", api.MemberCalendarICS).Methods(http.MethodGet)
	router.HandleFunc("/groups/{id}/members/{memberId}/calendar-token", api.PutCalendarToken).Methods(http.MethodPut)
	router.HandleFunc("/groups/{id}/members/{memberId}/calendar-token", api.DeleteCalendarToken).Methods(http.MethodDelete)
	router.HandleFunc("/cal/{groupId}", api.GetCalendars).Methods(http.MethodGet)

	// Scheduling
	router.HandleFunc("/parse", api.Parse).Methods(http.MethodPost)
	router.HandleFunc("/schedule", api.Schedule).Methods(http.MethodPost)
	router.HandleFunc("/book", api.Book).Methods(http.MethodPost)
	router.HandleFunc("/ics", api.EventICS).Methods(http.MethodPost)

	return router
}

// newHandler wraps the router in the request middleware and tracing.
func newHandler(api *SchedulingAPI) http.Handler {
	var handler http.Handler = newRouter(api)

	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)

	return otelhttp.NewHandler(handler, constants.ServiceName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/livez" && r.URL.Path != "/readyz"
		}),
	)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, api *SchedulingAPI) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newHandler(api),
		ReadHeaderTimeout: 3 * time.Second,
	}
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
	}()

	return httpServer
}
