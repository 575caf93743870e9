// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the scheduling service API that finds common free time for
// groups and books meetings into member calendars.
package main

import (
	"context"
	_ "expvar"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/scheduling"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/utils"
)

func main() {
	env, err := parseEnv()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error parsing environment")
		os.Exit(1)
	}
	flags := parseFlags(env.Port)

	logHandler := logging.InitStructureLogConfig()

	location, err := env.location()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error loading timezone")
		os.Exit(1)
	}
	hours, err := env.workingHours()
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error parsing working hours")
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	otelConfig := utils.OTelConfigFromEnv()
	otelShutdown, err := utils.SetupOTelSDKWithConfig(ctx, otelConfig)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry SDK")
		os.Exit(1)
	}
	if otelConfig.LogsExporter == utils.OTelExporterOTLP {
		logging.EnableOTelExport(logHandler)
	}

	// Setup NATS connection
	natsConn, err := setupNATS(ctx, env, done)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up NATS")
		return
	}

	// Get the key-value stores for the service.
	repos, err := getKeyValueStores(ctx, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error getting key-value stores")
		return
	}

	// Initialize services
	serviceConfig := service.ServiceConfig{
		MaxRetries:     env.BookingMaxRetries,
		BaseURL:        env.BaseURL,
		MaxSuggestions: env.MaxSuggestions,
		PublishWorkers: env.PublishWorkers,
	}
	messageBuilder := messaging.NewMessageBuilder(natsConn)
	engine := scheduling.NewEngine(scheduling.EngineConfig{
		Location:     location,
		WorkingHours: hours,
	})

	groupService := service.NewGroupService(repos.Group, messageBuilder, serviceConfig)
	schedulingService := service.NewSchedulingService(repos.Group, setupExtractor(env), engine, serviceConfig)
	bookingService := service.NewBookingService(
		repos.Group,
		messageBuilder,
		setupCalendarPublisher(env, repos.Token),
		serviceConfig,
		location,
	)

	api := NewSchedulingAPI(groupService, schedulingService, bookingService, repos.Token)

	httpServer := setupHTTPServer(flags, api)

	slog.Info("scheduling service started",
		"timezone", location.String(),
		"workday_start", env.WorkdayStart,
		"workday_end", env.WorkdayEnd,
	)

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, api, otelShutdown, cancel)
}
