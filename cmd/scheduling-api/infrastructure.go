// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/extraction"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/infrastructure/calendar"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/constants"
)

const gracefulShutdownSeconds = 25

// repositories are the key-value backed stores of the service.
type repositories struct {
	Group *store.NatsGroupRepository
	Token *store.NatsTokenRepository
}

// setupNATS connects to NATS. Losing the connection for good signals done so
// the service shuts down.
func setupNATS(ctx context.Context, env environment, done chan os.Signal) (*nats.Conn, error) {
	slog.With("nats_url", env.NatsURL).Info("attempting to connect to NATS")

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name(constants.ServiceName),
		nats.Timeout(env.NatsTimeout),
		nats.DrainTimeout(gracefulShutdownSeconds*time.Second),
		nats.MaxReconnects(-1),
		nats.ConnectHandler(func(_ *nats.Conn) {
			slog.With("nats_url", env.NatsURL).Info("NATS connection established")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if ctx.Err() != nil {
				// Shutdown is already under way.
				return
			}
			slog.Error("NATS connection closed unexpectedly, shutting down")
			done <- syscall.SIGTERM
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}

	return natsConn, nil
}

// keyValue opens a bucket, creating it when it does not exist yet.
func keyValue(ctx context.Context, js jetstream.JetStream, bucket string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		slog.InfoContext(ctx, "creating missing key-value bucket", "bucket", bucket)
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{Bucket: bucket})
	}
	if err != nil {
		return nil, fmt.Errorf("error getting NATS JetStream key-value store %s: %w", bucket, err)
	}
	return kv, nil
}

// getKeyValueStores opens the buckets and builds the repositories on them.
func getKeyValueStores(ctx context.Context, natsConn *nats.Conn) (*repositories, error) {
	js, err := jetstream.New(natsConn)
	if err != nil {
		return nil, fmt.Errorf("error creating NATS JetStream client: %w", err)
	}

	groupsKV, err := keyValue(ctx, js, store.KVStoreNameGroups)
	if err != nil {
		return nil, err
	}
	tokensKV, err := keyValue(ctx, js, store.KVStoreNameCalendarTokens)
	if err != nil {
		return nil, err
	}

	return &repositories{
		Group: store.NewNatsGroupRepository(groupsKV),
		Token: store.NewNatsTokenRepository(tokensKV),
	}, nil
}

// setupExtractor puts the language model first when it is configured and
// always keeps the pattern extractor as the fallback.
func setupExtractor(env environment) domain.ConstraintExtractor {
	var llm domain.ConstraintExtractor
	if env.LLMAPIKey != "" {
		llm = extraction.NewLLMExtractor(extraction.LLMConfig{
			BaseURL:     env.LLMBaseURL,
			APIKey:      env.LLMAPIKey,
			Model:       env.LLMModel,
			Temperature: env.LLMTemperature,
			Timeout:     env.LLMTimeout,
		})
		slog.Info("language model constraint extraction enabled", "base_url", env.LLMBaseURL)
	}
	return extraction.NewChain(llm, extraction.NewPatternExtractor())
}

// setupCalendarPublisher returns nil when Google Calendar is not configured.
func setupCalendarPublisher(env environment, tokens domain.CalendarTokenRepository) domain.CalendarPublisher {
	if !env.googleEnabled() {
		slog.Info("google calendar publishing disabled")
		return nil
	}
	return calendar.NewGoogleCalendarPublisher(calendar.GoogleConfig{
		ClientID:     env.GoogleClientID,
		ClientSecret: env.GoogleClientSecret,
		RedirectURL:  env.GoogleRedirectURL,
		CalendarID:   env.GoogleCalendarID,
	}, tokens)
}

// gracefulShutdown stops the HTTP server, waits for background publications
// and drains NATS, all within gracefulShutdownSeconds.
func gracefulShutdown(
	httpServer *http.Server,
	natsConn *nats.Conn,
	api *SchedulingAPI,
	otelShutdown func(context.Context) error,
	cancel context.CancelFunc,
) {
	slog.Info("graceful shutdown started")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer shutdownCancel()

	pool := concurrent.NewWorkerPool(2)
	errs := pool.RunAll(ctx,
		func(ctx context.Context) error {
			if err := httpServer.Shutdown(ctx); err != nil {
				return fmt.Errorf("http shutdown: %w", err)
			}
			return nil
		},
		func(ctx context.Context) error {
			published := make(chan struct{})
			go func() {
				api.booking.WaitForPublications()
				close(published)
			}()
			select {
			case <-published:
			case <-ctx.Done():
				slog.Warn("external calendar publications still running at shutdown")
			}
			if natsConn.IsClosed() {
				return nil
			}
			if err := natsConn.Drain(); err != nil {
				return fmt.Errorf("nats drain: %w", err)
			}
			return nil
		},
	)
	if err := errors.Join(errs...); err != nil {
		slog.With(logging.ErrKey, err).Error("error during graceful shutdown")
	}

	if otelShutdown != nil {
		if err := otelShutdown(ctx); err != nil {
			slog.With(logging.ErrKey, err).Error("error shutting down OpenTelemetry")
		}
	}

	slog.Info("graceful shutdown complete")
}
