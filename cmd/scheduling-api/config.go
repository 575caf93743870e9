// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/scheduling"
)

// flags are the command line flags for the scheduling service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the scheduling service.
type environment struct {
	Port    string `envconfig:"PORT" default:"8080"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:3000"`

	NatsURL     string        `envconfig:"NATS_URL" default:"nats://localhost:4222"`
	NatsTimeout time.Duration `envconfig:"NATS_TIMEOUT" default:"10s"`

	Timezone       string `envconfig:"TIMEZONE" default:"UTC"`
	WorkdayStart   string `envconfig:"WORKDAY_START" default:"09:00"`
	WorkdayEnd     string `envconfig:"WORKDAY_END" default:"17:00"`
	MaxSuggestions int    `envconfig:"MAX_SUGGESTIONS" default:"3"`

	BookingMaxRetries int `envconfig:"BOOKING_MAX_RETRIES" default:"3"`
	PublishWorkers    int `envconfig:"PUBLISH_WORKERS" default:"4"`

	LLMBaseURL     string        `envconfig:"LLM_BASE_URL"`
	LLMAPIKey      string        `envconfig:"LLM_API_KEY"`
	LLMModel       string        `envconfig:"LLM_MODEL"`
	LLMTemperature float64       `envconfig:"LLM_TEMPERATURE" default:"0.1"`
	LLMTimeout     time.Duration `envconfig:"LLM_TIMEOUT" default:"15s"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL"`
	GoogleCalendarID   string `envconfig:"GOOGLE_CALENDAR_ID" default:"primary"`
}

// location resolves TIMEZONE.
func (e environment) location() (*time.Location, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", e.Timezone, err)
	}
	return loc, nil
}

// workingHours resolves WORKDAY_START and WORKDAY_END.
func (e environment) workingHours() (scheduling.WorkingHours, error) {
	start, err := scheduling.TimeToMinutes(e.WorkdayStart)
	if err != nil {
		return scheduling.WorkingHours{}, fmt.Errorf("invalid WORKDAY_START: %w", err)
	}
	end, err := scheduling.TimeToMinutes(e.WorkdayEnd)
	if err != nil {
		return scheduling.WorkingHours{}, fmt.Errorf("invalid WORKDAY_END: %w", err)
	}
	hours := scheduling.WorkingHours{Start: start, End: end}
	if !hours.Valid() {
		return scheduling.WorkingHours{}, fmt.Errorf("working day %s-%s is empty", e.WorkdayStart, e.WorkdayEnd)
	}
	return hours, nil
}

// googleEnabled reports whether an OAuth client for Google Calendar is set.
func (e environment) googleEnabled() bool {
	return e.GoogleClientID != "" && e.GoogleClientSecret != ""
}

// parseFlags parses command line flags for the scheduling service
func parseFlags(defaultPort string) flags {
	var debug = flag.Bool("d", false, "enable debug logging")
	var port = flag.String("p", defaultPort, "listen port")
	var bind = flag.String("bind", "*", "interface to bind on")

	flag.Usage = func() {
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()

	// Based on the debug flag, set the log level environment variable used by [logging.InitStructureLogConfig]
	if *debug {
		err := os.Setenv("LOG_LEVEL", "debug")
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting log level")
			os.Exit(1)
		}
	}

	return flags{
		Debug: *debug,
		Port:  *port,
		Bind:  *bind,
	}
}

// parseEnv loads an optional .env file and parses environment variables for
// the scheduling service.
func parseEnv() (environment, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file")
	}

	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return environment{}, err
	}
	return env, nil
}
