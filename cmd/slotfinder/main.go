// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is slotfinder, a command line tool that runs the scheduling
// engine against calendars stored in a JSON file.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	logging.InitStructureLogConfig()

	if err := newApp().Run(os.Args); err != nil {
		slog.With(logging.ErrKey, err).Error("slotfinder failed")
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "slotfinder",
		Usage: "Find common free time across calendars.",
		Commands: []*cli.Command{
			suggestCommand(),
			parseCommand(),
		},
	}
}
