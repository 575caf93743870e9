// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package service implements the scheduling service's use cases on top of the
// domain interfaces.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// DefaultMaxRetries is how many times a group write is attempted when
// another writer got there first.
const DefaultMaxRetries = 3

// Service is implemented by every service so the server can check readiness.
type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// MaxRetries bounds read-modify-write attempts on revision conflicts.
	MaxRetries int
	// BaseURL is used to build group join links.
	BaseURL string
	// MaxSuggestions caps suggestions when a request does not.
	MaxSuggestions int
	// PublishWorkers bounds concurrent external calendar insertions.
	PublishWorkers int
}

func (c ServiceConfig) attempts() int {
	if c.MaxRetries <= 0 {
		return DefaultMaxRetries
	}
	return c.MaxRetries
}

// errNoChange lets a mutation skip the write when there is nothing to store.
var errNoChange = errors.New("no change")

func isRevisionConflict(err error) bool {
	return domain.GetErrorType(err) == domain.ErrorTypeConflict && errors.Is(err, domain.ErrRevisionMismatch)
}

// mutateGroup reads the group, applies fn and writes it back at the revision
// it was read at. A lost race re-reads and re-applies fn, so fn must only
// depend on the group it is given.
func mutateGroup(
	ctx context.Context,
	repo domain.GroupRepository,
	attempts int,
	now func() time.Time,
	groupID string,
	fn func(group *models.Group) error,
) (*models.Group, error) {
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		group, revision, err := repo.GetGroupWithRevision(ctx, groupID)
		if err != nil {
			return nil, err
		}

		if err := fn(group); err != nil {
			if errors.Is(err, errNoChange) {
				return group, nil
			}
			return nil, err
		}
		group.UpdatedAt = now().UTC()

		err = repo.UpdateGroup(ctx, group, revision)
		if err == nil {
			return group, nil
		}
		if !isRevisionConflict(err) {
			return nil, err
		}

		lastErr = err
		slog.DebugContext(ctx, "group changed during update, retrying",
			"group_id", groupID, "attempt", attempt, "revision", revision)
	}

	slog.WarnContext(ctx, "giving up on group update after repeated conflicts",
		"group_id", groupID, "attempts", attempts)
	return nil, lastErr
}
