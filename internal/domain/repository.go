// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
)

// GroupRepository defines the interface for group storage operations.
// Writes are revision checked so that a read-modify-write cycle on a group
// has at most one successful writer per revision.
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	CodeExists(ctx context.Context, code string) (bool, error)

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupWithRevision(ctx context.Context, groupID string) (*models.Group, uint64, error)
	GetGroupByCode(ctx context.Context, code string) (*models.Group, uint64, error)

	// UpdateGroup fails with a conflict error when revision is stale.
	UpdateGroup(ctx context.Context, group *models.Group, revision uint64) error
	DeleteGroup(ctx context.Context, groupID string, revision uint64) error

	ListAllGroups(ctx context.Context) ([]*models.Group, error)
	IsReady(ctx context.Context) bool
}

// CalendarTokenRepository stores the OAuth tokens members granted for their
// external calendars.
type CalendarTokenRepository interface {
	GetToken(ctx context.Context, memberID string) (*oauth2.Token, error)
	SaveToken(ctx context.Context, memberID string, token *oauth2.Token) error
	DeleteToken(ctx context.Context, memberID string) error
}
