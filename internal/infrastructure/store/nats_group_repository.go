// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
)

// ErrCodeTaken is returned by CreateGroup when another group holds the join code.
var ErrCodeTaken = errors.New("group code already in use")

// NatsGroupRepository is the NATS KV store repository for groups. Each group is
// stored whole under group/<id>; index/code/<code> maps a join code to the id.
type NatsGroupRepository struct {
	*NatsBaseRepository[models.Group]
	keyBuilder *KeyBuilder
}

// NewNatsGroupRepository creates a new NATS KV store repository for groups.
func NewNatsGroupRepository(kvStore INatsKeyValue) *NatsGroupRepository {
	return &NatsGroupRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Group](kvStore, "group"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

var _ domain.GroupRepository = (*NatsGroupRepository)(nil)

func (r *NatsGroupRepository) groupKey(groupID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixGroup, groupID)
}

func (r *NatsGroupRepository) codeKey(code string) string {
	return r.keyBuilder.LookupKey(KeyPrefixIndexCode, code)
}

// IsReady checks if the group repository is ready.
func (r *NatsGroupRepository) IsReady(ctx context.Context) bool {
	return r.NatsBaseRepository.IsReady()
}

// CreateGroup reserves the group's join code and then stores the group. When
// the code is already held the group is not stored and the returned error
// wraps ErrCodeTaken.
func (r *NatsGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	if group == nil || group.ID == "" {
		return domain.NewValidationError("group id is required")
	}

	if err := r.ReserveIndex(ctx, r.codeKey(group.Code), group.ID); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return domain.NewConflictError(fmt.Sprintf("group code %s already in use", group.Code), ErrCodeTaken)
		}
		return err
	}

	if err := r.Create(ctx, r.groupKey(group.ID), group); err != nil {
		if cleanupErr := r.DeleteIndex(ctx, r.codeKey(group.Code)); cleanupErr != nil {
			slog.WarnContext(ctx, "failed to release group code after create failure",
				logging.ErrKey, cleanupErr, "group_code", group.Code)
		}
		return err
	}
	return nil
}

// CodeExists checks if a join code is held by a group.
func (r *NatsGroupRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	return r.Exists(ctx, r.codeKey(code))
}

// GetGroup returns a group by id.
func (r *NatsGroupRepository) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, _, err := r.GetGroupWithRevision(ctx, groupID)
	return group, err
}

// GetGroupWithRevision returns a group by id along with its KV revision.
func (r *NatsGroupRepository) GetGroupWithRevision(ctx context.Context, groupID string) (*models.Group, uint64, error) {
	group, revision, err := r.GetWithRevision(ctx, r.groupKey(groupID))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, 0, domain.NewNotFoundError(fmt.Sprintf("group %s not found", groupID), domain.ErrGroupNotFound)
		}
		return nil, 0, err
	}
	return group, revision, nil
}

// GetGroupByCode resolves a join code and returns the group it points at.
func (r *NatsGroupRepository) GetGroupByCode(ctx context.Context, code string) (*models.Group, uint64, error) {
	groupID, err := r.GetIndex(ctx, r.codeKey(code))
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return nil, 0, domain.NewNotFoundError(fmt.Sprintf("no group with code %s", code), domain.ErrGroupNotFound)
		}
		return nil, 0, err
	}
	return r.GetGroupWithRevision(ctx, groupID)
}

// UpdateGroup writes the group if revision is still current.
func (r *NatsGroupRepository) UpdateGroup(ctx context.Context, group *models.Group, revision uint64) error {
	return r.Update(ctx, r.groupKey(group.ID), group, revision)
}

// DeleteGroup removes the group and releases its join code.
func (r *NatsGroupRepository) DeleteGroup(ctx context.Context, groupID string, revision uint64) error {
	group, err := r.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if err := r.Delete(ctx, r.groupKey(groupID), revision); err != nil {
		return err
	}

	if err := r.DeleteIndex(ctx, r.codeKey(group.Code)); err != nil {
		// The group itself is gone, a dangling code index only blocks that code.
		slog.WarnContext(ctx, "failed to release group code",
			logging.ErrKey, err, "group_id", groupID, "group_code", group.Code)
	}
	return nil
}

// ListAllGroups returns every stored group.
func (r *NatsGroupRepository) ListAllGroups(ctx context.Context) ([]*models.Group, error) {
	return r.ListEntities(ctx, r.keyBuilder.EntityPrefix(KeyPrefixGroup))
}
