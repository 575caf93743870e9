// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
)

// NatsTokenRepository keeps members' external calendar OAuth tokens under
// token/<member id>.
type NatsTokenRepository struct {
	*NatsBaseRepository[oauth2.Token]
	keyBuilder *KeyBuilder
}

// NewNatsTokenRepository creates a token repository on the given bucket.
func NewNatsTokenRepository(kvStore INatsKeyValue) *NatsTokenRepository {
	return &NatsTokenRepository{
		NatsBaseRepository: NewNatsBaseRepository[oauth2.Token](kvStore, "calendar token"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsTokenRepository) tokenKey(memberID string) string {
	return r.keyBuilder.EntityKey(KeyPrefixToken, memberID)
}

// GetToken returns the stored token of a member, or a not found error.
func (r *NatsTokenRepository) GetToken(ctx context.Context, memberID string) (*oauth2.Token, error) {
	return r.Get(ctx, r.tokenKey(memberID))
}

// SaveToken stores or replaces a member's token.
func (r *NatsTokenRepository) SaveToken(ctx context.Context, memberID string, token *oauth2.Token) error {
	if strings.TrimSpace(memberID) == "" {
		return domain.NewValidationError("member id is required")
	}
	if token == nil || token.AccessToken == "" {
		return domain.NewValidationError(fmt.Sprintf("token for member %s has no access token", memberID))
	}
	_, err := r.Put(ctx, r.tokenKey(memberID), token)
	return err
}

// DeleteToken forgets a member's token. Deleting a missing token is not an
// error.
func (r *NatsTokenRepository) DeleteToken(ctx context.Context, memberID string) error {
	err := r.Delete(ctx, r.tokenKey(memberID), 0)
	if err != nil && domain.GetErrorType(err) == domain.ErrorTypeNotFound {
		return nil
	}
	return err
}
