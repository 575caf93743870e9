// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
)

func TestNatsTokenRepository_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	kv := newMockNatsKeyValue()
	repo := NewNatsTokenRepository(kv)

	expiry := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveToken(ctx, "m-1", &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       expiry,
	}))
	_, stored := kv.data["token/m-1"]
	assert.True(t, stored)

	token, err := repo.GetToken(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.True(t, expiry.Equal(token.Expiry))

	// saving again replaces the token
	require.NoError(t, repo.SaveToken(ctx, "m-1", &oauth2.Token{AccessToken: "rotated"}))
	token, err = repo.GetToken(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "rotated", token.AccessToken)

	require.NoError(t, repo.DeleteToken(ctx, "m-1"))
	require.NoError(t, repo.DeleteToken(ctx, "m-1"))

	_, err = repo.GetToken(ctx, "m-1")
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestNatsTokenRepository_SaveValidation(t *testing.T) {
	repo := NewNatsTokenRepository(newMockNatsKeyValue())

	err := repo.SaveToken(context.Background(), "", &oauth2.Token{AccessToken: "a"})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))

	err = repo.SaveToken(context.Background(), "m-1", &oauth2.Token{})
	assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
}

func TestNatsTokenRepository_Unavailable(t *testing.T) {
	repo := NewNatsTokenRepository(nil)

	_, err := repo.GetToken(context.Background(), "m-1")
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
