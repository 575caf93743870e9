// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		build  func(kb *KeyBuilder) string
		want   string
	}{
		{
			name:  "entity key",
			build: func(kb *KeyBuilder) string { return kb.EntityKey(KeyPrefixGroup, "abc-123") },
			want:  "group/abc-123",
		},
		{
			name:   "entity key with prefix",
			prefix: "tenant",
			build:  func(kb *KeyBuilder) string { return kb.EntityKey(KeyPrefixGroup, "abc-123") },
			want:   "tenant/group/abc-123",
		},
		{
			name:  "entity prefix",
			build: func(kb *KeyBuilder) string { return kb.EntityPrefix(KeyPrefixGroup) },
			want:  "group/",
		},
		{
			name:  "lookup key is case insensitive",
			build: func(kb *KeyBuilder) string { return kb.LookupKey(KeyPrefixIndexCode, " abc234 ") },
			want:  "index/code/ABC234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build(NewKeyBuilder(tt.prefix)))
		})
	}
}
