// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"strings"
)

// Common key prefixes
const (
	// Entity prefixes
	KeyPrefixGroup = "group"
	KeyPrefixToken = "token"

	// Index prefixes
	KeyPrefixIndex     = "index"
	KeyPrefixIndexCode = "code"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds a key for an entity (e.g., "group/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s", entityType, uid))
}

// EntityPrefix is the prefix shared by every key of an entity type.
func (kb *KeyBuilder) EntityPrefix(entityType string) string {
	return kb.applyPrefix(entityType + "/")
}

// LookupKey builds a unique index key (e.g., "index/code/ABC234"). Lookup
// values are case-insensitive.
func (kb *KeyBuilder) LookupKey(indexType, indexValue string) string {
	key := fmt.Sprintf("%s/%s/%s", KeyPrefixIndex, indexType, strings.ToUpper(strings.TrimSpace(indexValue)))
	return kb.applyPrefix(key)
}

// applyPrefix adds the builder's prefix if one is set
func (kb *KeyBuilder) applyPrefix(key string) string {
	if kb.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", kb.prefix, key)
}
