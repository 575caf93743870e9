// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPHeaderConstants(t *testing.T) {
	tests := []struct {
		name     string
		constant string
		expected string
	}{
		{name: "RequestIDHeader", constant: RequestIDHeader, expected: "X-REQUEST-ID"},
		{name: "EtagHeader", constant: EtagHeader, expected: "ETag"},
		{name: "IfMatchHeader", constant: IfMatchHeader, expected: "If-Match"},
		{name: "ContentTypeHeader", constant: ContentTypeHeader, expected: "Content-Type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.constant)
		})
	}
}

func TestRequestIDContextID(t *testing.T) {
	assert.Equal(t, "X-REQUEST-ID", string(RequestIDContextID))
}
