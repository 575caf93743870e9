// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntPtr(t *testing.T) {
	for _, v := range []int{0, 1, -1, 6} {
		ptr := IntPtr(v)
		if assert.NotNil(t, ptr) {
			assert.Equal(t, v, *ptr)
		}
	}

	a, b := IntPtr(3), IntPtr(3)
	assert.NotSame(t, a, b)
}
