// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package utils

// IntPtr converts an int to a pointer to an int.
func IntPtr(i int) *int {
	return &i
}
