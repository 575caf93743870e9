// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/infrastructure/ics"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/pkg/constants"
)

// errorResponse is the body of every error reply.
type errorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes data as JSON with the given status code.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(ctx, "failed to encode JSON response", logging.ErrKey, err)
	}
}

// writeError writes a standardized error response.
func writeError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	writeJSON(ctx, w, statusCode, errorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})
}

// statusCode maps an error onto the HTTP status it is reported with.
func statusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ics.ErrMissingTitle), errors.Is(err, ics.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, ics.ErrNoEvents):
		return http.StatusNotFound
	}

	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// handleError writes err with its mapped status. Internal errors are logged
// and their details kept out of the response.
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	code := statusCode(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
		message = "internal server error"
	}
	writeError(ctx, w, code, message)
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.NewValidationError("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.NewValidationError("invalid JSON body", err)
	}
	return nil
}

// etag renders a KV revision as an ETag value.
func etag(revision uint64) string {
	return strconv.FormatUint(revision, 10)
}

// ifMatchRevision returns the revision named by If-Match, or 0 when the
// header is absent.
func ifMatchRevision(r *http.Request) (uint64, error) {
	value := r.Header.Get(constants.IfMatchHeader)
	if value == "" {
		return 0, nil
	}
	if unquoted, err := strconv.Unquote(value); err == nil {
		value = unquoted
	}
	revision, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("If-Match must be a revision number", err)
	}
	return revision, nil
}
