// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package extraction

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
)

// Chain tries each extractor in order and returns the first success.
type Chain struct {
	extractors []domain.ConstraintExtractor
}

// NewChain returns a Chain over the given extractors. Nil entries are skipped.
func NewChain(extractors ...domain.ConstraintExtractor) *Chain {
	c := &Chain{}
	for _, e := range extractors {
		if e != nil {
			c.extractors = append(c.extractors, e)
		}
	}
	return c
}

// Extract implements domain.ConstraintExtractor.
func (c *Chain) Extract(ctx context.Context, text string) (*models.ParsedRequest, error) {
	if len(c.extractors) == 0 {
		return nil, domain.NewInternalError("no constraint extractors configured")
	}

	if strings.TrimSpace(text) == "" {
		return nil, domain.NewValidationError("transcript is required")
	}

	var errs error
	for i, e := range c.extractors {
		parsed, err := e.Extract(ctx, text)
		if err == nil {
			return parsed, nil
		}
		// validation failures are about the input, not the extractor
		if domain.GetErrorType(err) == domain.ErrorTypeValidation {
			return nil, err
		}
		if !errors.Is(err, ErrNotConfigured) {
			slog.WarnContext(ctx, "constraint extractor failed, trying next", "position", i, logging.ErrKey, err)
		}
		errs = errors.Join(errs, err)
	}
	return nil, errs
}
