// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/go-viper/mapstructure/v2"

	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-scheduling-service/internal/logging"
)

// Defaults for an OpenAI compatible chat completions endpoint.
const (
	DefaultLLMBaseURL = "https://api.groq.com/openai/v1"
	DefaultLLMModel   = "llama-3.1-8b-instant"
	DefaultLLMTimeout = 15 * time.Second

	// MinLLMDuration is the shortest meeting a model answer may produce.
	MinLLMDuration = 15
)

// ErrNotConfigured is returned by an LLMExtractor without an API key.
var ErrNotConfigured = errors.New("language model extractor is not configured")

const systemPrompt = `You extract meeting scheduling constraints from raw text.
Return strict JSON with keys: duration (minutes, integer), participants (string[] of names if given), location (string|null), priority (string|null: exam|study|workout|social|high|medium|low), timeConstraints: { relativeDay?: 'today'|'tomorrow'|'this_week'|'next_week', timeWindow?: 'morning'|'afternoon'|'evening'|'night', startTime?: 'HH:MM', endTime?: 'HH:MM' }`

// LLMConfig configures an LLMExtractor.
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// LLMExtractor asks a chat completions model to produce the constraints.
type LLMExtractor struct {
	client *resty.Client
	config LLMConfig
}

// NewLLMExtractor builds an extractor; unset fields fall back to the Groq
// defaults.
func NewLLMExtractor(config LLMConfig) *LLMExtractor {
	if config.BaseURL == "" {
		config.BaseURL = DefaultLLMBaseURL
	}
	if config.Model == "" {
		config.Model = DefaultLLMModel
	}
	if config.Temperature == 0 {
		config.Temperature = 0.2
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultLLMTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(config.Timeout)
	if config.APIKey != "" {
		client.SetAuthToken(config.APIKey)
	}

	return &LLMExtractor{client: client, config: config}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Extract implements domain.ConstraintExtractor.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (*models.ParsedRequest, error) {
	if e.config.APIKey == "" {
		return nil, ErrNotConfigured
	}

	var out chatResponse
	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       e.config.Model,
			Temperature: e.config.Temperature,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: fmt.Sprintf("Text: %s\nReturn JSON only.", text)},
			},
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("chat completions request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("chat completions status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Choices) == 0 {
		return nil, errors.New("chat completions returned no choices")
	}

	parsed, err := decodeConstraints(out.Choices[0].Message.Content)
	if err != nil {
		slog.DebugContext(ctx, "model answer could not be decoded", logging.ErrKey, err)
		return nil, err
	}
	return parsed, nil
}

// decodeConstraints reads the model's JSON answer. Models are loose with
// types, so numbers given as strings are accepted.
func decodeConstraints(content string) (*models.ParsedRequest, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &raw); err != nil {
		return nil, fmt.Errorf("model answer is not JSON: %w", err)
	}

	var constraints models.SchedulingConstraints
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &constraints,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("model answer has unexpected shape: %w", err)
	}

	if constraints.Duration == 0 {
		constraints.Duration = DefaultDuration
	}
	constraints.Duration = max(MinLLMDuration, constraints.Duration)
	if constraints.Participants == nil {
		constraints.Participants = []string{}
	}
	if !models.Priority(constraints.Priority).IsValid() {
		constraints.Priority = ""
	}

	summary := fmt.Sprintf("%dh %dm", constraints.Duration/60, constraints.Duration%60)
	if len(constraints.Participants) > 0 {
		summary += " with " + strings.Join(constraints.Participants, ", ")
	}

	return &models.ParsedRequest{
		Constraints:       constraints,
		NormalizedSummary: summary,
		Assumptions:       []string{},
	}, nil
}
