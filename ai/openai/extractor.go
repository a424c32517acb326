// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/hansard/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// StatementExtractor implements ai.StatementExtractor using OpenAI-compatible
// chat APIs. Every instance created against the same limiter shares the
// process-wide request ceiling.
type StatementExtractor struct {
	client      llms.Model
	limiter     *ai.RateLimiter
	backoff     *ai.Backoff
	maxAttempts int
	logger      *slog.Logger
}

// newStatementExtractor is an internal constructor that returns the concrete
// type. Used by Provider to manage the instance.
func newStatementExtractor(config *ai.Config, limiter *ai.RateLimiter) (*StatementExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if limiter == nil {
		return nil, errors.New("openai: limiter is required")
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &StatementExtractor{
		client:      client,
		limiter:     limiter,
		backoff:     ai.NewBackoff(config.BackoffBase, config.BackoffCap),
		maxAttempts: config.MaxAttempts,
		logger:      slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewStatementExtractor creates a statement extractor using the provided
// configuration and shared rate limiter.
//
// Returns ai.StatementExtractor interface to enforce abstraction.
func NewStatementExtractor(config *ai.Config, limiter *ai.RateLimiter) (ai.StatementExtractor, error) {
	return newStatementExtractor(config, limiter)
}

// ExtractSegments issues one structured generation call for the document.
//
// Every attempt passes the backoff gate and the rate limiter before the call
// is issued. Retriable failures (throttling, 5xx, timeouts) arm the backoff
// gate and consume an attempt; fatal failures (auth, malformed request)
// abort immediately. A single fresh re-ask is permitted after a parse
// failure; a second parse failure rejects the document.
func (e *StatementExtractor) ExtractSegments(ctx context.Context, text string) ([]ai.Segment, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(text),
			},
		},
	}

	var lastErr error
	parseFailures := 0
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		if err := e.backoff.Wait(ctx); err != nil {
			return nil, err
		}
		if err := e.limiter.Acquire(ctx); err != nil {
			return nil, err
		}

		response, err := e.client.GenerateContent(ctx, content,
			llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			if !ai.Retriable(err) {
				e.logger.Error("generation failed", "attempt", attempt, "err", err)
				return nil, err
			}
			e.backoff.Failure()
			e.logger.Warn("retriable generation failure", "attempt", attempt, "err", err)
			lastErr = err
			continue
		}
		e.backoff.Success()

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []ai.Segment{}, nil
		}

		segments, err := ai.ParseSegments(response.Choices[0].Content)
		if err != nil {
			parseFailures++
			e.logger.Warn("error parsing model response",
				"attempt", attempt,
				"parse_failures", parseFailures,
				"err", err)
			if parseFailures > 1 {
				return nil, err
			}
			lastErr = err
			continue
		}

		e.logger.Debug("extracted segments", "segments", len(segments))
		return segments, nil
	}

	return nil, fmt.Errorf("%w: %w", ai.ErrAttemptsExhausted, lastErr)
}
