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

// Package fetch retrieves transcript documents and registry listings over
// HTTP. Registry responses arrive in a nested JSON envelope whose shape
// varies between endpoints; decoding probes each known form in turn.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"
)

// Registry endpoint paths.
const (
	pathSessions   = "/sessions"
	pathTranscript = "/sessions/transcript"
	pathBills      = "/bills"
	pathVotes      = "/votes"
	pathMembers    = "/members"
)

// Client fetches transcripts and registry listings.
type Client struct {
	config Config
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a Client from a validated configuration.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fetch config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	http := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json").
		SetQueryParam("KEY", config.APIKey).
		SetQueryParam("Type", "json").
		SetRetryCount(config.RetryCount).
		SetRetryWaitTime(config.RetryWait).
		SetRetryMaxWaitTime(config.RetryWait)
	http.AddRetryCondition(retryCondition)

	return &Client{
		config: config,
		http:   http,
		logger: logger.With("component", "fetch"),
	}, nil
}

// retryCondition retries network errors, server errors and throttling.
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}
	code := r.StatusCode()
	return code >= 500 || code == 429 || code == 408
}

// FetchSessionListing retrieves the registry row for a session.
func (c *Client) FetchSessionListing(ctx context.Context, sessionID string) (*SessionListing, error) {
	var rows []SessionListing
	if err := c.getRows(ctx, pathSessions, map[string]string{"CONF_ID": sessionID}, &rows); err != nil {
		return nil, fmt.Errorf("session listing %s: %w", sessionID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("session listing %s: %w", sessionID, ErrNotFound)
	}
	return &rows[0], nil
}

// FetchTranscript downloads the transcript PDF for a session.
func (c *Client) FetchTranscript(ctx context.Context, sessionID string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("CONF_ID", sessionID).
		SetHeader("Accept", "application/pdf").
		Get(pathTranscript)
	if err != nil {
		return nil, fmt.Errorf("transcript %s: %w: %v", sessionID, ErrUnavailable, err)
	}
	if resp.StatusCode() == 404 {
		return nil, fmt.Errorf("transcript %s: %w", sessionID, ErrNotFound)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("transcript %s: %w: status %d", sessionID, ErrUnavailable, resp.StatusCode())
	}

	body := resp.Body()
	if len(body) == 0 {
		return nil, fmt.Errorf("transcript %s: %w", sessionID, ErrEmptyDocument)
	}
	c.logger.Debug("fetched transcript", "session", sessionID, "bytes", len(body))
	return body, nil
}

// FetchBillListings retrieves all bill rows for a session.
func (c *Client) FetchBillListings(ctx context.Context, sessionID string) ([]BillListing, error) {
	var rows []BillListing
	err := c.getRows(ctx, pathBills, map[string]string{"CONF_ID": sessionID}, &rows)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bill listings %s: %w", sessionID, err)
	}
	return rows, nil
}

// FetchVoteListings retrieves all per-member vote rows for a bill.
func (c *Client) FetchVoteListings(ctx context.Context, billID string) ([]VoteListing, error) {
	var rows []VoteListing
	err := c.getRows(ctx, pathVotes, map[string]string{"BILL_ID": billID}, &rows)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("vote listings %s: %w", billID, err)
	}
	return rows, nil
}

// LookupSpeaker finds a registry member row by exact name. Single attempt
// with a short timeout: resolution falls back to a placeholder rather than
// waiting on a slow registry.
func (c *Client) LookupSpeaker(ctx context.Context, name string) (*SpeakerListing, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.LookupTimeout)
	defer cancel()

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("HG_NM", name).
		Get(pathMembers)
	if err != nil {
		return nil, fmt.Errorf("speaker lookup %q: %w: %v", name, ErrUnavailable, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("speaker lookup %q: %w: status %d", name, ErrUnavailable, resp.StatusCode())
	}

	var rows []SpeakerListing
	if err := decodeEnvelope(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("speaker lookup %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("speaker lookup %q: %w", name, ErrNotFound)
	}
	return &rows[0], nil
}

// getRows performs a registry GET and decodes the enveloped row array.
func (c *Client) getRows(ctx context.Context, path string, params map[string]string, rows any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	return decodeEnvelope(resp.Body(), rows)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
