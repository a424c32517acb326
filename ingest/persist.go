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


package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// Coordinator owns the pipeline's database writes. Each batch goes through
// one repository call (one transaction); transient storage failures such as
// commit conflicts are retried with short exponential backoff.
type Coordinator struct {
	sessions   storage.SessionRepository
	statements storage.StatementRepository
	votes      storage.VoteRepository

	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithWriteRetry sets the transient-failure retry bound and base delay.
func WithWriteRetry(maxAttempts int, baseDelay time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// NewCoordinator creates a persistence coordinator.
func NewCoordinator(
	sessions storage.SessionRepository,
	statements storage.StatementRepository,
	votes storage.VoteRepository,
	logger *slog.Logger,
	opts ...CoordinatorOption,
) (*Coordinator, error) {
	if sessions == nil || statements == nil || votes == nil {
		return nil, ErrStoreRequired
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		sessions:    sessions,
		statements:  statements,
		votes:       votes,
		maxAttempts: 3,
		baseDelay:   50 * time.Millisecond,
		logger:      logger.With("component", "persist"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SaveSession upserts the session row.
func (c *Coordinator) SaveSession(ctx context.Context, session *core.Session) (*core.Session, error) {
	var stored []*core.Session
	err := RetryTransient(ctx, func() error {
		var err error
		stored, err = c.sessions.UpsertSessions(ctx, session)
		return err
	}, c.maxAttempts, c.baseDelay)
	if err != nil {
		return nil, err
	}
	return stored[0], nil
}

// MarkAttempt records an ingestion attempt timestamp. Called before the
// pipeline body so half-processed sessions remain detectable afterwards.
func (c *Coordinator) MarkAttempt(ctx context.Context, sessionID string, at time.Time) error {
	return RetryTransient(ctx, func() error {
		return c.sessions.TouchIngestAttempt(ctx, sessionID, at)
	}, c.maxAttempts, c.baseDelay)
}

// SaveStatements upserts a batch of statements in one transaction.
// Fingerprint keying makes the call idempotent.
func (c *Coordinator) SaveStatements(ctx context.Context, statements ...*core.Statement) error {
	if len(statements) == 0 {
		return nil
	}
	return RetryTransient(ctx, func() error {
		_, err := c.statements.UpsertStatements(ctx, statements...)
		return err
	}, c.maxAttempts, c.baseDelay)
}

// SaveVotes upserts a batch of voting records in one transaction.
func (c *Coordinator) SaveVotes(ctx context.Context, votes ...*core.VotingRecord) error {
	if len(votes) == 0 {
		return nil
	}
	return RetryTransient(ctx, func() error {
		_, err := c.votes.UpsertVotes(ctx, votes...)
		return err
	}, c.maxAttempts, c.baseDelay)
}
