package storage

import (
	"context"
	"time"

	"github.com/poiesic/hansard/core"
)

// Repository provides common operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// SessionRepository provides operations for managing sessions.
type SessionRepository interface {
	Repository

	// UpsertSessions inserts or updates sessions keyed by their external
	// identifier. An existing session keeps its InsertedAt; only the source
	// document reference and attempt timestamp are refreshed on conflict.
	UpsertSessions(ctx context.Context, sessions ...*core.Session) ([]*core.Session, error)

	// GetSession retrieves a session by its identifier.
	// Returns ErrNotFound if the session doesn't exist.
	GetSession(ctx context.Context, id string) (*core.Session, error)

	// ListSessions retrieves all sessions ordered by identifier.
	ListSessions(ctx context.Context) ([]*core.Session, error)

	// TouchIngestAttempt records an ingestion attempt timestamp so that
	// half-processed sessions remain detectable.
	// Returns ErrNotFound if the session doesn't exist.
	TouchIngestAttempt(ctx context.Context, id string, at time.Time) error

	// DeleteSessions removes sessions and cascades to their bills and
	// statements. Returns ErrNotFound if any session doesn't exist.
	DeleteSessions(ctx context.Context, ids ...string) error
}

// BillRepository provides operations for managing bills.
type BillRepository interface {
	Repository

	// UpsertBills inserts or updates bills keyed by their identifier.
	// Existing bills keep their InsertedAt timestamp.
	UpsertBills(ctx context.Context, bills ...*core.Bill) ([]*core.Bill, error)

	// GetBill retrieves a bill by its identifier.
	// Returns ErrNotFound if the bill doesn't exist.
	GetBill(ctx context.Context, id string) (*core.Bill, error)

	// GetBillsBySession retrieves all bills belonging to a session.
	GetBillsBySession(ctx context.Context, sessionID string) ([]*core.Bill, error)

	// DeleteBills removes bills by their identifiers.
	// Returns ErrNotFound if any bill doesn't exist.
	DeleteBills(ctx context.Context, ids ...string) error
}

// SpeakerRepository provides operations for managing speakers.
type SpeakerRepository interface {
	Repository

	// UpsertSpeakers inserts or updates speakers keyed by their identifier.
	// Existing speakers keep their InsertedAt timestamp; a placeholder is
	// upgraded in place when re-upserted with registry data.
	UpsertSpeakers(ctx context.Context, speakers ...*core.Speaker) ([]*core.Speaker, error)

	// GetSpeaker retrieves a speaker by identifier.
	// Returns ErrNotFound if the speaker doesn't exist.
	GetSpeaker(ctx context.Context, id string) (*core.Speaker, error)

	// FindSpeakerByName finds a speaker by exact display name.
	// Returns ErrNotFound if no speaker with that name exists.
	FindSpeakerByName(ctx context.Context, name string) (*core.Speaker, error)

	// ListPlaceholders retrieves all placeholder speakers pending
	// reconciliation against the authoritative registry.
	ListPlaceholders(ctx context.Context) ([]*core.Speaker, error)

	// DeleteSpeakers removes speakers and cascades to their statements and
	// voting records. Returns ErrNotFound if any speaker doesn't exist.
	DeleteSpeakers(ctx context.Context, ids ...string) error
}

// StatementRepository provides operations for managing statements.
type StatementRepository interface {
	Repository

	// UpsertStatements inserts or updates statements keyed by their content
	// fingerprint. Re-ingesting identical content is a no-op apart from the
	// UpdatedAt timestamp.
	UpsertStatements(ctx context.Context, statements ...*core.Statement) ([]*core.Statement, error)

	// GetStatement retrieves a statement by fingerprint.
	// Returns ErrNotFound if the statement doesn't exist.
	GetStatement(ctx context.Context, id core.ID) (*core.Statement, error)

	// GetStatementsBySession retrieves all statements of a session.
	GetStatementsBySession(ctx context.Context, sessionID string) ([]*core.Statement, error)

	// CountStatementsBySession counts the statements of a session.
	CountStatementsBySession(ctx context.Context, sessionID string) (int, error)

	// DeleteStatements removes statements by fingerprint.
	// Returns ErrNotFound if any statement doesn't exist.
	DeleteStatements(ctx context.Context, ids ...core.ID) error
}

// VoteRepository provides operations for managing voting records.
type VoteRepository interface {
	Repository

	// UpsertVotes inserts or updates voting records keyed by their unique
	// (bill, speaker) pair.
	UpsertVotes(ctx context.Context, votes ...*core.VotingRecord) ([]*core.VotingRecord, error)

	// GetVote retrieves the voting record for a (bill, speaker) pair.
	// Returns ErrNotFound if no such record exists.
	GetVote(ctx context.Context, billID, speakerID string) (*core.VotingRecord, error)

	// GetVotesByBill retrieves all voting records for a bill.
	GetVotesByBill(ctx context.Context, billID string) ([]*core.VotingRecord, error)
}

// CategoryRepository provides operations for managing policy categories.
type CategoryRepository interface {
	Repository

	// GetOrCreateCategory finds or creates a category by kind and name.
	// Thread-safe: handles concurrent creation attempts.
	GetOrCreateCategory(ctx context.Context, kind, name string) (*core.Category, error)

	// GetCategory retrieves a category by ID.
	// Returns ErrNotFound if the category doesn't exist.
	GetCategory(ctx context.Context, id core.ID) (*core.Category, error)

	// FindCategoryByKindAndName finds a category by its tuple.
	// Returns ErrNotFound if no matching category exists.
	FindCategoryByKindAndName(ctx context.Context, kind, name string) (*core.Category, error)
}
