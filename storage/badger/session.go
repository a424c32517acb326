package badger

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// SessionRepository implements storage.SessionRepository for BadgerDB.
type SessionRepository struct {
	backend *Backend
}

var _ storage.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(backend *Backend) (*SessionRepository, error) {
	return &SessionRepository{
		backend: backend,
	}, nil
}

// Close releases resources. SessionRepository has no resources to release.
func (r *SessionRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SessionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertSessions inserts or updates sessions keyed by their identifier.
func (r *SessionRepository) UpsertSessions(ctx context.Context, sessions ...*core.Session) ([]*core.Session, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, session := range sessions {
			if err := core.ValidateSession(session); err != nil {
				return err
			}

			key := makeSessionKey(session.Id)
			old, err := readSession(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old == nil {
				session.InsertedAt = now
			} else {
				// A session is immutable after creation apart from its
				// document reference and ingestion attempt timestamp.
				merged := *old
				if session.SourceURL != "" {
					merged.SourceURL = session.SourceURL
				}
				if !session.LastAttemptAt.IsZero() {
					merged.LastAttemptAt = session.LastAttemptAt
				}
				*session = merged
			}
			session.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return sessions, err
}

// GetSession retrieves a session by its identifier.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*core.Session, error) {
	var result *core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSession(tx, makeSessionKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListSessions retrieves all sessions ordered by identifier.
func (r *SessionRepository) ListSessions(ctx context.Context) ([]*core.Session, error) {
	var results []*core.Session
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		prefix := []byte(sessionPrefix + ":")
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var session *core.Session
			err := iter.Item().Value(func(val []byte) error {
				var err error
				session, err = storage.UnmarshalSession(val)
				return err
			})
			if err != nil {
				return err
			}
			if session != nil {
				results = append(results, session)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.Session) int {
		return strings.Compare(a.Id, b.Id)
	})
	return results, nil
}

// TouchIngestAttempt records an ingestion attempt timestamp.
func (r *SessionRepository) TouchIngestAttempt(ctx context.Context, id string, at time.Time) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(id)
		session, err := readSession(tx, key)
		if err != nil {
			return err
		}
		if session == nil {
			return storage.ErrNotFound
		}

		session.LastAttemptAt = at.UTC()
		session.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalSession(session)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteSessions removes sessions and cascades to their bills and statements.
func (r *SessionRepository) DeleteSessions(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeSessionKey(id)
			session, err := readSession(tx, key)
			if err != nil {
				return err
			}
			if session == nil {
				return storage.ErrNotFound
			}

			if err := deleteSessionBills(tx, id); err != nil {
				return err
			}
			if err := deleteSessionStatements(tx, id); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// deleteSessionBills removes a session's bills, their voting records and the
// session->bill index entries.
func deleteSessionBills(tx *badger.Txn, sessionID string) error {
	prefix := makePartialBillSessionKey(sessionID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	var indexKeys [][]byte
	var billIDs []string

	iter := tx.NewIterator(opts)
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		indexKeys = append(indexKeys, item.KeyCopy(nil))
		err := item.Value(func(val []byte) error {
			billIDs = append(billIDs, string(val))
			return nil
		})
		if err != nil {
			iter.Close()
			return err
		}
	}
	iter.Close()

	for _, billID := range billIDs {
		if err := deleteBillVotes(tx, billID); err != nil {
			return err
		}
		if err := tx.Delete(makeBillKey(billID)); err != nil {
			return err
		}
	}
	for _, key := range indexKeys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// deleteSessionStatements removes a session's statements via the
// session->statement index.
func deleteSessionStatements(tx *badger.Txn, sessionID string) error {
	prefix := makePartialStatementSessionKey(sessionID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	var indexKeys [][]byte
	var statementIDs []core.ID

	iter := tx.NewIterator(opts)
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		indexKeys = append(indexKeys, item.KeyCopy(nil))
		err := item.Value(func(val []byte) error {
			id, err := storage.UnmarshalID(val)
			if err != nil {
				return err
			}
			statementIDs = append(statementIDs, id)
			return nil
		})
		if err != nil {
			iter.Close()
			return err
		}
	}
	iter.Close()

	for _, id := range statementIDs {
		statement, err := readStatement(tx, makeStatementKey(id))
		if err != nil {
			return err
		}
		if statement == nil {
			continue
		}
		if err := tx.Delete(makeStatementSpeakerKey(statement.SpeakerId, id)); err != nil {
			return err
		}
		if err := tx.Delete(makeStatementKey(id)); err != nil {
			return err
		}
	}
	for _, key := range indexKeys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// readSession reads a session from the transaction.
// Returns nil, nil when the key does not exist.
func readSession(tx *badger.Txn, key []byte) (*core.Session, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var session *core.Session
	err = item.Value(func(val []byte) error {
		var err error
		session, err = storage.UnmarshalSession(val)
		return err
	})
	return session, err
}
