package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// StatementRepository implements storage.StatementRepository for BadgerDB.
type StatementRepository struct {
	backend *Backend
}

var _ storage.StatementRepository = (*StatementRepository)(nil)

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(backend *Backend) (*StatementRepository, error) {
	return &StatementRepository{
		backend: backend,
	}, nil
}

// Close releases resources. StatementRepository has no resources to release.
func (r *StatementRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *StatementRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertStatements inserts or updates statements keyed by their content
// fingerprint. Re-ingesting identical content refreshes UpdatedAt only.
func (r *StatementRepository) UpsertStatements(ctx context.Context, statements ...*core.Statement) ([]*core.Statement, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, statement := range statements {
			if err := core.ValidateStatement(statement); err != nil {
				return err
			}

			key := makeStatementKey(statement.Id)
			old, err := readStatement(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old == nil {
				statement.InsertedAt = now
			} else {
				statement.InsertedAt = old.InsertedAt
			}
			statement.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalStatement(statement)); err != nil {
				return err
			}
			idBytes := storage.MarshalID(statement.Id)
			sessionKey := makeStatementSessionKey(statement.SessionId, statement.Id)
			if err := tx.Set(sessionKey, idBytes); err != nil {
				return err
			}
			speakerKey := makeStatementSpeakerKey(statement.SpeakerId, statement.Id)
			if err := tx.Set(speakerKey, idBytes); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return statements, err
}

// GetStatement retrieves a statement by fingerprint.
func (r *StatementRepository) GetStatement(ctx context.Context, id core.ID) (*core.Statement, error) {
	var result *core.Statement
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readStatement(tx, makeStatementKey(id))
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

// GetStatementsBySession retrieves all statements of a session.
func (r *StatementRepository) GetStatementsBySession(ctx context.Context, sessionID string) ([]*core.Statement, error) {
	var results []*core.Statement
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialStatementSessionKey(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var statementIDs []core.ID
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := storage.UnmarshalID(val)
				if err != nil {
					return err
				}
				statementIDs = append(statementIDs, id)
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, id := range statementIDs {
			statement, err := readStatement(tx, makeStatementKey(id))
			if err != nil {
				return err
			}
			if statement != nil {
				results = append(results, statement)
			}
		}
		return nil
	}, false)
	return results, err
}

// CountStatementsBySession counts the statements of a session.
func (r *StatementRepository) CountStatementsBySession(ctx context.Context, sessionID string) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialStatementSessionKey(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteStatements removes statements and their index entries.
func (r *StatementRepository) DeleteStatements(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeStatementKey(id)
			statement, err := readStatement(tx, key)
			if err != nil {
				return err
			}
			if statement == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeStatementSessionKey(statement.SessionId, id)); err != nil {
				return err
			}
			if err := tx.Delete(makeStatementSpeakerKey(statement.SpeakerId, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readStatement reads a statement from the transaction.
// Returns nil, nil when the key does not exist.
func readStatement(tx *badger.Txn, key []byte) (*core.Statement, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var statement *core.Statement
	err = item.Value(func(val []byte) error {
		var err error
		statement, err = storage.UnmarshalStatement(val)
		return err
	})
	return statement, err
}
