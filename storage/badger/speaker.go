package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// SpeakerRepository implements storage.SpeakerRepository for BadgerDB.
type SpeakerRepository struct {
	backend *Backend
}

var _ storage.SpeakerRepository = (*SpeakerRepository)(nil)

// NewSpeakerRepository creates a new SpeakerRepository.
func NewSpeakerRepository(backend *Backend) (*SpeakerRepository, error) {
	return &SpeakerRepository{
		backend: backend,
	}, nil
}

// Close releases resources. SpeakerRepository has no resources to release.
func (r *SpeakerRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SpeakerRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertSpeakers inserts or updates speakers keyed by their identifier.
func (r *SpeakerRepository) UpsertSpeakers(ctx context.Context, speakers ...*core.Speaker) ([]*core.Speaker, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, speaker := range speakers {
			if err := core.ValidateSpeaker(speaker); err != nil {
				return err
			}

			key := makeSpeakerKey(speaker.Id)
			old, err := readSpeaker(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old == nil {
				speaker.InsertedAt = now
			} else {
				speaker.InsertedAt = old.InsertedAt
				// Affiliation history only ever grows. A re-upsert that
				// carries a shorter history keeps the stored one.
				if len(speaker.Affiliations) < len(old.Affiliations) {
					speaker.Affiliations = old.Affiliations
					speaker.CurrentParty = old.CurrentParty
				}
				if old.Name != speaker.Name && old.Name != "" {
					if err := tx.Delete(makeSpeakerNameKey(old.Name)); err != nil {
						return err
					}
				}
			}
			speaker.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalSpeaker(speaker)); err != nil {
				return err
			}
			if speaker.Name != "" {
				nameKey := makeSpeakerNameKey(speaker.Name)
				if err := tx.Set(nameKey, []byte(speaker.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return speakers, err
}

// GetSpeaker retrieves a speaker by identifier.
func (r *SpeakerRepository) GetSpeaker(ctx context.Context, id string) (*core.Speaker, error) {
	var result *core.Speaker
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readSpeaker(tx, makeSpeakerKey(id))
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

// FindSpeakerByName finds a speaker by exact display name.
func (r *SpeakerRepository) FindSpeakerByName(ctx context.Context, name string) (*core.Speaker, error) {
	var result *core.Speaker
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSpeakerNameKey(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}

		var speakerID string
		err = item.Value(func(val []byte) error {
			speakerID = string(val)
			return nil
		})
		if err != nil {
			return err
		}

		result, err = readSpeaker(tx, makeSpeakerKey(speakerID))
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

// ListPlaceholders retrieves all placeholder speakers pending reconciliation.
func (r *SpeakerRepository) ListPlaceholders(ctx context.Context) ([]*core.Speaker, error) {
	var results []*core.Speaker
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(speakerPrefix + ":")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var speaker *core.Speaker
			err := iter.Item().Value(func(val []byte) error {
				var err error
				speaker, err = storage.UnmarshalSpeaker(val)
				return err
			})
			if err != nil {
				return err
			}
			if speaker != nil && speaker.Placeholder {
				results = append(results, speaker)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteSpeakers removes speakers and cascades to their statements and
// voting records.
func (r *SpeakerRepository) DeleteSpeakers(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeSpeakerKey(id)
			speaker, err := readSpeaker(tx, key)
			if err != nil {
				return err
			}
			if speaker == nil {
				return storage.ErrNotFound
			}

			if err := deleteSpeakerStatements(tx, id); err != nil {
				return err
			}
			if err := deleteSpeakerVotes(tx, id); err != nil {
				return err
			}
			if speaker.Name != "" {
				if err := tx.Delete(makeSpeakerNameKey(speaker.Name)); err != nil {
					return err
				}
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// deleteSpeakerStatements removes a speaker's statements via the
// speaker->statement index, including the session index entries.
func deleteSpeakerStatements(tx *badger.Txn, speakerID string) error {
	prefix := makePartialStatementSpeakerKey(speakerID)
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
		if err := tx.Delete(makeStatementSessionKey(statement.SessionId, id)); err != nil {
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

// deleteSpeakerVotes removes a speaker's voting records via the
// speaker->vote index. Index values hold the primary vote key.
func deleteSpeakerVotes(tx *badger.Txn, speakerID string) error {
	prefix := makePartialVoteSpeakerKey(speakerID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	var indexKeys [][]byte
	var voteKeys [][]byte

	iter := tx.NewIterator(opts)
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		indexKeys = append(indexKeys, item.KeyCopy(nil))
		err := item.Value(func(val []byte) error {
			voteKeys = append(voteKeys, append([]byte(nil), val...))
			return nil
		})
		if err != nil {
			iter.Close()
			return err
		}
	}
	iter.Close()

	for _, key := range voteKeys {
		if err := tx.Delete(key); err != nil {
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

// readSpeaker reads a speaker from the transaction.
// Returns nil, nil when the key does not exist.
func readSpeaker(tx *badger.Txn, key []byte) (*core.Speaker, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var speaker *core.Speaker
	err = item.Value(func(val []byte) error {
		var err error
		speaker, err = storage.UnmarshalSpeaker(val)
		return err
	})
	return speaker, err
}
