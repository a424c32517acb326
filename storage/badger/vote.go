package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// VoteRepository implements storage.VoteRepository for BadgerDB.
type VoteRepository struct {
	backend *Backend
}

var _ storage.VoteRepository = (*VoteRepository)(nil)

// NewVoteRepository creates a new VoteRepository.
func NewVoteRepository(backend *Backend) (*VoteRepository, error) {
	return &VoteRepository{
		backend: backend,
	}, nil
}

// Close releases resources. VoteRepository has no resources to release.
func (r *VoteRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *VoteRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertVotes inserts or updates voting records keyed by their unique
// (bill, speaker) pair. A later upsert for the same pair overwrites the
// recorded result.
func (r *VoteRepository) UpsertVotes(ctx context.Context, votes ...*core.VotingRecord) ([]*core.VotingRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, vote := range votes {
			if err := core.ValidateVotingRecord(vote); err != nil {
				return err
			}

			key := makeVoteKey(vote.BillId, vote.SpeakerId)
			old, err := readVote(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old == nil {
				vote.InsertedAt = now
			} else {
				vote.InsertedAt = old.InsertedAt
			}
			vote.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalVotingRecord(vote)); err != nil {
				return err
			}
			indexKey := makeVoteSpeakerKey(vote.SpeakerId, vote.BillId)
			if err := tx.Set(indexKey, key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return votes, err
}

// GetVote retrieves the voting record for a (bill, speaker) pair.
func (r *VoteRepository) GetVote(ctx context.Context, billID, speakerID string) (*core.VotingRecord, error) {
	var result *core.VotingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readVote(tx, makeVoteKey(billID, speakerID))
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

// GetVotesByBill retrieves all voting records for a bill.
func (r *VoteRepository) GetVotesByBill(ctx context.Context, billID string) ([]*core.VotingRecord, error) {
	var results []*core.VotingRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialVoteKey(billID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var vote *core.VotingRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				vote, err = storage.UnmarshalVotingRecord(val)
				return err
			})
			if err != nil {
				return err
			}
			if vote != nil {
				results = append(results, vote)
			}
		}
		return nil
	}, false)
	return results, err
}

// readVote reads a voting record from the transaction.
// Returns nil, nil when the key does not exist.
func readVote(tx *badger.Txn, key []byte) (*core.VotingRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var vote *core.VotingRecord
	err = item.Value(func(val []byte) error {
		var err error
		vote, err = storage.UnmarshalVotingRecord(val)
		return err
	})
	return vote, err
}
