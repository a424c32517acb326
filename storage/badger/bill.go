package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// BillRepository implements storage.BillRepository for BadgerDB.
type BillRepository struct {
	backend *Backend
}

var _ storage.BillRepository = (*BillRepository)(nil)

// NewBillRepository creates a new BillRepository.
func NewBillRepository(backend *Backend) (*BillRepository, error) {
	return &BillRepository{
		backend: backend,
	}, nil
}

// Close releases resources. BillRepository has no resources to release.
func (r *BillRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *BillRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// UpsertBills inserts or updates bills keyed by their identifier.
func (r *BillRepository) UpsertBills(ctx context.Context, bills ...*core.Bill) ([]*core.Bill, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, bill := range bills {
			if err := core.ValidateBill(bill); err != nil {
				return err
			}

			key := makeBillKey(bill.Id)
			old, err := readBill(tx, key)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if old == nil {
				bill.InsertedAt = now
			} else {
				bill.InsertedAt = old.InsertedAt
				// A synthetic placeholder is upgraded in place when the
				// official listing later supplies real metadata. The
				// reverse never downgrades an official record.
				if old.Synthetic && !bill.Synthetic {
					// keep incoming official fields
				} else if !old.Synthetic && bill.Synthetic {
					merged := *old
					merged.UpdatedAt = now
					*bill = merged
					if err := tx.Set(key, storage.MarshalBill(bill)); err != nil {
						return err
					}
					continue
				}
			}
			bill.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalBill(bill)); err != nil {
				return err
			}
			indexKey := makeBillSessionKey(bill.SessionId, bill.Id)
			if err := tx.Set(indexKey, []byte(bill.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return bills, err
}

// GetBill retrieves a bill by its identifier.
func (r *BillRepository) GetBill(ctx context.Context, id string) (*core.Bill, error) {
	var result *core.Bill
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readBill(tx, makeBillKey(id))
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

// GetBillsBySession retrieves all bills belonging to a session.
func (r *BillRepository) GetBillsBySession(ctx context.Context, sessionID string) ([]*core.Bill, error) {
	var results []*core.Bill
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialBillSessionKey(sessionID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var billIDs []string
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				billIDs = append(billIDs, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, billID := range billIDs {
			bill, err := readBill(tx, makeBillKey(billID))
			if err != nil {
				return err
			}
			if bill != nil {
				results = append(results, bill)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteBills removes bills, their voting records and the session->bill
// index entries.
func (r *BillRepository) DeleteBills(ctx context.Context, ids ...string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeBillKey(id)
			bill, err := readBill(tx, key)
			if err != nil {
				return err
			}
			if bill == nil {
				return storage.ErrNotFound
			}

			if err := deleteBillVotes(tx, id); err != nil {
				return err
			}
			if err := tx.Delete(makeBillSessionKey(bill.SessionId, id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// deleteBillVotes removes a bill's voting records and their speaker index
// entries.
func deleteBillVotes(tx *badger.Txn, billID string) error {
	prefix := makePartialVoteKey(billID)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	var voteKeys [][]byte
	var speakerIDs []string

	iter := tx.NewIterator(opts)
	for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
		item := iter.Item()
		voteKeys = append(voteKeys, item.KeyCopy(nil))
		err := item.Value(func(val []byte) error {
			vote, err := storage.UnmarshalVotingRecord(val)
			if err != nil {
				return err
			}
			speakerIDs = append(speakerIDs, vote.SpeakerId)
			return nil
		})
		if err != nil {
			iter.Close()
			return err
		}
	}
	iter.Close()

	for i, key := range voteKeys {
		if err := tx.Delete(makeVoteSpeakerKey(speakerIDs[i], billID)); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// readBill reads a bill from the transaction.
// Returns nil, nil when the key does not exist.
func readBill(tx *badger.Txn, key []byte) (*core.Bill, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var bill *core.Bill
	err = item.Value(func(val []byte) error {
		var err error
		bill, err = storage.UnmarshalBill(val)
		return err
	})
	return bill, err
}
