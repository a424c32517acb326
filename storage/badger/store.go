package badger

import (
	"errors"
)

// Store bundles the per-record repositories over a shared backend.
type Store struct {
	backend *Backend

	Sessions   *SessionRepository
	Bills      *BillRepository
	Speakers   *SpeakerRepository
	Statements *StatementRepository
	Votes      *VoteRepository
	Categories *CategoryRepository
}

// OpenStore opens a BadgerDB database and wires up all repositories.
func OpenStore(filePath string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(filePath, inMemory)
	if err != nil {
		return nil, err
	}

	store := &Store{backend: backend}
	if store.Sessions, err = NewSessionRepository(backend); err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	if store.Bills, err = NewBillRepository(backend); err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	if store.Speakers, err = NewSpeakerRepository(backend); err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	if store.Statements, err = NewStatementRepository(backend); err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	if store.Votes, err = NewVoteRepository(backend); err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	if store.Categories, err = NewCategoryRepository(backend); err != nil {
		return nil, errors.Join(err, backend.Close())
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.backend.Close()
}
