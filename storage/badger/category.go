package badger

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/hansard/core"
	"github.com/poiesic/hansard/storage"
)

// CategoryRepository implements storage.CategoryRepository for BadgerDB.
type CategoryRepository struct {
	backend *Backend

	// Serializes concurrent get-or-create attempts so two workers asking
	// for the same new tuple never race on the tuple index.
	createMu sync.Mutex
}

var _ storage.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(backend *Backend) (*CategoryRepository, error) {
	return &CategoryRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CategoryRepository has no resources to release.
func (r *CategoryRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CategoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// GetOrCreateCategory finds or creates a category by kind and name.
func (r *CategoryRepository) GetOrCreateCategory(ctx context.Context, kind, name string) (*core.Category, error) {
	existing, err := r.FindCategoryByKindAndName(ctx, kind, name)
	if err == nil {
		return existing, nil
	}
	if err != storage.ErrNotFound {
		return nil, err
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()

	var result *core.Category
	err = r.backend.WithTx(func(tx *badger.Txn) error {
		// Re-check under the lock: another goroutine may have created the
		// tuple while we waited.
		tupleKey := makeCategoryTupleKey(kind, name)
		found, err := readCategoryByTupleKey(tx, tupleKey)
		if err != nil {
			return err
		}
		if found != nil {
			result = found
			return nil
		}

		now := time.Now().UTC()
		category := &core.Category{
			Kind:       kind,
			Name:       name,
			InsertedAt: now,
			UpdatedAt:  now,
		}
		category.Id = core.IDFromContent(category.Tuple())
		if err := core.ValidateCategory(category); err != nil {
			return err
		}

		if err := tx.Set(makeCategoryKey(category.Id), storage.MarshalCategory(category)); err != nil {
			return err
		}
		if err := tx.Set(tupleKey, storage.MarshalID(category.Id)); err != nil {
			return err
		}
		result = category
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCategory retrieves a category by ID.
func (r *CategoryRepository) GetCategory(ctx context.Context, id core.ID) (*core.Category, error) {
	var result *core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCategory(tx, makeCategoryKey(id))
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

// FindCategoryByKindAndName finds a category by its tuple.
func (r *CategoryRepository) FindCategoryByKindAndName(ctx context.Context, kind, name string) (*core.Category, error) {
	var result *core.Category
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCategoryByTupleKey(tx, makeCategoryTupleKey(kind, name))
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

// readCategoryByTupleKey resolves the tuple index and reads the category.
// Returns nil, nil when the tuple does not exist.
func readCategoryByTupleKey(tx *badger.Txn, tupleKey []byte) (*core.Category, error) {
	item, err := tx.Get(tupleKey)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return readCategory(tx, makeCategoryKey(id))
}

// readCategory reads a category from the transaction.
// Returns nil, nil when the key does not exist.
func readCategory(tx *badger.Txn, key []byte) (*core.Category, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var category *core.Category
	err = item.Value(func(val []byte) error {
		var err error
		category, err = storage.UnmarshalCategory(val)
		return err
	})
	return category, err
}
