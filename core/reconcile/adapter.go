package reconcile

import "context"

// Adapter defines the model-specific part of a reconciliation: how to read the
// natural key from each side.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "country").
	Name() string

	// ExtractSourceKey returns the natural key of a snapshot item.
	// A non-nil error rejects the item; it is reported as a warning and the run continues.
	ExtractSourceKey(item SourceItem) (string, error)

	// ExtractStoreKey returns the natural key of a persisted item.
	ExtractStoreKey(item StoreItem) string
}

// Mutator is implemented by adapters that can apply a plan.
// Implementations are expected to stage writes and commit them in Flush.
type Mutator interface {
	// Create persists a new entity from the snapshot item.
	Create(ctx context.Context, key string, src SourceItem) error

	// Update overwrites every mutable attribute of stored from src.
	Update(ctx context.Context, key string, stored StoreItem, src SourceItem) error

	// Delete removes the stored entity.
	Delete(ctx context.Context, key string, stored StoreItem) error
}

// Flusher is an optional extension of Mutator. Flush is called once after every
// action has been applied and must commit all of them atomically.
type Flusher interface {
	Flush(ctx context.Context) error
}
