package reconcile

import "go.uber.org/zap"

// SourceItem is one record of the external snapshot.
// Adapters define the concrete type.
type SourceItem any

// StoreItem is one persisted record.
// Adapters define the concrete type.
type StoreItem any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCreate persists a snapshot item whose key has no stored counterpart.
	ActionCreate ActionType = "create"
	// ActionUpdate overwrites a stored item from the snapshot item with the same key.
	ActionUpdate ActionType = "update"
	// ActionDelete removes a stored item whose key is absent from the snapshot.
	ActionDelete ActionType = "delete"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the natural key of the entity.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// Source is the snapshot item. Set for create and update.
	Source SourceItem `json:"-"`

	// Stored is the persisted item. Set for update and delete.
	Stored StoreItem `json:"-"`
}

// Warning describes a snapshot or stored item the engine could not treat normally.
type Warning struct {
	// Index is the position of the item in the snapshot, or -1 for a stored item.
	Index int `json:"index"`

	// Key is the natural key, empty when the key itself was missing.
	Key string `json:"key,omitempty"`

	// Reason is a human readable description.
	Reason string `json:"reason"`
}

// ReconcilePlan contains the planned actions in execution order:
// creates and updates in snapshot order, then deletes in stored order.
type ReconcilePlan struct {
	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Warnings lists rejected or skipped items.
	Warnings []Warning `json:"warnings"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// SourceItems is the number of snapshot items received.
	SourceItems int `json:"source_items"`

	// StoredItems is the number of persisted items at the start of the run.
	StoredItems int `json:"stored_items"`

	// Created counts planned create actions.
	Created int `json:"created"`

	// Updated counts planned update actions.
	Updated int `json:"updated"`

	// Deleted counts planned delete actions.
	Deleted int `json:"deleted"`

	// Total is Created + Updated. Deletes are reported separately.
	Total int `json:"total"`

	// Skipped counts snapshot items rejected or ignored with a warning.
	Skipped int `json:"skipped"`
}

// ReconcileOptions controls reconcile behavior.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides model-specific key extraction and, through Mutator, writes.
	Adapter Adapter

	// Logger receives one line per applied action. Nil disables logging.
	Logger *zap.Logger
}

func (s *Spec) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
