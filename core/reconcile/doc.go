// Package reconcile provides a generic engine for reconciling an external
// snapshot against a persisted set by natural key.
//
// # Architecture
//
// 1. Plan: BuildPlan indexes the stored items by key, walks the snapshot in
// input order and plans a create for every unknown key and an update for every
// known one. Stored items whose key the snapshot does not name are planned for
// delete afterwards, from the stored set captured at the start of the run.
//
// 2. Adapter: model-specific key extraction. Adapters that also implement
// Mutator (and optionally Flusher) can apply a plan.
//
// 3. Apply: ApplyPlan executes the actions in plan order and calls Flush once.
// Writes are expected to be staged by the mutator so a failure before Flush
// leaves no durable state.
//
// # Summary
//
// Total counts created + updated items, i.e. the snapshot items that were
// processed. Deletes are counted separately. Updates are unconditional: a
// matched item is rewritten even when nothing changed.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Adapter: adapter, Logger: logger}
//	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, snapshot, stored, reconcile.ReconcileOptions{})
package reconcile
