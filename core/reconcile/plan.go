package reconcile

import "fmt"

// BuildPlan diffs a snapshot against the persisted set by natural key.
//
// Snapshot items are walked in input order: a key already stored becomes an
// update, an unknown key becomes a create. Deletes are derived afterwards from
// the stored slice as it was passed in, for every key the snapshot did not name.
//
// Duplicate keys never collapse silently. A repeated snapshot key keeps its
// first occurrence and the rest are skipped with a warning. A repeated stored
// key matches its first occurrence and the extra items are planned for delete,
// so the stored key set ends up equal to the snapshot key set.
func BuildPlan(spec *Spec, source []SourceItem, stored []StoreItem) *ReconcilePlan {
	adapter := spec.Adapter

	plan := &ReconcilePlan{
		Actions:  []Action{},
		Warnings: []Warning{},
	}
	plan.Summary.SourceItems = len(source)
	plan.Summary.StoredItems = len(stored)

	storedIndex := make(map[string]StoreItem, len(stored))
	duplicateStored := make(map[int]struct{})
	for i, item := range stored {
		key := adapter.ExtractStoreKey(item)
		if _, exists := storedIndex[key]; exists {
			duplicateStored[i] = struct{}{}
			continue
		}
		storedIndex[key] = item
	}

	sourceKeys := make(map[string]struct{}, len(source))
	for i, item := range source {
		key, err := adapter.ExtractSourceKey(item)
		if err != nil {
			plan.Warnings = append(plan.Warnings, Warning{Index: i, Reason: err.Error()})
			plan.Summary.Skipped++
			continue
		}

		if _, seen := sourceKeys[key]; seen {
			plan.Warnings = append(plan.Warnings, Warning{
				Index:  i,
				Key:    key,
				Reason: "duplicate key in snapshot, first occurrence kept",
			})
			plan.Summary.Skipped++
			continue
		}
		sourceKeys[key] = struct{}{}

		if existing, ok := storedIndex[key]; ok {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionUpdate,
				Key:    key,
				Reason: "present in snapshot and store",
				Source: item,
				Stored: existing,
			})
			plan.Summary.Updated++
			continue
		}

		plan.Actions = append(plan.Actions, Action{
			Type:   ActionCreate,
			Key:    key,
			Reason: "missing in store",
			Source: item,
		})
		plan.Summary.Created++
	}

	for i, item := range stored {
		key := adapter.ExtractStoreKey(item)

		if _, dup := duplicateStored[i]; dup {
			reason := fmt.Sprintf("duplicate stored key %q", key)
			plan.Warnings = append(plan.Warnings, Warning{Index: -1, Key: key, Reason: reason})
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionDelete,
				Key:    key,
				Reason: reason,
				Stored: item,
			})
			plan.Summary.Deleted++
			continue
		}

		if _, ok := sourceKeys[key]; !ok {
			plan.Actions = append(plan.Actions, Action{
				Type:   ActionDelete,
				Key:    key,
				Reason: "missing in snapshot",
				Stored: item,
			})
			plan.Summary.Deleted++
		}
	}

	plan.Summary.Total = plan.Summary.Created + plan.Summary.Updated

	return plan
}
