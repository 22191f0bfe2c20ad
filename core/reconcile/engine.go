package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ApplyPlan executes the actions of a plan in order through the adapter's Mutator
// and, when the adapter is also a Flusher, commits them with a single Flush.
// It returns the number of actions executed. Nothing is executed in dry-run mode.
//
// ApplyPlan never rolls back by itself: a failing action aborts before Flush, so
// staged writes are simply never committed.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (int, error) {
	log := spec.logger()

	if opts.DryRun {
		for _, action := range plan.Actions {
			log.Info("Planned", zap.String("action", string(action.Type)), zap.String("name", action.Key))
		}
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	executed := 0
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return executed, err
		}

		var err error
		switch action.Type {
		case ActionCreate:
			err = mutator.Create(ctx, action.Key, action.Source)
			if err == nil {
				log.Info("Created", zap.String("name", action.Key))
			}
		case ActionUpdate:
			err = mutator.Update(ctx, action.Key, action.Stored, action.Source)
			if err == nil {
				log.Info("Updated", zap.String("name", action.Key))
			}
		case ActionDelete:
			err = mutator.Delete(ctx, action.Key, action.Stored)
			if err == nil {
				log.Info("Deleted", zap.String("name", action.Key), zap.String("reason", action.Reason))
			}
		default:
			err = fmt.Errorf("unknown action type %q", action.Type)
		}
		if err != nil {
			return executed, fmt.Errorf("failed to %s %s: %w", action.Type, action.Key, err)
		}
		executed++
	}

	if flusher, ok := spec.Adapter.(Flusher); ok {
		if err := flusher.Flush(ctx); err != nil {
			return executed, err
		}
	}

	return executed, nil
}

// ReconcileAndApply is a convenience wrapper that plans and applies in one call.
func ReconcileAndApply(ctx context.Context, spec *Spec, source []SourceItem, stored []StoreItem, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan := BuildPlan(spec, source, stored)
	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}
