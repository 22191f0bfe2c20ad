package sync

import (
	"context"
	"fmt"
	"time"

	"country-registry/core/logger"
	"country-registry/core/metrics"
	"country-registry/core/reconcile"
	"country-registry/feature/country/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// RunOptions controls a single sync run.
type RunOptions struct {
	// DryRun plans the run and reports its counts without writing anything.
	DryRun bool
}

// Result summarizes a sync run.
type Result struct {
	RunID    string              `json:"runId"`
	Source   string              `json:"source"`
	DryRun   bool                `json:"dryRun"`
	Created  int                 `json:"created"`
	Updated  int                 `json:"updated"`
	Deleted  int                 `json:"deleted"`
	Total    int                 `json:"total"`
	Warnings []reconcile.Warning `json:"warnings"`
}

// StoreFactory opens a fresh unit of work for one run.
type StoreFactory func() store.Store

// Syncer makes the persisted countries mirror the external snapshot.
type Syncer struct {
	fetcher  Fetcher
	stores   StoreFactory
	archiver *Archiver
	metrics  *metrics.SyncMetrics
	logger   *zap.Logger
	group    singleflight.Group
}

type Option func(s *Syncer)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Syncer) {
		s.logger = l
	}
}

// WithArchiver stores every fetched snapshot before it is reconciled.
func WithArchiver(a *Archiver) Option {
	return func(s *Syncer) {
		s.archiver = a
	}
}

// WithMetrics records run outcomes on m.
func WithMetrics(m *metrics.SyncMetrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

// NewSyncer creates a syncer reading snapshots from fetcher and writing through stores.
func NewSyncer(fetcher Fetcher, stores StoreFactory, opts ...Option) *Syncer {
	s := &Syncer{fetcher: fetcher, stores: stores, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunSync fetches one snapshot and reconciles the persisted countries with it.
//
// A fetch failure returns before the store is touched. Otherwise all writes of
// the run are committed together or not at all. Concurrent calls with the same
// options share a single run and receive the same result.
func (s *Syncer) RunSync(ctx context.Context, opts RunOptions) (*Result, error) {
	key := "sync"
	if opts.DryRun {
		key = "dry-run"
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.run(ctx, opts)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (s *Syncer) run(ctx context.Context, opts RunOptions) (*Result, error) {
	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)
	start := time.Now()

	fail := func(err error) (*Result, error) {
		s.metrics.ObserveRun(metrics.OutcomeFailure, time.Since(start), 0, 0, 0, 0)
		log.Error("Sync failed", zap.Error(err))
		return nil, err
	}

	snapshot, err := s.fetcher.FetchSnapshot(ctx)
	if err != nil {
		return fail(err)
	}
	log.Info("Starting sync",
		zap.Int("countries", len(snapshot.Countries)),
		zap.String("source", snapshot.Source),
		zap.Bool("dry_run", opts.DryRun),
	)

	if s.archiver != nil {
		if key, err := s.archiver.Archive(ctx, snapshot.Body); err != nil {
			log.Warn("Snapshot archive failed", zap.Error(err))
		} else {
			log.Info("Snapshot archived", zap.String("object", key))
		}
	}

	st := s.stores()
	existing, err := st.FindAll(ctx)
	if err != nil {
		return fail(err)
	}

	source := make([]reconcile.SourceItem, len(snapshot.Countries))
	for i, c := range snapshot.Countries {
		source[i] = c
	}
	stored := make([]reconcile.StoreItem, len(existing))
	for i, c := range existing {
		stored[i] = c
	}

	spec := &reconcile.Spec{Adapter: NewCountryAdapter(st), Logger: log}
	plan, _, err := reconcile.ReconcileAndApply(ctx, spec, source, stored, reconcile.ReconcileOptions{DryRun: opts.DryRun})
	for _, w := range plan.Warnings {
		log.Warn("Record skipped", zap.Int("index", w.Index), zap.String("name", w.Key), zap.String("reason", w.Reason))
	}
	if err != nil {
		return fail(fmt.Errorf("sync aborted, nothing committed: %w", err))
	}

	result := &Result{
		RunID:    runID,
		Source:   snapshot.Source,
		DryRun:   opts.DryRun,
		Created:  plan.Summary.Created,
		Updated:  plan.Summary.Updated,
		Deleted:  plan.Summary.Deleted,
		Total:    plan.Summary.Total,
		Warnings: plan.Warnings,
	}

	outcome := metrics.OutcomeSuccess
	if opts.DryRun {
		outcome = metrics.OutcomeDryRun
	}
	s.metrics.ObserveRun(outcome, time.Since(start), result.Created, result.Updated, result.Deleted, len(result.Warnings))

	log.Info("Sync completed",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
		zap.Int("total", result.Total),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

// GormStores returns a StoreFactory opening a GormStore per run.
func GormStores(db *gorm.DB) StoreFactory {
	return func() store.Store {
		return store.NewGormStore(db)
	}
}
