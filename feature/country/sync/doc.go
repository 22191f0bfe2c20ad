// Package sync keeps the persisted countries a mirror of the REST Countries
// snapshot.
//
// A run fetches one snapshot (HTTPFetcher, or ArchiveFetcher for replays),
// loads every persisted country, and reconciles both by common name through
// core/reconcile: unknown names are created, known names are overwritten, and
// names the snapshot no longer lists are deleted. Currencies are resolved by
// code through CurrencyResolver and are never deleted.
//
// All writes of a run are staged on a store.Store and committed by a single
// Flush. A failing fetch aborts before the store is read.
//
//	syncer := sync.NewSyncer(sync.NewHTTPFetcher(cfg.Sync), sync.GormStores(db), sync.WithLogger(logger))
//	result, err := syncer.RunSync(ctx, sync.RunOptions{})
package sync
