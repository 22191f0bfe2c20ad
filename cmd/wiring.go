package cmd

import (
	"context"
	"fmt"
	"time"

	"country-registry/core/config"
	"country-registry/core/metrics"
	"country-registry/core/storage"
	countrysync "country-registry/feature/country/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newSyncer wires the syncer from configuration. fromArchive, when set,
// replays an archived snapshot instead of calling the API.
func newSyncer(cfg *config.Config, db *gorm.DB, logg *zap.Logger, m *metrics.SyncMetrics, fromArchive string) (*countrysync.Syncer, error) {
	opts := []countrysync.Option{
		countrysync.WithLogger(logg),
		countrysync.WithMetrics(m),
	}

	var fetcher countrysync.Fetcher = countrysync.NewHTTPFetcher(cfg.Sync)

	if cfg.Sync.ArchiveEnabled || fromArchive != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}

		if fromArchive != "" {
			fetcher = countrysync.NewArchiveFetcher(client, cfg.Storage.Bucket, cfg.Sync.ArchivePrefix, fromArchive)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
				return nil, fmt.Errorf("snapshot archive unavailable: %w", err)
			}
			opts = append(opts, countrysync.WithArchiver(countrysync.NewArchiver(client, cfg.Storage.Bucket, cfg.Sync.ArchivePrefix)))
		}
	}

	return countrysync.NewSyncer(fetcher, countrysync.GormStores(db), opts...), nil
}
