package cmd

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"country-registry/core/apperrors"
	"country-registry/feature/country/store"
	countrysync "country-registry/feature/country/sync"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingFetcher struct {
	calls atomic.Int32
}

func (f *countingFetcher) FetchSnapshot(ctx context.Context) (*countrysync.Snapshot, error) {
	f.calls.Add(1)
	return nil, errors.Join(apperrors.ErrFetch, errors.New("offline"))
}

func TestRunScheduler(t *testing.T) {
	fetcher := &countingFetcher{}
	syncer := countrysync.NewSyncer(fetcher, func() store.Store { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runScheduler(ctx, syncer, 10*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return fetcher.calls.Load() >= 2 }, time.Second, 5*time.Millisecond,
		"a failed run does not stop the scheduler")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
