package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/truevoice/pkg/domain/interfaces"
	"github.com/secmon-lab/truevoice/pkg/utils/errutil"
	"github.com/secmon-lab/truevoice/pkg/utils/logging"
)

// ChallengeSweeper periodically purges expired challenge phrases from the
// repository so abandoned challenges cannot pile up.
//
// Architecture assumptions:
// - Single server instance (no distributed locking); running multiple
//   sweepers is harmless but redundant.
type ChallengeSweeper struct {
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewChallengeSweeper creates a sweeper that runs at the given interval
func NewChallengeSweeper(repo interfaces.Repository, interval time.Duration) *ChallengeSweeper {
	return &ChallengeSweeper{
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop without blocking server startup
func (w *ChallengeSweeper) Start(ctx context.Context) error {
	logging.Default().Info("challenge sweeper starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the sweeper to stop and waits for completion
func (w *ChallengeSweeper) Stop() {
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("challenge sweeper stopped")
}

func (w *ChallengeSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-w.stopCh:
			return
		case <-ctx.Done():
			logging.Default().Info("challenge sweeper context cancelled")
			return
		}
	}
}

func (w *ChallengeSweeper) sweep(ctx context.Context) {
	deleted, err := w.repo.Challenge().DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		// Log and continue; the next tick retries
		errutil.Handle(ctx, err, "challenge sweep failed")
		return
	}
	if deleted > 0 {
		logging.Default().Info("purged expired challenges", "count", deleted)
	}
}
