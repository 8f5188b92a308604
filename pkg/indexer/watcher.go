package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/pkg/ethereum"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

// Watcher follows the chain head and pushes new blocks through Indexer.ScanRange.
// Its cursor lives in memory only; a restart begins from the block passed to Run.
type Watcher struct {
	indexer  *Indexer
	interval time.Duration
	logger   *zap.Logger
}

// NewWatcher creates a new Watcher polling at interval
func NewWatcher(ix *Indexer, interval time.Duration, logger *zap.Logger) *Watcher {
	return &Watcher{
		indexer:  ix,
		interval: interval,
		logger:   logger.Named("watcher"),
	}
}

// Run scans from block next onward until ctx is canceled. Transient failures are
// retried on the next tick from the same cursor; anything else stops the watcher.
func (w *Watcher) Run(ctx context.Context, next uint64) error {
	w.logger.Info("Starting head watcher",
		zap.Uint64("from_block", next),
		zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		advanced, err := w.poll(ctx, next)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Head watcher stopped", zap.Uint64("next_block", next))
				return nil
			}
			if !isRetryable(err) {
				return fmt.Errorf("watcher stopped at block %d: %w", next, err)
			}
			w.logger.Warn("Poll failed, retrying on next tick",
				zap.Uint64("next_block", next),
				zap.Error(err))
		} else {
			next = advanced
		}

		select {
		case <-ctx.Done():
			w.logger.Info("Head watcher stopped", zap.Uint64("next_block", next))
			return nil
		case <-ticker.C:
		}
	}
}

// poll scans [next, head] and returns the new cursor
func (w *Watcher) poll(ctx context.Context, next uint64) (uint64, error) {
	head, err := w.indexer.fetcher.LatestBlockNumber(ctx)
	if err != nil {
		return next, err
	}
	if head < next {
		return next, nil
	}

	if _, err := w.indexer.ScanRange(ctx, next, head); err != nil {
		return next, err
	}
	return head + 1, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, ethereum.ErrTransientFetch) {
		return true
	}
	return transferstore.IsKind(err, transferstore.KindConnection) ||
		transferstore.IsKind(err, transferstore.KindCanceled)
}
