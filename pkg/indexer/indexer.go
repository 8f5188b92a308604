// Package indexer drives Transfer ingestion: split a block range, fetch each chunk,
// decode the logs and store them.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/internal/metrics"
	"github.com/chainsafe/transfer-indexer/pkg/config"
	"github.com/chainsafe/transfer-indexer/pkg/scanner"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

// LogFetcher defines the chain access the indexer needs
type LogFetcher interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	FetchTransferLogs(ctx context.Context, chunk scanner.Chunk) ([]types.Log, error)
}

// TransferStore defines the persistence the indexer needs
type TransferStore interface {
	Insert(ctx context.Context, rec *transfer.Record) (transferstore.InsertOutcome, error)
}

// DecodeFunc turns a raw log into a Transfer
type DecodeFunc func(types.Log) (*transfer.Transfer, error)

// RunStats summarizes one scan
type RunStats struct {
	RunID     string
	From      uint64
	To        uint64
	Chunks    int
	Logs      int
	Inserted  int
	Skipped   int
	Malformed int
	Duration  time.Duration
}

// Option configures an Indexer
type Option func(*Indexer)

// WithDecoder replaces the default raw-topic decoder
func WithDecoder(decode DecodeFunc) Option {
	return func(ix *Indexer) {
		ix.decode = decode
	}
}

// Indexer scans block ranges sequentially and stores every Transfer it finds
type Indexer struct {
	fetcher LogFetcher
	store   TransferStore
	cfg     config.IndexerConfig
	decode  DecodeFunc
	logger  *zap.Logger
}

// New creates a new Indexer
func New(fetcher LogFetcher, store TransferStore, cfg config.IndexerConfig, logger *zap.Logger, opts ...Option) *Indexer {
	ix := &Indexer{
		fetcher: fetcher,
		store:   store,
		cfg:     cfg,
		decode:  transfer.Decode,
		logger:  logger.Named("indexer"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// RunOnce scans the configured lookback window ending at the current chain head.
// Every run rescans the whole window; already stored transfers are skipped.
func (ix *Indexer) RunOnce(ctx context.Context) (*RunStats, error) {
	head, err := ix.fetcher.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}

	start, end := scanner.LookbackRange(head, ix.cfg.LookbackBlocks)
	return ix.ScanRange(ctx, start, end)
}

// ScanRange ingests [from, to] chunk by chunk in block order. It stops at the first
// fetch or store failure and returns the stats gathered so far alongside the error.
// Cancellation is honored between chunks and between inserts.
func (ix *Indexer) ScanRange(ctx context.Context, from, to uint64) (*RunStats, error) {
	chunks, err := scanner.SplitRange(from, to, ix.cfg.ChunkSize)
	if err != nil {
		return nil, err
	}

	stats := &RunStats{RunID: uuid.NewString(), From: from, To: to}
	logger := ix.logger.With(zap.String("run_id", stats.RunID))
	start := time.Now()
	defer func() { stats.Duration = time.Since(start) }()

	logger.Info("Starting scan",
		zap.Uint64("from_block", from),
		zap.Uint64("to_block", to),
		zap.Int("chunks", len(chunks)))

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := ix.scanChunk(ctx, chunk, stats, logger); err != nil {
			logger.Error("Scan aborted",
				zap.Stringer("chunk", chunk),
				zap.Int("inserted", stats.Inserted),
				zap.Int("skipped", stats.Skipped),
				zap.Error(err))
			return stats, err
		}

		stats.Chunks++
		metrics.ChunksScanned.Inc()
		metrics.LastScannedBlock.Set(float64(chunk.Hi))
	}

	logger.Info("Scan completed",
		zap.Int("chunks", stats.Chunks),
		zap.Int("logs", stats.Logs),
		zap.Int("inserted", stats.Inserted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("malformed", stats.Malformed),
		zap.Duration("duration", time.Since(start)))

	return stats, nil
}

func (ix *Indexer) scanChunk(ctx context.Context, chunk scanner.Chunk, stats *RunStats, logger *zap.Logger) error {
	logs, err := ix.fetcher.FetchTransferLogs(ctx, chunk)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", chunk, err)
	}
	stats.Logs += len(logs)

	// keep writes in non-decreasing block order regardless of node response order
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	for _, log := range logs {
		if err := ctx.Err(); err != nil {
			return err
		}

		t, err := ix.decode(log)
		if err != nil {
			if !errors.Is(err, transfer.ErrMalformedLog) {
				return fmt.Errorf("decode log %s#%d: %w", log.TxHash.Hex(), log.Index, err)
			}
			stats.Malformed++
			metrics.MalformedLogs.Inc()
			logger.Warn("Skipping malformed log",
				zap.String("tx_hash", log.TxHash.Hex()),
				zap.Uint("log_index", log.Index),
				zap.Uint64("block_number", log.BlockNumber),
				zap.Error(err))
			continue
		}

		outcome, err := ix.insert(ctx, t.Record())
		if err != nil {
			metrics.TransfersStored.WithLabelValues("failed").Inc()
			return fmt.Errorf("store transfer %s: %w", log.TxHash.Hex(), err)
		}
		metrics.TransfersStored.WithLabelValues(outcome.String()).Inc()

		switch outcome {
		case transferstore.Inserted:
			stats.Inserted++
		case transferstore.Skipped:
			stats.Skipped++
		}
	}

	logger.Debug("Chunk scanned",
		zap.Stringer("chunk", chunk),
		zap.Int("logs", len(logs)))
	return nil
}

func (ix *Indexer) insert(ctx context.Context, rec *transfer.Record) (transferstore.InsertOutcome, error) {
	if ix.cfg.InsertTimeout <= 0 {
		return ix.store.Insert(ctx, rec)
	}
	insertCtx, cancel := context.WithTimeout(ctx, ix.cfg.InsertTimeout)
	defer cancel()
	return ix.store.Insert(insertCtx, rec)
}
