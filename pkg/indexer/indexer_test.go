package indexer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/pkg/config"
	"github.com/chainsafe/transfer-indexer/pkg/ethereum"
	"github.com/chainsafe/transfer-indexer/pkg/scanner"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

var (
	alice = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob   = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func testIndexerConfig() config.IndexerConfig {
	return config.IndexerConfig{
		LookbackBlocks:  2000,
		ChunkSize:       400,
		InsertTimeout:   time.Second,
		PollingInterval: 10 * time.Millisecond,
	}
}

func transferLog(block uint64, index uint, tx int) types.Log {
	return types.Log{
		Topics: []common.Hash{
			transfer.TransferTopic,
			common.BytesToHash(alice.Bytes()),
			common.BytesToHash(bob.Bytes()),
		},
		Data:        common.LeftPadBytes(big.NewInt(int64(tx)).Bytes(), 32),
		BlockNumber: block,
		TxHash:      common.BigToHash(big.NewInt(int64(tx))),
		Index:       index,
	}
}

// logsPerChunk returns one transfer per block at the chunk boundaries.
func logsPerChunk(_ context.Context, chunk scanner.Chunk) ([]types.Log, error) {
	return []types.Log{
		transferLog(chunk.Hi, 0, int(chunk.Hi)),
		transferLog(chunk.Lo, 0, int(chunk.Lo)),
	}, nil
}

func TestIndexer_RunOnce_ScansLookbackWindow(t *testing.T) {
	fetcher := &MockFetcher{
		LatestBlockNumberFunc: func(context.Context) (uint64, error) { return 1_002_000, nil },
		FetchTransferLogsFunc: logsPerChunk,
	}
	store := NewMemoryStore()

	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop())
	stats, err := ix.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() failed: %v", err)
	}

	chunks := fetcher.Chunks()
	if len(chunks) != 6 {
		t.Fatalf("expected 6 chunks, got %d: %v", len(chunks), chunks)
	}
	if chunks[0].Lo != 1_000_000 || chunks[len(chunks)-1].Hi != 1_002_000 {
		t.Fatalf("unexpected window %v..%v", chunks[0], chunks[len(chunks)-1])
	}
	if stats.From != 1_000_000 || stats.To != 1_002_000 {
		t.Fatalf("unexpected stats range %d..%d", stats.From, stats.To)
	}
	if stats.RunID == "" {
		t.Fatal("expected run id")
	}
	// last chunk is a single block so both logs share a dedup key
	if stats.Inserted != 11 || stats.Skipped != 1 {
		t.Fatalf("expected 11 inserted / 1 skipped, got %+v", stats)
	}
}

func TestIndexer_ScanRange_WritesInBlockOrder(t *testing.T) {
	fetcher := &MockFetcher{FetchTransferLogsFunc: logsPerChunk}
	store := NewMemoryStore()

	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop())
	if _, err := ix.ScanRange(context.Background(), 0, 1999); err != nil {
		t.Fatalf("ScanRange() failed: %v", err)
	}

	records := store.Records()
	for i := 1; i < len(records); i++ {
		if records[i].BlockNumber < records[i-1].BlockNumber {
			t.Fatalf("record %d at block %d written after block %d", i, records[i].BlockNumber, records[i-1].BlockNumber)
		}
	}
}

func TestIndexer_ScanRange_OverlappingRunsCreateNoDuplicates(t *testing.T) {
	fetcher := &MockFetcher{FetchTransferLogsFunc: logsPerChunk}
	store := NewMemoryStore()
	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop())

	first, err := ix.ScanRange(context.Background(), 0, 799)
	if err != nil {
		t.Fatalf("first ScanRange() failed: %v", err)
	}
	second, err := ix.ScanRange(context.Background(), 0, 799)
	if err != nil {
		t.Fatalf("second ScanRange() failed: %v", err)
	}

	if first.Inserted != 4 {
		t.Fatalf("expected 4 inserted on first run, got %d", first.Inserted)
	}
	if second.Inserted != 0 || second.Skipped != 4 {
		t.Fatalf("expected rerun to skip everything, got %+v", second)
	}
	if len(store.Records()) != 4 {
		t.Fatalf("expected 4 stored records, got %d", len(store.Records()))
	}
}

func TestIndexer_ScanRange_SkipsMalformedLogs(t *testing.T) {
	bad := transferLog(5, 1, 99)
	bad.Data = bad.Data[:16]

	fetcher := &MockFetcher{
		FetchTransferLogsFunc: func(context.Context, scanner.Chunk) ([]types.Log, error) {
			return []types.Log{transferLog(5, 0, 1), bad, transferLog(6, 0, 2)}, nil
		},
	}
	store := NewMemoryStore()

	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop())
	stats, err := ix.ScanRange(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("ScanRange() failed: %v", err)
	}
	if stats.Malformed != 1 || stats.Inserted != 2 || stats.Logs != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestIndexer_ScanRange_ABIDecoder(t *testing.T) {
	fetcher := &MockFetcher{FetchTransferLogsFunc: logsPerChunk}
	store := NewMemoryStore()

	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop(), WithDecoder(transfer.DecodeABI))
	stats, err := ix.ScanRange(context.Background(), 0, 399)
	if err != nil {
		t.Fatalf("ScanRange() failed: %v", err)
	}
	if stats.Inserted != 2 {
		t.Fatalf("expected 2 inserted, got %+v", stats)
	}
	rec := store.Records()[0]
	if rec.FromAddress != "0x1111111111111111111111111111111111111111" {
		t.Fatalf("unexpected from address %s", rec.FromAddress)
	}
}

func TestIndexer_ScanRange_FetchErrorAbortsRun(t *testing.T) {
	fetchErr := &ethereum.FetchError{Kind: ethereum.ErrFatalFetch, Method: "eth_getLogs", Attempts: 1, Err: errors.New("invalid params")}
	fetcher := &MockFetcher{
		FetchTransferLogsFunc: func(_ context.Context, chunk scanner.Chunk) ([]types.Log, error) {
			if chunk.Lo == 400 {
				return nil, fetchErr
			}
			return logsPerChunk(context.Background(), chunk)
		},
	}
	store := NewMemoryStore()

	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop())
	stats, err := ix.ScanRange(context.Background(), 0, 1199)
	if !errors.Is(err, ethereum.ErrFatalFetch) {
		t.Fatalf("expected ErrFatalFetch, got %v", err)
	}
	if stats.Chunks != 1 || stats.Inserted != 2 {
		t.Fatalf("expected only the first chunk to be stored, got %+v", stats)
	}
	if len(fetcher.Chunks()) != 2 {
		t.Fatalf("expected scanning to stop after the failing chunk, fetched %v", fetcher.Chunks())
	}
}

func TestIndexer_ScanRange_StoreErrorAbortsRun(t *testing.T) {
	storeErr := &transferstore.Error{Kind: transferstore.KindConnection, Op: "insert transfer", Err: errors.New("broken pipe")}
	fetcher := &MockFetcher{FetchTransferLogsFunc: logsPerChunk}
	store := &MemoryStore{
		InsertFunc: func(context.Context, *transfer.Record) (transferstore.InsertOutcome, error) {
			return 0, storeErr
		},
	}

	ix := New(fetcher, store, testIndexerConfig(), zap.NewNop())
	_, err := ix.ScanRange(context.Background(), 0, 799)
	if !transferstore.IsKind(err, transferstore.KindConnection) {
		t.Fatalf("expected store connection error, got %v", err)
	}
	if len(fetcher.Chunks()) != 1 {
		t.Fatalf("expected scanning to stop at the first chunk, fetched %v", fetcher.Chunks())
	}
}

func TestIndexer_ScanRange_InsertDeadline(t *testing.T) {
	cfg := testIndexerConfig()
	cfg.InsertTimeout = 50 * time.Millisecond

	var deadlines []time.Duration
	fetcher := &MockFetcher{FetchTransferLogsFunc: logsPerChunk}
	store := &MemoryStore{
		InsertFunc: func(ctx context.Context, _ *transfer.Record) (transferstore.InsertOutcome, error) {
			deadline, ok := ctx.Deadline()
			if !ok {
				return 0, fmt.Errorf("insert without deadline")
			}
			deadlines = append(deadlines, time.Until(deadline))
			return transferstore.Inserted, nil
		},
	}

	ix := New(fetcher, store, cfg, zap.NewNop())
	if _, err := ix.ScanRange(context.Background(), 0, 10); err != nil {
		t.Fatalf("ScanRange() failed: %v", err)
	}
	for _, d := range deadlines {
		if d > cfg.InsertTimeout {
			t.Fatalf("insert deadline %s exceeds configured timeout", d)
		}
	}
}

func TestIndexer_ScanRange_CancellationStopsBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &MockFetcher{
		FetchTransferLogsFunc: func(ctx context.Context, chunk scanner.Chunk) ([]types.Log, error) {
			if chunk.Lo == 400 {
				cancel()
			}
			return nil, nil
		},
	}

	ix := New(fetcher, NewMemoryStore(), testIndexerConfig(), zap.NewNop())
	stats, err := ix.ScanRange(ctx, 0, 1999)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats.Chunks != 2 {
		t.Fatalf("expected 2 completed chunks, got %d", stats.Chunks)
	}
	if len(fetcher.Chunks()) != 2 {
		t.Fatalf("expected no fetch after cancellation, got %v", fetcher.Chunks())
	}
}

func TestIndexer_ScanRange_InvalidRange(t *testing.T) {
	ix := New(&MockFetcher{}, NewMemoryStore(), testIndexerConfig(), zap.NewNop())
	if _, err := ix.ScanRange(context.Background(), 10, 5); !errors.Is(err, scanner.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
