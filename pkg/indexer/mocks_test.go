package indexer

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainsafe/transfer-indexer/pkg/scanner"
	"github.com/chainsafe/transfer-indexer/pkg/transfer"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

// MockFetcher is a mock implementation of LogFetcher
type MockFetcher struct {
	LatestBlockNumberFunc func(ctx context.Context) (uint64, error)
	FetchTransferLogsFunc func(ctx context.Context, chunk scanner.Chunk) ([]types.Log, error)

	mu     sync.Mutex
	chunks []scanner.Chunk
}

func (m *MockFetcher) LatestBlockNumber(ctx context.Context) (uint64, error) {
	if m.LatestBlockNumberFunc != nil {
		return m.LatestBlockNumberFunc(ctx)
	}
	return 0, nil
}

func (m *MockFetcher) FetchTransferLogs(ctx context.Context, chunk scanner.Chunk) ([]types.Log, error) {
	m.mu.Lock()
	m.chunks = append(m.chunks, chunk)
	m.mu.Unlock()

	if m.FetchTransferLogsFunc != nil {
		return m.FetchTransferLogsFunc(ctx, chunk)
	}
	return nil, nil
}

func (m *MockFetcher) Chunks() []scanner.Chunk {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]scanner.Chunk(nil), m.chunks...)
}

// MemoryStore is an in-memory TransferStore keyed like the database dedup constraint
type MemoryStore struct {
	InsertFunc func(ctx context.Context, rec *transfer.Record) (transferstore.InsertOutcome, error)

	mu      sync.Mutex
	keys    map[string]struct{}
	records []*transfer.Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]struct{})}
}

func (m *MemoryStore) Insert(ctx context.Context, rec *transfer.Record) (transferstore.InsertOutcome, error) {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, rec)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := rec.TransactionHash + "|" + rec.FromAddress + "|" + rec.ToAddress
	if _, ok := m.keys[key]; ok {
		return transferstore.Skipped, nil
	}
	m.keys[key] = struct{}{}
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return transferstore.Inserted, nil
}

func (m *MemoryStore) Records() []*transfer.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*transfer.Record(nil), m.records...)
}
