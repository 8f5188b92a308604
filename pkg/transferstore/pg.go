package transferstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/chainsafe/transfer-indexer/pkg/transfer"
)

type pgStore struct {
	db *bun.DB
}

// NewStore creates a new postgres implementation of the transfer store
func NewStore(db *bun.DB) Store {
	return &pgStore{db: db}
}

// Insert relies on the table's unique constraint for deduplication. There is no
// existence check first, so concurrent inserts of the same key yield one row.
func (s *pgStore) Insert(ctx context.Context, rec *transfer.Record) (InsertOutcome, error) {
	dao := toTransferEventDao(rec)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		if Classify(err) == KindDuplicateKey {
			return Skipped, nil
		}
		return 0, wrap("insert transfer", err)
	}

	rec.ID = dao.ID
	rec.CreatedAt = dao.CreatedAt
	return Inserted, nil
}

func (s *pgStore) ListByAddress(ctx context.Context, address string, page, limit int) (*Page, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("invalid page %d or limit %d", page, limit)
	}
	address = transfer.NormalizeHex(address)

	byAddress := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("from_address = ?", address).WhereOr("to_address = ?", address)
	}

	total, err := s.db.NewSelect().
		Model((*TransferEventDao)(nil)).
		WhereGroup(" AND ", byAddress).
		Count(ctx)
	if err != nil {
		return nil, wrap("count transfers", err)
	}

	offset, ok := pageOffset(total, page, limit)
	if !ok {
		return &Page{Transfers: []*transfer.Record{}, Total: total}, nil
	}

	var daos []TransferEventDao
	err = s.db.NewSelect().
		Model(&daos).
		WhereGroup(" AND ", byAddress).
		OrderExpr("block_number DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)
	if err != nil {
		return nil, wrap("list transfers", err)
	}

	transfers := make([]*transfer.Record, len(daos))
	for i := range daos {
		transfers[i] = toRecord(&daos[i])
	}

	return &Page{Transfers: transfers, Total: total}, nil
}

// pageOffset returns the row offset of page, or false when the page starts past
// the last row. The bound is checked before multiplying so huge pages cannot wrap.
func pageOffset(total, page, limit int) (int, bool) {
	if page-1 >= transfer.TotalPages(total, limit) {
		return 0, false
	}
	return (page - 1) * limit, true
}
