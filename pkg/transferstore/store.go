package transferstore

import (
	"context"

	"github.com/chainsafe/transfer-indexer/pkg/transfer"
)

// InsertOutcome reports whether an insert created a row.
type InsertOutcome int

const (
	// Inserted means a new row was created.
	Inserted InsertOutcome = iota + 1
	// Skipped means a row with the same dedup key already existed.
	Skipped
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Page is one page of transfers together with the total number of matching rows.
type Page struct {
	Transfers []*transfer.Record
	Total     int
}

// Store defines transfer persistence
type Store interface {
	// Insert stores the record unless one with the same transaction hash, sender and
	// recipient exists, in which case it returns Skipped and no error.
	Insert(ctx context.Context, rec *transfer.Record) (InsertOutcome, error)
	// ListByAddress returns transfers sent or received by address, newest block first.
	ListByAddress(ctx context.Context, address string, page, limit int) (*Page, error)
}
