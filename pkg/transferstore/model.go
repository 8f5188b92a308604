package transferstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/transfer-indexer/pkg/transfer"
)

// DedupConstraint is the unique constraint over (transaction_hash, from_address, to_address).
const DedupConstraint = "transfer_events_dedup_key"

// TransferEventDao is a data access object that maps directly to the 'transfer_events' table in PostgreSQL.
// bun lists unique-group columns in field order, so TransactionHash leads the dedup key.
type TransferEventDao struct {
	bun.BaseModel   `bun:"table:transfer_events,alias:te"`
	ID              int64     `bun:"id,pk,autoincrement"`
	TransactionHash string    `bun:"transaction_hash,notnull,unique:transfer_events_dedup_key,type:varchar(66)"`
	FromAddress     string    `bun:"from_address,notnull,unique:transfer_events_dedup_key,type:varchar(42)"`
	ToAddress       string    `bun:"to_address,notnull,unique:transfer_events_dedup_key,type:varchar(42)"`
	Value           string    `bun:"value,notnull,type:varchar(78)"`
	BlockNumber     int64     `bun:"block_number,notnull"`
	ContractAddress string    `bun:"contract_address,notnull,type:varchar(42)"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func toTransferEventDao(rec *transfer.Record) *TransferEventDao {
	return &TransferEventDao{
		FromAddress:     transfer.NormalizeHex(rec.FromAddress),
		ToAddress:       transfer.NormalizeHex(rec.ToAddress),
		Value:           rec.Value,
		BlockNumber:     int64(rec.BlockNumber),
		TransactionHash: transfer.NormalizeHex(rec.TransactionHash),
		ContractAddress: transfer.NormalizeHex(rec.ContractAddress),
	}
}

func toRecord(dao *TransferEventDao) *transfer.Record {
	return &transfer.Record{
		ID:              dao.ID,
		FromAddress:     dao.FromAddress,
		ToAddress:       dao.ToAddress,
		Value:           dao.Value,
		BlockNumber:     uint64(dao.BlockNumber),
		TransactionHash: dao.TransactionHash,
		ContractAddress: dao.ContractAddress,
		CreatedAt:       dao.CreatedAt,
	}
}
