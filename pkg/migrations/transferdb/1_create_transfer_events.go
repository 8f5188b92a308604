package transferdb

import (
	"context"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/transfer-indexer/pkg/pgutil/migrations"
	"github.com/chainsafe/transfer-indexer/pkg/transferstore"
)

var transferEventIndexes = []string{"from_address", "to_address", "block_number"}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := mghelper.CreateSchema(ctx, tx, &transferstore.TransferEventDao{}); err != nil {
				return err
			}
			return mghelper.CreateModelIndexes(ctx, tx, &transferstore.TransferEventDao{}, transferEventIndexes...)
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := mghelper.DropModelIndexes(ctx, tx, &transferstore.TransferEventDao{}, transferEventIndexes...); err != nil {
				return err
			}
			return mghelper.DropTables(ctx, tx, &transferstore.TransferEventDao{})
		})
	})
}
