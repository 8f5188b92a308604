package transferdb

import (
	"context"
	"strings"
	"testing"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/transfer-indexer/pkg/pgutil"
	mghelper "github.com/chainsafe/transfer-indexer/pkg/pgutil/migrations"
)

func TestTransferDBMigrations_UpAndDown(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}
	if group.IsZero() {
		t.Fatal("expected migrations to run, but none were applied")
	}

	pgutil.AssertTableExists(t, db, "transfer_events")
	pgutil.AssertIndexExists(t, db, "idx_transfer_events_from_address")
	pgutil.AssertIndexExists(t, db, "idx_transfer_events_to_address")
	pgutil.AssertIndexExists(t, db, "idx_transfer_events_block_number")
	pgutil.AssertIndexExists(t, db, "transfer_events_dedup_key")

	var dedupColumns []string
	err = db.NewRaw(`
		SELECT a.attname
		FROM pg_constraint c
		CROSS JOIN LATERAL unnest(c.conkey) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = c.conrelid AND a.attnum = k.attnum
		WHERE c.conname = ?
		ORDER BY k.ord`, "transfer_events_dedup_key").
		Scan(ctx, &dedupColumns)
	if err != nil {
		t.Fatalf("failed to read dedup key columns: %v", err)
	}
	want := []string{"transaction_hash", "from_address", "to_address"}
	if strings.Join(dedupColumns, ",") != strings.Join(want, ",") {
		t.Fatalf("expected dedup key columns %v, got %v", want, dedupColumns)
	}

	// running again is a no-op
	group, err = migrator.Migrate(ctx)
	if err != nil {
		t.Fatalf("second Migrate() failed: %v", err)
	}
	if !group.IsZero() {
		t.Fatalf("expected no new migrations, got %s", group)
	}

	if _, err := migrator.Rollback(ctx); err != nil {
		t.Fatalf("Rollback() failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "transfer_events")

	var indexes int
	err = db.NewRaw(`SELECT count(*) FROM pg_indexes WHERE schemaname = 'public' AND indexname LIKE 'idx_transfer_events_%'`).
		Scan(ctx, &indexes)
	if err != nil {
		t.Fatalf("failed to count indexes: %v", err)
	}
	if indexes != 0 {
		t.Fatalf("expected transfer_events indexes to be dropped, %d remain", indexes)
	}
}

func TestTransferDBMigrations_RunMigrationsCommands(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, Migrations)
	logger := zap.NewNop()

	if err := mghelper.RunMigrations(ctx, migrator, logger); err == nil {
		t.Fatal("expected error without a command")
	}
	if err := mghelper.RunMigrations(ctx, migrator, logger, "sideways"); err == nil {
		t.Fatal("expected error for unknown command")
	}

	for _, cmd := range []string{"init", "up", "status"} {
		if err := mghelper.RunMigrations(ctx, migrator, logger, cmd); err != nil {
			t.Fatalf("%s failed: %v", cmd, err)
		}
	}
	pgutil.AssertTableExists(t, db, "transfer_events")

	if err := mghelper.RunMigrations(ctx, migrator, logger, "down"); err != nil {
		t.Fatalf("down failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "transfer_events")
}
