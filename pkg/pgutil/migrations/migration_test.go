package migrations

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"github.com/chainsafe/transfer-indexer/pkg/config"
	"github.com/chainsafe/transfer-indexer/pkg/pgutil"
)

// Test DAO for testing purposes
type testDao struct {
	bun.BaseModel `bun:"table:test_table"`
	ID            int64  `bun:",pk,autoincrement"`
	Name          string `bun:",notnull,type:varchar(100)"`
	Age           int    `bun:",nullzero"`
}

func indexExists(t *testing.T, db *bun.DB, name string) bool {
	t.Helper()
	var exists bool
	query := `SELECT EXISTS (SELECT FROM pg_indexes WHERE schemaname = 'public' AND indexname = ?)`
	if err := db.NewRaw(query, name).Scan(context.Background(), &exists); err != nil {
		t.Fatalf("failed to check index %s: %v", name, err)
	}
	return exists
}

func TestConnectDB_Success(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()

	if err := db.Ping(); err != nil {
		t.Errorf("Ping() failed: %v", err)
	}
}

func TestConnectDB_InvalidHost(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:     "invalid-host-that-does-not-exist",
		Port:     5432,
		User:     "test",
		Password: "test",
		Database: "test",
		SSLMode:  "disable",
	}

	db, err := pgutil.ConnectDB(context.Background(), cfg)
	if err == nil {
		_ = db.Close()
		t.Error("ConnectDB() should fail with invalid host")
	}
}

func TestModelIndexName(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()

	name, err := ModelIndexName(db, &testDao{}, "name")
	if err != nil {
		t.Fatalf("ModelIndexName() failed: %v", err)
	}
	if name != "idx_test_table_name" {
		t.Errorf("expected idx_test_table_name, got %s", name)
	}

	if _, err := ModelIndexName(db, nil, "name"); err == nil {
		t.Error("expected error for nil model")
	}
}

func TestCreateSchema(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_table")

	// Verify idempotency - calling again should not fail
	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Errorf("CreateSchema() second call failed: %v", err)
	}
}

func TestDropTables(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_table")

	if err := DropTables(ctx, db, &testDao{}); err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "test_table")

	if err := DropTables(ctx, db, &testDao{}); err != nil {
		t.Errorf("DropTables() second call failed: %v", err)
	}
}

func TestCreateAndDropModelIndexes(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &testDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}

	if err := CreateModelIndexes(ctx, db, &testDao{}, "name", "age"); err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}
	pgutil.AssertIndexExists(t, db, "idx_test_table_name")
	pgutil.AssertIndexExists(t, db, "idx_test_table_age")

	// Verify idempotency
	if err := CreateModelIndexes(ctx, db, &testDao{}, "name"); err != nil {
		t.Errorf("CreateModelIndexes() second call failed: %v", err)
	}

	if err := DropModelIndexes(ctx, db, &testDao{}, "name", "age"); err != nil {
		t.Fatalf("DropModelIndexes() failed: %v", err)
	}
	if indexExists(t, db, "idx_test_table_name") {
		t.Error("idx_test_table_name should be dropped")
	}
	if indexExists(t, db, "idx_test_table_age") {
		t.Error("idx_test_table_age should be dropped")
	}
}
