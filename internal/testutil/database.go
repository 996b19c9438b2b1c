// Package testutil provides database fixtures shared by the teller's tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/Veraticus/pocket-teller/internal/model"
	"github.com/Veraticus/pocket-teller/internal/service"
	"github.com/Veraticus/pocket-teller/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	// CustomSetup runs after migrations and seeding.
	CustomSetup func(context.Context, service.Storage) error
	// Values are written to the key-value table before the test starts.
	Values map[string]string
	// Postings are journaled before the test starts.
	Postings       []model.Transaction
	SkipMigrations bool
}

// NewStore returns a migrated database that is closed when the test ends.
func NewStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	return SetupTestDB(t).Storage
}

// SetupTestDB creates a migrated database in the test's temp directory.
// It automatically handles cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database with custom options.
//
// Example:
//
//	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
//		Values: map[string]string{storage.KeySession: "true"},
//	})
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "teller.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	if len(opts.Values) > 0 {
		if err := store.PutMany(ctx, opts.Values); err != nil {
			t.Fatalf("failed to seed values: %v", err)
		}
	}

	if len(opts.Postings) > 0 {
		if err := store.SaveTransactions(ctx, opts.Postings); err != nil {
			t.Fatalf("failed to seed postings: %v", err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustGet returns the stored value for key or fails the test.
func (db *TestDB) MustGet(key string) string {
	db.t.Helper()
	v, err := db.Storage.Get(context.Background(), key)
	if err != nil {
		db.t.Fatalf("failed to read %q: %v", key, err)
	}
	return v
}

// WithTransaction executes the given function within a database transaction.
// The transaction is automatically rolled back after the function completes.
func (db *TestDB) WithTransaction(fn func(tx service.Transaction) error) error {
	ctx := context.Background()
	tx, err := db.Storage.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() { _ = tx.Rollback() }()

	return fn(tx)
}
