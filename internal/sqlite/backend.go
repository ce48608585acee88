// Package sqlite implements the SQLite storage backend for the
// content-licensing ledger. SQLite is the query engine; JSONL files in the
// data directory are the source of truth.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/drm/pkg/types"
)

// dbFileName is the SQLite file created inside DataDir.
const dbFileName = "ledger.db"

// Backend implements the Ledger interface using SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB

	// txMu serializes writers: Update holds it exclusively, View and Fetch
	// share it. Combined with a single connection this makes every
	// instruction observe and commit a consistent snapshot.
	txMu sync.RWMutex

	// journalErr is set when a committed journal could not be applied.
	// Writers are refused until a retry succeeds. Guarded by txMu.
	journalErr error
}

var _ types.Ledger = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist, rebuilds the SQLite database from the
// JSONL files, and makes the ledger available.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}
	if config.Backend != types.BackendSQLite {
		return fmt.Errorf("sqlite backend given %q: %w", config.Backend, types.ErrBackendUnknown)
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	config.DataDir = dataDir

	if err := applyJournal(dataDir); err != nil {
		return fmt.Errorf("recovering commit journal: %w", err)
	}

	// The database is a cache of the JSONL files; start from a fresh schema.
	dbPath := filepath.Join(dataDir, dbFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", "file:"+dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	b.db = db
	b.config = config
	b.journalErr = nil
	b.attached = true
	return nil
}

// Detach closes the SQLite connection. After Detach, all operations return
// ErrLedgerDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	// Wait for in-flight transactions.
	b.txMu.Lock()
	defer b.txMu.Unlock()

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// View runs fn in a read-only transaction.
func (b *Backend) View(ctx context.Context, fn func(tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrLedgerDetached
	}

	b.txMu.RLock()
	defer b.txMu.RUnlock()

	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	return fn(newTxn(sqlTx, true))
}

// Update runs fn in a read-write transaction. Tables written by fn are
// staged as pending JSONL files and made durable through the commit journal;
// any failure before the journal is written rolls the whole instruction back
// on disk and in SQLite.
func (b *Backend) Update(ctx context.Context, fn func(tx types.Tx) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrLedgerDetached
	}

	b.txMu.Lock()
	defer b.txMu.Unlock()

	if b.journalErr != nil {
		if err := applyJournal(b.config.DataDir); err != nil {
			return fmt.Errorf("applying commit journal: %w", err)
		}
		b.journalErr = nil
	}

	sqlTx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer sqlTx.Rollback()

	tx := newTxn(sqlTx, false)
	if err := fn(tx); err != nil {
		return err
	}

	dataDir := b.config.DataDir
	var staged []string
	for _, spec := range tableSpecs {
		if !tx.dirty[spec.kind] {
			continue
		}
		staged = append(staged, spec.file)
		if err := persistTableJSONL(sqlTx, pendingPath(dataDir, spec.file), spec); err != nil {
			discardPending(dataDir, staged)
			return fmt.Errorf("persisting %s: %w", spec.file, err)
		}
	}
	if len(staged) == 0 {
		if err := sqlTx.Commit(); err != nil {
			return fmt.Errorf("committing transaction: %w", err)
		}
		return nil
	}

	if err := writeJournal(dataDir, staged); err != nil {
		discardPending(dataDir, staged)
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		if rmErr := os.Remove(filepath.Join(dataDir, journalFileName)); rmErr != nil {
			return errors.Join(fmt.Errorf("committing transaction: %w", err), rmErr)
		}
		discardPending(dataDir, staged)
		return fmt.Errorf("committing transaction: %w", err)
	}

	// The instruction is durable once the journal is written. A failed rename
	// is retried by the next writer or rolled forward by Attach.
	b.journalErr = applyJournal(dataDir)
	return nil
}

// Fetch returns records of kind matching filter, oldest first.
func (b *Backend) Fetch(ctx context.Context, kind string, filter types.Filter) ([]any, error) {
	if err := filter.Validate(kind); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrLedgerDetached
	}

	b.txMu.RLock()
	defer b.txMu.RUnlock()

	spec, _ := specForKind(kind)
	var conditions []string
	var args []any
	for key, val := range filter {
		conditions = append(conditions, key+" = ?")
		args = append(args, bindValue(val))
	}

	query := "SELECT " + joinColumns(spec.columns) + " FROM " + spec.table
	if len(conditions) > 0 {
		query += " WHERE " + joinConditions(conditions)
	}
	query += " ORDER BY " + orderColumn(spec) + " ASC, address ASC"

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", spec.table, err)
	}
	defer rows.Close()

	results := []any{}
	for rows.Next() {
		rec, err := hydrate(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating %s: %w", kind, err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", spec.table, err)
	}
	return results, nil
}

// createSchema executes all table and index DDL.
func createSchema(db *sql.DB) error {
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}
