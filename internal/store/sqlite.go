// ABOUTME: SQLite implementation of contract key-value storage
// ABOUTME: Provides transaction-scoped host.Storage with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/2389/multiadmin/internal/host"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger

	// mu serialises transactions so a read-modify-write never interleaves.
	mu sync.Mutex
}

// NewSQLiteStore creates a new SQLite store at the given path using the pure Go driver.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return Open(DriverModernc, path)
}

// Open creates a SQLite store at path with the named driver.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func Open(driver, path string) (*SQLiteStore, error) {
	if driver == "" {
		driver = DriverModernc
	}
	if driver != DriverModernc && driver != DriverMattn {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path, "driver", driver)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS contract_kv (
			contract   TEXT NOT NULL,
			key        BLOB NOT NULL,
			value      BLOB,
			updated_at TEXT NOT NULL,

			PRIMARY KEY (contract, key)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Update implements Store.
func (s *SQLiteStore) Update(ctx context.Context, contract host.HumanAddr, fn func(host.Storage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	txn := &Txn{ctx: ctx, tx: tx, contract: string(contract)}
	if err := fn(txn); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("rollback failed", "contract", contract, "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("committed transaction", "contract", contract, "writes", txn.writes)
	return nil
}

// View implements Store. The transaction is always rolled back.
func (s *SQLiteStore) View(ctx context.Context, contract host.HumanAddr, fn func(host.ReadonlyStorage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(&Txn{ctx: ctx, tx: tx, contract: string(contract)})
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Txn is the host.Storage view of one contract inside a SQL transaction.
// It is only valid inside the Update or View callback that received it.
type Txn struct {
	ctx      context.Context
	tx       *sql.Tx
	contract string
	writes   int
}

// Get implements host.ReadonlyStorage.
func (t *Txn) Get(key []byte) ([]byte, error) {
	query := `SELECT value FROM contract_kv WHERE contract = ? AND key = ?`

	var value []byte
	err := t.tx.QueryRowContext(t.ctx, query, t.contract, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, host.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set implements host.Storage.
func (t *Txn) Set(key, value []byte) error {
	query := `
		INSERT INTO contract_kv (contract, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (contract, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if value == nil {
		value = []byte{}
	}

	_, err := t.tx.ExecContext(t.ctx, query,
		t.contract,
		key,
		value,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	t.writes++
	return nil
}
