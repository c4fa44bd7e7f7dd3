// Package store provides the key-value storage backends the reference host
// hands to contract handlers.
//
// # Backends
//
//   - SQLiteStore: durable storage. Every host call runs inside one SQL
//     transaction (Txn) which implements host.Storage; the transaction commits
//     when the handler succeeds and rolls back otherwise.
//   - MemoryStore: an in-memory host.Storage for unit tests.
//
// Keys are namespaced by contract address so one database can back several
// contract instances.
//
// # SQLite Configuration
//
// Two drivers are supported and selected by name:
//
//   - "sqlite": modernc.org/sqlite, pure Go (default)
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// The database runs in WAL mode. Transactions are serialised by the store so a
// read-modify-write sequence inside a handler is never interleaved with
// another writer.
//
// # Error Handling
//
// Txn.Get and MemoryStore.Get return host.ErrKeyNotFound for absent keys.
// All other failures are wrapped with context.
//
// # Testing
//
// Use NewMemoryStore() for unit tests and NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
// for integration tests with real SQLite.
package store
