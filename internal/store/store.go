// ABOUTME: Store interface for the reference host's contract storage
// ABOUTME: Defines the transactional entry point shared by SQLite and memory backends

package store

import (
	"context"
	"errors"

	"github.com/2389/multiadmin/internal/host"
)

// Driver names accepted by Open.
const (
	DriverModernc = "sqlite"
	DriverMattn   = "sqlite3"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown database driver")

// Store runs functions against the storage of one contract.
type Store interface {
	// Update runs fn inside a transaction scoped to contract. The transaction
	// commits when fn returns nil and rolls back otherwise.
	Update(ctx context.Context, contract host.HumanAddr, fn func(host.Storage) error) error

	// View runs fn against a read-only view of contract's storage.
	View(ctx context.Context, contract host.HumanAddr, fn func(host.ReadonlyStorage) error) error

	// Close releases any resources held by the store
	Close() error
}
