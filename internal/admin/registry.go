// ABOUTME: Persisted admin set: SaveAdmins appends, LoadAdmins lists
// ABOUTME: Stores canonical addresses as one JSON value under a fixed key

package admin

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/multiadmin/internal/host"
)

// AdminsKey is the storage key of the admin set. Changing it discards every
// existing admin.
var AdminsKey = []byte("i801onL3kf")

// Deps is the host capability bundle used by the dispatch layer.
type Deps = host.Extern[host.Storage, host.Api, host.Querier]

// ReadonlyDeps is the capability bundle used for queries.
type ReadonlyDeps = host.Extern[host.ReadonlyStorage, host.Api, host.Querier]

func logger() *slog.Logger {
	return slog.Default().With("component", "admin")
}

// SaveAdmins appends addresses to the admin set. An absent set is treated as
// empty. Every address is converted before anything is written, so a
// conversion failure leaves the stored set untouched. Duplicates are kept.
func SaveAdmins[S host.Storage, A host.Api, Q host.Querier](deps *host.Extern[S, A, Q], addresses []host.HumanAddr) error {
	admins, err := loadCanonical(deps.Storage)
	switch {
	case errors.Is(err, host.ErrKeyNotFound):
		admins = [][]byte{}
	case err != nil:
		return err
	}

	for _, address := range addresses {
		canonical, err := deps.Api.CanonicalAddress(address)
		if err != nil {
			return &AddressError{Op: OpCanonicalize, Address: string(address), Err: err}
		}
		admins = append(admins, canonical)
	}

	data, err := json.Marshal(admins)
	if err != nil {
		return fmt.Errorf("encoding admin set: %w", err)
	}
	if err := deps.Storage.Set(AdminsKey, data); err != nil {
		return fmt.Errorf("saving admin set: %w", err)
	}

	logger().Debug("saved admins", "added", len(addresses), "total", len(admins))
	return nil
}

// LoadAdmins returns the admin set in stored order, duplicates included.
// It returns ErrNotFound if the set has never been written.
func LoadAdmins[S host.ReadonlyStorage, A host.Api, Q host.Querier](deps *host.Extern[S, A, Q]) ([]host.HumanAddr, error) {
	admins, err := loadCanonical(deps.Storage)
	if errors.Is(err, host.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	result := make([]host.HumanAddr, 0, len(admins))
	for _, admin := range admins {
		human, err := deps.Api.HumanAddress(admin)
		if err != nil {
			return nil, &AddressError{Op: OpHumanize, Address: hex.EncodeToString(admin), Err: err}
		}
		result = append(result, human)
	}

	return result, nil
}

// loadCanonical reads and decodes the stored admin set. It returns
// host.ErrKeyNotFound unwrapped so callers can choose how to treat absence.
func loadCanonical(storage host.ReadonlyStorage) ([][]byte, error) {
	data, err := storage.Get(AdminsKey)
	if errors.Is(err, host.ErrKeyNotFound) {
		return nil, host.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading admin set: %w", err)
	}

	var admins [][]byte
	if err := json.Unmarshal(data, &admins); err != nil {
		return nil, fmt.Errorf("decoding admin set: %w", err)
	}
	return admins, nil
}
