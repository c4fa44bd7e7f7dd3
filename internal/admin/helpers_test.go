// ABOUTME: Shared fixtures for admin package tests
// ABOUTME: Builds in-memory Extern values and failing storage fakes

package admin

import (
	"errors"
	"testing"

	"github.com/2389/multiadmin/internal/host"
	"github.com/2389/multiadmin/internal/store"
)

// newTestDeps returns writable deps over a fresh in-memory store.
func newTestDeps(t *testing.T) (*Deps, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	return &Deps{
		Storage: mem,
		Api:     host.NewMockApi(),
		Querier: host.NoopQuerier{},
	}, mem
}

// readonly returns a query view over the same capabilities.
func readonly(deps *Deps) *ReadonlyDeps {
	return &ReadonlyDeps{
		Storage: deps.Storage,
		Api:     deps.Api,
		Querier: deps.Querier,
	}
}

// envFrom builds an Env whose sender is addr.
func envFrom(addr host.HumanAddr) host.Env {
	return host.Env{
		Message:  host.MessageInfo{Sender: addr},
		Contract: host.ContractInfo{Address: "contract"},
	}
}

var errStorageDown = errors.New("storage down")

// brokenStorage fails every operation.
type brokenStorage struct{}

func (brokenStorage) Get([]byte) ([]byte, error) { return nil, errStorageDown }
func (brokenStorage) Set([]byte, []byte) error   { return errStorageDown }

// flakyApi rejects one specific human address and humanizes normally otherwise.
type flakyApi struct {
	host.MockApi
	reject host.HumanAddr
}

func (a flakyApi) CanonicalAddress(human host.HumanAddr) (host.CanonicalAddr, error) {
	if human == a.reject {
		return nil, host.ErrInvalidAddress
	}
	return a.MockApi.CanonicalAddress(human)
}
