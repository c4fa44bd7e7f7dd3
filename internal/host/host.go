// ABOUTME: Host capability interfaces consumed by the admin module
// ABOUTME: Defines Extern, Env, Storage, Api, Querier and the response envelope

package host

import (
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Storage.Get when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidAddress is wrapped by Api implementations when an address cannot be converted.
var ErrInvalidAddress = errors.New("invalid address")

// HumanAddr is the user-facing form of an address, used at the message boundary.
type HumanAddr string

// CanonicalAddr is the storage-stable form of an address, used for persistence.
type CanonicalAddr []byte

// ReadonlyStorage is the read half of Storage.
type ReadonlyStorage interface {
	Get(key []byte) ([]byte, error)
}

// Storage is a key-value store scoped to one contract instance.
type Storage interface {
	ReadonlyStorage
	Set(key, value []byte) error
}

// Api converts addresses between their human and canonical forms.
type Api interface {
	CanonicalAddress(human HumanAddr) (CanonicalAddr, error)
	HumanAddress(canonical CanonicalAddr) (HumanAddr, error)
}

// Querier gives a contract read access to the outside world.
type Querier interface {
	Query(request []byte) ([]byte, error)
}

// Extern bundles the capabilities a handler runs against. Handlers that write
// instantiate it with a Storage; queries only need a ReadonlyStorage.
type Extern[S ReadonlyStorage, A Api, Q Querier] struct {
	Storage S
	Api     A
	Querier Q
}

// Env describes the invocation a handler is running for.
type Env struct {
	Block    BlockInfo    `json:"block"`
	Message  MessageInfo  `json:"message"`
	Contract ContractInfo `json:"contract"`
}

// BlockInfo identifies the block (or host transaction) the call belongs to.
type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    time.Time `json:"time"`
	ChainID string    `json:"chain_id"`
}

// MessageInfo carries the sender of the current message.
type MessageInfo struct {
	Sender HumanAddr `json:"sender"`
}

// ContractInfo identifies the contract being executed.
type ContractInfo struct {
	Address HumanAddr `json:"address"`
}

// LogAttribute is a key/value pair attached to a HandleResponse.
type LogAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// HandleResponse is the success envelope of a handle call. The zero value is
// the default, empty response.
type HandleResponse struct {
	Messages []any          `json:"messages"`
	Log      []LogAttribute `json:"log"`
	Data     []byte         `json:"data"`
}

// NoopQuerier is a Querier that rejects every request.
type NoopQuerier struct{}

// ErrQueryUnsupported is returned by NoopQuerier.
var ErrQueryUnsupported = errors.New("querier: queries are not supported by this host")

// Query implements Querier.
func (NoopQuerier) Query([]byte) ([]byte, error) {
	return nil, ErrQueryUnsupported
}
