// ABOUTME: Routes AddAdmins and Admins messages onto the registry and guard
// ABOUTME: Handler/Querier behaviours with default implementations hosts can embed

package admin

import (
	"encoding/json"
	"fmt"

	"github.com/2389/multiadmin/internal/host"
)

// Handler executes admin commands. Embed DefaultHandler to inherit the
// default behaviour and shadow the methods you want to change.
type Handler interface {
	AddAdmins(deps *Deps, env host.Env, addresses []host.HumanAddr) (host.HandleResponse, error)
}

// Querier answers admin queries. Embed DefaultQuerier to inherit the
// default behaviour.
type Querier interface {
	QueryAdmins(deps *ReadonlyDeps) ([]byte, error)
}

// DefaultHandler is the stock Handler.
type DefaultHandler struct{}

// AddAdmins requires the sender to be an admin, then appends addresses.
func (DefaultHandler) AddAdmins(deps *Deps, env host.Env, addresses []host.HumanAddr) (host.HandleResponse, error) {
	if err := AssertAdmin(deps, &env); err != nil {
		return host.HandleResponse{}, err
	}
	if err := SaveAdmins(deps, addresses); err != nil {
		return host.HandleResponse{}, err
	}

	return host.HandleResponse{}, nil
}

// DefaultQuerier is the stock Querier.
type DefaultQuerier struct{}

// QueryAdmins returns the JSON encoded QueryResponse. Anyone may call it.
func (DefaultQuerier) QueryAdmins(deps *ReadonlyDeps) ([]byte, error) {
	addresses, err := LoadAdmins(deps)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(QueryResponse{Addresses: addresses})
	if err != nil {
		return nil, fmt.Errorf("encoding query response: %w", err)
	}
	return data, nil
}

// Handle routes a command to h.
func Handle(deps *Deps, env host.Env, msg HandleMsg, h Handler) (host.HandleResponse, error) {
	switch {
	case msg.AddAdmins != nil:
		return h.AddAdmins(deps, env, msg.AddAdmins.Addresses)
	default:
		return host.HandleResponse{}, ErrUnknownMessage
	}
}

// Query routes a query to q.
func Query(deps *ReadonlyDeps, msg QueryMsg, q Querier) ([]byte, error) {
	switch {
	case msg.Admins != nil:
		return q.QueryAdmins(deps)
	default:
		return nil, ErrUnknownMessage
	}
}
