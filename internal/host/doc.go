// Package host defines the boundary between the admin module and the program
// that embeds it.
//
// The admin registry never talks to a database, a chain or a network directly.
// Everything it needs is injected through three capabilities bundled in an
// Extern value:
//
//   - Storage: a byte-oriented key-value store scoped to one contract instance.
//   - Api: conversion between human-facing and canonical addresses.
//   - Querier: read access to other contracts (unused by the admin module but
//     part of the host shape handlers are written against).
//
// Each call additionally receives an Env describing the block, the contract
// and the sender of the message.
//
// # Conventions
//
// Storage.Get returns ErrKeyNotFound for a key that was never written. Api
// failures wrap ErrInvalidAddress so callers can test with errors.Is.
//
// # Reference implementations
//
// MockApi is a deterministic addressing scheme suitable for tests and for the
// reference host in cmd/multiadmin-host. Storage backends live in
// internal/store.
package host
