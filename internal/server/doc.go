// Package server is the reference host for the admin module.
//
// A Host owns one contract address and routes JSON messages from HTTP onto
// admin.Handle and admin.Query. Every execute runs inside a single storage
// transaction: if the handler fails, nothing it wrote is kept. Calls are
// serialised so the read-modify-write of the admin set is never interleaved.
//
// # Endpoints
//
//	POST /v1/execute   HandleMsg body, bearer JWT required (sender = sub claim)
//	POST /v1/query     QueryMsg body, no authentication
//	GET  /health       liveness
//
// Errors are returned as {"error": "..."} with the status mapped from the
// admin error: 403 unauthorized, 404 admin set not found, 400 bad message or
// address, 500 otherwise. Each request is tagged with an X-Request-Id.
package server
