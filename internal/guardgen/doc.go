// Package guardgen rewrites handler source so that every function annotated
// with the //admin:require directive starts with an admin guard call.
//
// Given
//
//	//admin:require
//	func handleWithdraw(deps *host.Extern[S, A, Q], env host.Env, amount uint64) (host.HandleResponse, error) {
//		...
//	}
//
// the rewritten function is
//
//	//admin:require
//	func handleWithdraw(deps *host.Extern[S, A, Q], env host.Env, amount uint64) (host.HandleResponse, error) {
//		if err := admin.AssertAdmin(deps, &env); err != nil {
//			return *new(host.HandleResponse), err
//		}
//		...
//	}
//
// # Parameter discovery
//
// Parameters are scanned once, in declaration order:
//
//   - context: a pointer to a generic instantiation of the configured context
//     type (Extern by default), qualified or not. Type arguments are required.
//   - env: the configured environment type (Env by default), by value or by
//     pointer. Pointers are passed through without taking an address.
//
// When several parameters match a role the last one wins. Blank and unnamed
// parameters cannot be referenced and are skipped. A missing role is a
// *BuildConfigError and nothing is written.
//
// The function must return error as its last result; the other results get
// their zero values in the injected return.
//
// # Idempotency
//
// The rewrite is not idempotent. Running it twice over the same file inserts
// two guard calls, so generated output should not be fed back in.
//
// # Configuration
//
// Type names, the guard function and its import path come from Config, which
// can be loaded from a TOML file:
//
//	directive     = "admin:require"
//	context_type  = "Extern"
//	env_type      = "Env"
//	guard_func    = "AssertAdmin"
//	guard_package = "admin"
//	guard_import  = "github.com/2389/multiadmin/internal/admin"
package guardgen
