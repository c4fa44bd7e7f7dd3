// Package admin maintains an allow-list of administrator addresses inside a
// contract's key-value storage and guards privileged handlers with it.
//
// # Registry
//
// The admin set is a JSON array of canonical addresses stored under a single
// fixed key (AdminsKey). It is only ever written by SaveAdmins:
//
//	err := admin.SaveAdmins(deps, []host.HumanAddr{"alice", "bob"})
//	admins, err := admin.LoadAdmins(deps)
//
// SaveAdmins appends without de-duplicating. An absent key is an empty set for
// SaveAdmins but ErrNotFound for LoadAdmins, so listing admins before any
// were ever written fails instead of returning an empty list.
//
// # Guard
//
// AssertAdmin returns nil when env.Message.Sender is in the admin set and
// ErrUnauthorized otherwise:
//
//	func handleWithdraw(deps *host.Extern[S, A, Q], env host.Env, amount uint64) (host.HandleResponse, error) {
//		if err := admin.AssertAdmin(deps, &env); err != nil {
//			return host.HandleResponse{}, err
//		}
//		...
//	}
//
// The first statement above does not have to be written by hand: annotate the
// function with //admin:require and run cmd/guardgen, or wrap it at runtime
// with RequireAdmin.
//
// # Messages
//
// Handle and Query route the two external messages:
//
//	{"add_admins":{"addresses":["alice"]}}   -> Handler.AddAdmins (admins only)
//	"admins"                                 -> Querier.QueryAdmins (anyone)
//
// DefaultHandler and DefaultQuerier carry the default behaviour. A host
// overrides one operation by embedding the default and shadowing the method.
//
// # Bootstrapping
//
// AddAdmins requires the sender to already be an admin, so the first admin
// must be written by a trusted path that calls SaveAdmins directly (see
// the bootstrap command of cmd/multiadmin-host).
//
// # Concurrency
//
// Nothing here locks. SaveAdmins is a read-modify-write on one key and must
// run inside a host call that is serialised against other writers.
package admin
