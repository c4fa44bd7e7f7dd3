// ABOUTME: Admin guard: the single enforcement point for privileged handlers
// ABOUTME: AssertAdmin checks the sender; RequireAdmin wraps a handler with the check

package admin

import (
	"slices"

	"github.com/2389/multiadmin/internal/host"
)

// AssertAdmin returns nil if env.Message.Sender is in the admin set and
// ErrUnauthorized otherwise. Errors loading the set (including ErrNotFound)
// are returned as-is. It never writes.
func AssertAdmin[S host.ReadonlyStorage, A host.Api, Q host.Querier](deps *host.Extern[S, A, Q], env *host.Env) error {
	admins, err := LoadAdmins(deps)
	if err != nil {
		return err
	}

	if slices.Contains(admins, env.Message.Sender) {
		return nil
	}

	logger().Debug("rejected non-admin sender", "sender", env.Message.Sender)
	return ErrUnauthorized
}

// RequireAdmin returns a handler that runs AssertAdmin before delegating to h.
// It is the runtime counterpart of the //admin:require directive. Wrapping a
// handler twice runs the check twice.
func RequireAdmin[S host.Storage, A host.Api, Q host.Querier, M any](
	h func(deps *host.Extern[S, A, Q], env host.Env, msg M) (host.HandleResponse, error),
) func(deps *host.Extern[S, A, Q], env host.Env, msg M) (host.HandleResponse, error) {
	return func(deps *host.Extern[S, A, Q], env host.Env, msg M) (host.HandleResponse, error) {
		if err := AssertAdmin(deps, &env); err != nil {
			return host.HandleResponse{}, err
		}
		return h(deps, env, msg)
	}
}
