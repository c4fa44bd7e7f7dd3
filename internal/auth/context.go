// ABOUTME: Request context carrying the authenticated sender address
// ABOUTME: Provides WithSender/SenderFromContext for handlers behind the middleware

package auth

import (
	"context"

	"github.com/2389/multiadmin/internal/host"
)

// senderContextKey is the key type for storing the sender in context.Context.
type senderContextKey struct{}

// WithSender returns a new context carrying sender.
func WithSender(ctx context.Context, sender host.HumanAddr) context.Context {
	return context.WithValue(ctx, senderContextKey{}, sender)
}

// SenderFromContext returns the authenticated sender, or false if the request
// did not pass through the middleware.
func SenderFromContext(ctx context.Context) (host.HumanAddr, bool) {
	sender, ok := ctx.Value(senderContextKey{}).(host.HumanAddr)
	return sender, ok && sender != ""
}
