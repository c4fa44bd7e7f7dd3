// Package auth authenticates callers of the multiadmin host.
//
// # Sender Identity
//
// Every execute call carries an HS256 JWT whose "sub" claim is the caller's
// human address. The verified address becomes Env.Message.Sender, which is
// what the admin check compares against the stored admin set. The token
// proves who is calling; whether that caller may act is decided by the
// admin module, not here.
//
// # Tokens
//
//	verifier, err := auth.NewJWTVerifier(secret)
//	token, err := verifier.Generate("alice", 24*time.Hour)
//	sender, err := verifier.Verify(token)
//
// Secrets shorter than MinSecretLength are rejected.
//
// # HTTP Middleware
//
//	handler := auth.Middleware(verifier)(next)
//
// Requests without a valid bearer token get 401 and a JSON error body.
// Handlers read the caller with SenderFromContext.
package auth
