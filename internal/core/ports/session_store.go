package ports

import "context"

// SessionStore maps opaque session tokens to usernames.
type SessionStore interface {
	Create(ctx context.Context, username string) (string, error)
	// Lookup returns domain.ErrUnauthenticated for unknown or revoked tokens.
	Lookup(ctx context.Context, token string) (string, error)
	// Invalidate is idempotent.
	Invalidate(ctx context.Context, token string) error
}
