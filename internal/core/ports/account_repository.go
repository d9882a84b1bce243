package ports

import (
	"context"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// AccountRepository persists accounts keyed by username.
type AccountRepository interface {
	// Create stores a new account; it fails with domain.ErrUsernameTaken when
	// the username is already present.
	Create(ctx context.Context, account *domain.Account) error
	// Get returns domain.ErrAccountNotFound for unknown usernames.
	Get(ctx context.Context, username string) (*domain.Account, error)
	// Update loads the account, applies fn and persists the result. Nothing is
	// written when fn returns an error.
	Update(ctx context.Context, username string, fn func(*domain.Account) error) error
	List(ctx context.Context) ([]*domain.Account, error)
}
