package service

import (
	"errors"

	"github.com/savefarm/savefarm/internal/core/domain"
)

// sessionOwnerErr maps a missing account behind a valid session to
// ErrUnauthenticated, so the client is sent back to login.
func sessionOwnerErr(err error) error {
	if errors.Is(err, domain.ErrAccountNotFound) {
		return domain.ErrUnauthenticated
	}
	return err
}
