package service

import (
	"errors"
	"fmt"

	"github.com/mmynk/groupledger/internal/storage"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrNoValidUsers = errors.New("no valid users found")
	ErrForbidden    = errors.New("not a member of this group")
	ErrPersistence  = errors.New("persistence failure")
	ErrUnauthorized = errors.New("authentication required")
)

// storeError classifies a store failure as ErrNotFound or ErrPersistence.
func storeError(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %v", ErrPersistence, what, err)
}
