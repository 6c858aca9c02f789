package services

import (
	"errors"
	"fmt"

	"pillflow-backend/utils"
)

var (
	ErrUnauthenticated       = utils.ErrUnauthenticated
	ErrAccessDenied          = errors.New("access denied")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateCustomerID   = errors.New("customer ID already exists")
	ErrDuplicateInitials     = errors.New("team member with these initials already exists")
	ErrInvalidFrequency      = errors.New("enter at least one frequency value")
	ErrInvalidInitialsFormat = errors.New("initials must be 2-3 letters only")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidTransition     = errors.New("invalid status transition")
)

// ownershipError is returned when a record is absent or owned by another
// user. The two cases are reported alike.
type ownershipError struct {
	kind string
}

func (e *ownershipError) Error() string {
	return e.kind + " not found or access denied"
}

func (e *ownershipError) Is(target error) bool {
	return target == ErrNotFound || target == ErrAccessDenied
}

func notOwned(kind string) error {
	return &ownershipError{kind: kind}
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
