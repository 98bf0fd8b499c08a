package calculator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOperation   = errors.New("invalid split operation")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAmountMismatch     = errors.New("total specified amount does not match the expense total")
	ErrUserNotInGroup     = errors.New("user not in group")
	ErrInvalidParticipant = errors.New("invalid participant")
	ErrInvalidDateRange   = errors.New("invalid date range")
)

// UserNotInGroupError names the user that failed the membership check.
// It matches ErrUserNotInGroup with errors.Is.
type UserNotInGroupError struct {
	UserID string
}

func (e *UserNotInGroupError) Error() string {
	return fmt.Sprintf("user %s is not a member of the group", e.UserID)
}

func (e *UserNotInGroupError) Is(target error) bool {
	return target == ErrUserNotInGroup
}
