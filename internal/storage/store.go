// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/groupledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique constraint would be violated.
	ErrAlreadyExists = errors.New("already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrAlreadyExists when the
	// email or phone is taken.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	// Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their memberships.
type GroupStore interface {
	// CreateGroup inserts the group and the creator's membership atomically.
	// The group.ID and CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group, creatorID string) error

	// GetGroup returns ErrNotFound when the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListMembers returns the group's members in join order.
	ListMembers(ctx context.Context, groupID string) ([]*models.User, error)

	// AddMembers ensures each user is a member of the group. Existing
	// memberships are left untouched. Returns the number of new rows.
	AddMembers(ctx context.Context, groupID string, userIDs []string) (int, error)

	IsMember(ctx context.Context, groupID, userID string) (bool, error)
}

// ExpenseStore persists expenses and their participant shares.
type ExpenseStore interface {
	// CreateExpense writes the expense and all shares in one transaction.
	// Either every row is written or none is.
	CreateExpense(ctx context.Context, expense *models.Expense, shares []models.Share) error

	// ListExpensesForUser returns expenses the user paid or holds a share
	// on, with group names and all shares, ordered by creation time.
	ListExpensesForUser(ctx context.Context, userID string) ([]models.ExpenseWithGroup, error)

	// ListExpensesByGroup returns every expense of the group with shares.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]models.ExpenseWithGroup, error)
}

// Store defines the full set of ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
