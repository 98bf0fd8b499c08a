package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		Phone:        "+1-555-" + name,
		PasswordHash: "hash",
	}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser generates ID", func(t *testing.T) {
		user := createUser(t, store, "alice")
		assert.NotEmpty(t, user.ID)
		assert.NotZero(t, user.CreatedAt)

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byEmail.ID)
		assert.Equal(t, "+1-555-alice", byEmail.Phone)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{
			Name: "other", Email: "alice@example.com", Phone: "unique-phone", PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{
			Name: "other", Email: "other@example.com", Phone: "+1-555-alice", PasswordHash: "hash",
		})
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("GetUsersByIDs omits unknown IDs", func(t *testing.T) {
		bob := createUser(t, store, "bob")
		users, err := store.GetUsersByIDs(ctx, []string{bob.ID, "ghost"})
		require.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Contains(t, users, bob.ID)
	})
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	group := &models.Group{Name: "Roommates", Description: "Flat 4B"}
	require.NoError(t, store.CreateGroup(ctx, group, alice.ID))
	assert.NotEmpty(t, group.ID)

	t.Run("creator is the first member", func(t *testing.T) {
		members, err := store.ListMembers(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, alice.ID, members[0].ID)
	})

	t.Run("GetGroup returns description", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roommates", got.Name)
		assert.Equal(t, "Flat 4B", got.Description)
	})

	t.Run("GetGroup missing", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("AddMembers is idempotent", func(t *testing.T) {
		added, err := store.AddMembers(ctx, group.ID, []string{bob.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, added)

		added, err = store.AddMembers(ctx, group.ID, []string{bob.ID, alice.ID})
		require.NoError(t, err)
		assert.Equal(t, 0, added)

		members, err := store.ListMembers(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2)
	})

	t.Run("AddMembers enforces foreign keys", func(t *testing.T) {
		_, err := store.AddMembers(ctx, "missing-group", []string{bob.ID})
		assert.Error(t, err)
	})

	t.Run("IsMember", func(t *testing.T) {
		ok, err := store.IsMember(ctx, group.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.IsMember(ctx, group.ID, "stranger")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	charlie := createUser(t, store, "charlie")

	group := &models.Group{Name: "Trip"}
	require.NoError(t, store.CreateGroup(ctx, group, alice.ID))
	_, err := store.AddMembers(ctx, group.ID, []string{bob.ID, charlie.ID})
	require.NoError(t, err)

	t.Run("CreateExpense writes expense and shares", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Dinner",
			PayerID:     alice.ID,
			GroupID:     group.ID,
			TotalAmount: 90,
			Operation:   models.SplitEqual,
			CreatedAt:   1000,
		}
		shares := []models.Share{
			{UserID: bob.ID, Amount: 30},
			{UserID: charlie.ID, Amount: 30},
		}
		require.NoError(t, store.CreateExpense(ctx, expense, shares))
		assert.NotEmpty(t, expense.ID)
		assert.Equal(t, expense.ID, shares[0].ExpenseID)

		listed, err := store.ListExpensesForUser(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "Trip", listed[0].GroupName)
		assert.Equal(t, models.SplitEqual, listed[0].Operation)
		assert.False(t, listed[0].IsSettled)
		assert.Len(t, listed[0].Shares, 2)
	})

	t.Run("failed share insert rolls back the expense", func(t *testing.T) {
		expense := &models.Expense{
			Description: "Broken",
			PayerID:     alice.ID,
			GroupID:     group.ID,
			TotalAmount: 50,
			Operation:   models.SplitExact,
			CreatedAt:   2000,
		}
		shares := []models.Share{
			{UserID: bob.ID, Amount: 25},
			{UserID: "ghost-user", Amount: 25},
		}
		require.Error(t, store.CreateExpense(ctx, expense, shares))

		listed, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Len(t, listed, 1, "partial expense must not be persisted")
	})

	t.Run("payer sees expenses they paid", func(t *testing.T) {
		listed, err := store.ListExpensesForUser(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
	})

	t.Run("user without expenses", func(t *testing.T) {
		listed, err := store.ListExpensesForUser(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("ordered by creation time", func(t *testing.T) {
		earlier := &models.Expense{
			Description: "Breakfast",
			PayerID:     bob.ID,
			GroupID:     group.ID,
			TotalAmount: 10,
			Operation:   models.SplitExact,
			CreatedAt:   500,
		}
		require.NoError(t, store.CreateExpense(ctx, earlier, []models.Share{{UserID: alice.ID, Amount: 10}}))

		listed, err := store.ListExpensesForUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, "Breakfast", listed[0].Description)
		assert.Equal(t, "Dinner", listed[1].Description)
	})
}

func TestListExpensesForUserBeyondVariableLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	group := &models.Group{Name: "Big"}
	require.NoError(t, store.CreateGroup(ctx, group, alice.ID))
	_, err := store.AddMembers(ctx, group.ID, []string{bob.ID})
	require.NoError(t, err)

	// More expenses than SQLite allows bound variables in one statement
	const n = 33000
	tx, err := store.db.BeginTx(ctx, nil)
	require.NoError(t, err)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("exp-%05d", i)
		_, err = tx.ExecContext(ctx,
			`INSERT INTO expenses (id, description, paid_by, group_id, total_amount, expense_operation, is_settled, created_at)
			 VALUES (?, 'bulk', ?, ?, 2, 'equal', 0, ?)`,
			id, alice.ID, group.ID, i,
		)
		require.NoError(t, err)
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, amount) VALUES (?, ?, 1)",
			id, bob.ID,
		)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit())

	listed, err := store.ListExpensesForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, listed, n)
	assert.Equal(t, []models.Share{{ExpenseID: "exp-32999", UserID: bob.ID, Amount: 1}}, listed[n-1].Shares)

	byGroup, err := store.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Len(t, byGroup, n)
}

func TestGetUsersByIDsBatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	ids := []string{bob.ID}
	for i := 0; i < 40000; i++ {
		ids = append(ids, fmt.Sprintf("ghost-%d", i))
	}
	ids = append(ids, carol.ID)

	users, err := store.GetUsersByIDs(ctx, ids)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Contains(t, users, bob.ID)
	assert.Contains(t, users, carol.ID)

	empty, err := store.GetUsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "plain path", path: "/tmp/ledger.db", want: "file:/tmp/ledger.db?"},
		{name: "query character", path: "/tmp/a?b/ledger.db", want: "file:/tmp/a%3Fb/ledger.db?"},
		{name: "fragment and percent", path: "/tmp/a#b%c/ledger.db", want: "file:/tmp/a%23b%25c/ledger.db?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := dataSourceName(tt.path)
			assert.True(t, strings.HasPrefix(dsn, tt.want), dsn)
			assert.Contains(t, dsn, "foreign_keys(1)")
		})
	}
}

func TestNewWithSpecialCharactersInPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "odd?dir#1%", "ledger.db")

	store, err := New(dbPath)
	require.NoError(t, err)
	defer store.Close()

	createUser(t, store, "alice")

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database must be created at the literal path")
}
