package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/groupledger/internal/models"
)

// CreateExpense persists an expense and its participant shares in a single
// transaction. Any failure rolls back every row.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense, shares []models.Share) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, paid_by, group_id, total_amount, expense_operation, is_settled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.PayerID, expense.GroupID,
		expense.TotalAmount, string(expense.Operation), expense.IsSettled, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range shares {
		shares[i].ExpenseID = expense.ID
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, amount) VALUES (?, ?, ?)",
			expense.ID, shares[i].UserID, shares[i].Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share for user %s: %w", shares[i].UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

const expenseSelect = `
	SELECT e.id, e.description, e.paid_by, e.group_id, g.name,
	       e.total_amount, e.expense_operation, e.is_settled, e.created_at
	FROM expenses e
	JOIN expense_groups g ON g.id = e.group_id`

// shareSelect loads the shares of every expense matching the same filter
// as the expense query, so no ID list is ever bound.
const shareSelect = `
	SELECT p.expense_id, p.user_id, p.amount
	FROM expense_participants p
	WHERE p.expense_id IN (SELECT e.id FROM expenses e WHERE %s)
	ORDER BY p.rowid`

const userExpenseFilter = `e.paid_by = ?
	OR EXISTS (SELECT 1 FROM expense_participants ep WHERE ep.expense_id = e.id AND ep.user_id = ?)`

// ListExpensesForUser retrieves every expense the user paid or owes into.
func (s *SQLiteStore) ListExpensesForUser(ctx context.Context, userID string) ([]models.ExpenseWithGroup, error) {
	return s.listExpenses(ctx, userExpenseFilter, userID, userID)
}

// ListExpensesByGroup retrieves every expense recorded against a group.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]models.ExpenseWithGroup, error) {
	return s.listExpenses(ctx, "e.group_id = ?", groupID)
}

// listExpenses runs filter (a predicate over expenses aliased e) once for
// the expenses and once for their shares.
func (s *SQLiteStore) listExpenses(ctx context.Context, filter string, args ...interface{}) ([]models.ExpenseWithGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		expenseSelect+" WHERE "+filter+" ORDER BY e.created_at, e.rowid",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.ExpenseWithGroup
	for rows.Next() {
		var e models.ExpenseWithGroup
		var operation string
		if err := rows.Scan(&e.ID, &e.Description, &e.PayerID, &e.GroupID, &e.GroupName,
			&e.TotalAmount, &operation, &e.IsSettled, &e.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Operation = models.SplitOperation(operation)
		expenses = append(expenses, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	shares, err := s.sharesWhere(ctx, filter, args...)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Shares = shares[expenses[i].ID]
	}

	return expenses, nil
}

func (s *SQLiteStore) sharesWhere(ctx context.Context, filter string, args ...interface{}) (map[string][]models.Share, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(shareSelect, filter), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	shares := make(map[string][]models.Share)
	for rows.Next() {
		var share models.Share
		if err := rows.Scan(&share.ExpenseID, &share.UserID, &share.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares[share.ExpenseID] = append(shares[share.ExpenseID], share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}

	return shares, nil
}
