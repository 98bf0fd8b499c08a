package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/storage"
)

// TransactionReport is a user's transaction history with their net
// position over the same window.
type TransactionReport struct {
	Transactions []calculator.Transaction
	Position     calculator.UserPosition
}

// TransactionService reconstructs a user's history from stored expenses.
type TransactionService struct {
	store storage.ExpenseStore
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(store storage.ExpenseStore) *TransactionService {
	return &TransactionService{store: store}
}

// GetTransactions returns the expenses the user paid or owes into,
// optionally restricted to an inclusive [startDate, endDate] window.
// A user with no expenses, known or not, gets an empty report.
func (s *TransactionService) GetTransactions(ctx context.Context, userID, startDate, endDate string) (*TransactionReport, error) {
	slog.Info("GetTransactions request received",
		"user_id", userID,
		"start_date", startDate,
		"end_date", endDate,
	)

	window, err := calculator.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrUnauthorized
	}

	stored, err := s.store.ListExpensesForUser(ctx, userID)
	if err != nil {
		slog.Error("GetTransactions failed", "user_id", userID, "error", err)
		return nil, storeError(err, "list expenses")
	}

	expenses := make([]calculator.ExpenseForBalance, len(stored))
	for i, e := range stored {
		shares := make([]calculator.ShareForBalance, len(e.Shares))
		for j, sh := range e.Shares {
			shares[j] = calculator.ShareForBalance{UserID: sh.UserID, Amount: sh.Amount}
		}
		expenses[i] = calculator.ExpenseForBalance{
			ID:          e.ID,
			Description: e.Description,
			GroupName:   e.GroupName,
			PayerID:     e.PayerID,
			TotalAmount: e.TotalAmount,
			CreatedAt:   e.CreatedAt,
			Shares:      shares,
		}
	}

	report := &TransactionReport{
		Transactions: calculator.BuildTransactions(expenses, window),
		Position:     calculator.CalculatePosition(userID, expenses, window),
	}

	slog.Info("GetTransactions successful",
		"user_id", userID,
		"eligible", len(expenses),
		"returned", len(report.Transactions),
		"net", report.Position.Net,
	)
	return report, nil
}
