package calculator

import (
	"fmt"
	"sort"
	"time"
)

// DateLayout is the format accepted for transaction date bounds.
const DateLayout = "2006-01-02"

// DateRange is an inclusive window of whole UTC days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses optional start and end dates.
// Both empty means no window (nil, nil). A single bound, a malformed date
// or an end before the start returns ErrInvalidDateRange.
func ParseDateRange(start, end string) (*DateRange, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start_date and end_date must be supplied together", ErrInvalidDateRange)
	}

	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date %q is not YYYY-MM-DD", ErrInvalidDateRange, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("%w: end_date %q is not YYYY-MM-DD", ErrInvalidDateRange, end)
	}
	if e.Before(s) {
		return nil, fmt.Errorf("%w: end_date %s is before start_date %s", ErrInvalidDateRange, end, start)
	}

	return &DateRange{Start: s, End: e}, nil
}

// Contains reports whether the Unix timestamp falls on a day inside the range.
func (r DateRange) Contains(unix int64) bool {
	t := time.Unix(unix, 0).UTC()
	return !t.Before(r.Start) && t.Before(r.End.AddDate(0, 0, 1))
}

// ShareForBalance is one participant row of an expense.
type ShareForBalance struct {
	UserID string
	Amount int64
}

// ExpenseForBalance represents an expense with the minimal information
// needed to build transaction history.
type ExpenseForBalance struct {
	ID          string
	Description string
	GroupName   string
	PayerID     string
	TotalAmount int64
	CreatedAt   int64
	Shares      []ShareForBalance
}

// Transaction summarizes one expense in a user's history.
type Transaction struct {
	ExpenseID   string
	Date        string
	Description string
	TotalAmount int64
	GroupName   string

	// PendingAmount is the sum of every participant share on the expense,
	// i.e. what all non-payers together still owe the payer. It is not the
	// requesting user's own share.
	PendingAmount int64

	CreatedAt int64
}

// UserPosition is a user's net position across a set of expenses.
type UserPosition struct {
	UserID    string
	TotalPaid int64 // Sum of totals of expenses the user paid
	Lent      int64 // Owed to the user by others on those expenses
	Owed      int64 // Owed by the user on other people's expenses
	Net       int64 // Positive = others owe the user, negative = user owes
}

// BuildTransactions folds eligible expenses into transaction summaries.
//
// The window, when non-nil, is applied as a filter after eligibility.
// Results are stably sorted by creation time, keeping input order for ties.
func BuildTransactions(expenses []ExpenseForBalance, window *DateRange) []Transaction {
	transactions := make([]Transaction, 0, len(expenses))
	for _, e := range expenses {
		if window != nil && !window.Contains(e.CreatedAt) {
			continue
		}

		var pending int64
		for _, s := range e.Shares {
			pending += s.Amount
		}

		transactions = append(transactions, Transaction{
			ExpenseID:     e.ID,
			Date:          time.Unix(e.CreatedAt, 0).UTC().Format(DateLayout),
			Description:   e.Description,
			TotalAmount:   e.TotalAmount,
			GroupName:     e.GroupName,
			PendingAmount: pending,
			CreatedAt:     e.CreatedAt,
		})
	}

	sort.SliceStable(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt < transactions[j].CreatedAt
	})
	return transactions
}

// CalculatePosition computes the user's net position over the expenses.
//
// Algorithm:
// - Expense paid by the user: +total paid, +sum of others' shares lent
// - Expense owed into: +the user's own share owed
// - Net = lent - owed
func CalculatePosition(userID string, expenses []ExpenseForBalance, window *DateRange) UserPosition {
	pos := UserPosition{UserID: userID}
	for _, e := range expenses {
		if window != nil && !window.Contains(e.CreatedAt) {
			continue
		}
		if e.PayerID == userID {
			pos.TotalPaid += e.TotalAmount
			for _, s := range e.Shares {
				pos.Lent += s.Amount
			}
			continue
		}
		for _, s := range e.Shares {
			if s.UserID == userID {
				pos.Owed += s.Amount
			}
		}
	}
	pos.Net = pos.Lent - pos.Owed
	return pos
}
