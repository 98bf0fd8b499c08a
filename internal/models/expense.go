package models

// SplitOperation selects how an expense total is divided.
type SplitOperation string

const (
	// SplitEqual divides the total evenly across all group members.
	SplitEqual SplitOperation = "equal"
	// SplitExact uses caller-supplied per-user amounts.
	SplitExact SplitOperation = "exact"
)

// Valid reports whether op is a supported split operation.
func (op SplitOperation) Valid() bool {
	return op == SplitEqual || op == SplitExact
}

// Expense is a payment made by one group member on behalf of the group.
// It is written together with its shares and never modified afterwards.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Description string

	// PayerID is the user who paid the full amount.
	PayerID string

	// GroupID is the group the expense belongs to.
	GroupID string

	// TotalAmount is the full amount paid, in minor currency units.
	TotalAmount int64

	// Operation records how the total was split.
	Operation SplitOperation

	// IsSettled is always false; settlement is not implemented.
	IsSettled bool

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Share is the amount one non-payer member owes for one expense.
type Share struct {
	ExpenseID string
	UserID    string
	Amount    int64
}

// ExpenseWithGroup is an expense joined with its group name and shares,
// as read back for transaction history.
type ExpenseWithGroup struct {
	Expense
	GroupName string
	Shares    []Share
}
