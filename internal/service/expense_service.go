package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/events"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// AddExpenseInput is a request to record one expense in a group.
type AddExpenseInput struct {
	GroupID      string
	PayerID      string
	Description  string
	TotalAmount  int64
	Operation    models.SplitOperation
	ExactAmounts []calculator.ShareAmount
}

// ExpenseResult is a committed expense with its shares.
type ExpenseResult struct {
	Expense      *models.Expense
	Shares       []models.Share
	PayerPortion int64
}

// ExpenseService records expenses.
type ExpenseService struct {
	store     storage.ExpenseStore
	resolver  *MembershipResolver
	publisher events.Publisher
	metrics   *metrics.Metrics
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store storage.ExpenseStore, resolver *MembershipResolver, publisher events.Publisher, m *metrics.Metrics) *ExpenseService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	return &ExpenseService{
		store:     store,
		resolver:  resolver,
		publisher: publisher,
		metrics:   m,
	}
}

// AddExpense validates the request against the group's current members,
// computes the participant shares and writes the expense with all shares in
// one transaction. Validation failures write nothing.
func (s *ExpenseService) AddExpense(ctx context.Context, in AddExpenseInput) (*ExpenseResult, error) {
	slog.Info("AddExpense request received",
		"group_id", in.GroupID,
		"payer_id", in.PayerID,
		"total", in.TotalAmount,
		"operation", in.Operation,
	)

	result, err := s.addExpense(ctx, in)
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			s.metrics.ExpenseRejections.WithLabelValues(reason).Inc()
		}
		slog.Warn("AddExpense failed", "group_id", in.GroupID, "error", err)
		return nil, err
	}

	s.metrics.ExpensesCreated.WithLabelValues(string(result.Expense.Operation)).Inc()
	s.publish(ctx, result)

	slog.Info("Expense created",
		"expense_id", result.Expense.ID,
		"group_id", result.Expense.GroupID,
		"shares", len(result.Shares),
		"payer_portion", result.PayerPortion,
	)
	return result, nil
}

func (s *ExpenseService) addExpense(ctx context.Context, in AddExpenseInput) (*ExpenseResult, error) {
	if in.PayerID == "" {
		return nil, ErrUnauthorized
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if in.GroupID == "" {
		return nil, fmt.Errorf("%w: group_id is required", ErrInvalidInput)
	}

	members, err := s.resolver.MemberIDs(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	shares, err := calculator.CalculateShares(calculator.SplitRequest{
		Total:        in.TotalAmount,
		Operation:    in.Operation,
		PayerID:      in.PayerID,
		Members:      members,
		ExactAmounts: in.ExactAmounts,
	})
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description: description,
		PayerID:     in.PayerID,
		GroupID:     in.GroupID,
		TotalAmount: in.TotalAmount,
		Operation:   in.Operation,
	}
	rows := make([]models.Share, len(shares))
	for i, sh := range shares {
		rows[i] = models.Share{UserID: sh.UserID, Amount: sh.Amount}
	}

	if err := s.store.CreateExpense(ctx, expense, rows); err != nil {
		return nil, fmt.Errorf("%w: create expense: %v", ErrPersistence, err)
	}

	return &ExpenseResult{
		Expense:      expense,
		Shares:       rows,
		PayerPortion: calculator.PayerPortion(in.TotalAmount, shares),
	}, nil
}

// publish emits ExpenseCreated. The expense is already committed, so a
// broker failure is logged and counted but never returned.
func (s *ExpenseService) publish(ctx context.Context, r *ExpenseResult) {
	evt := events.ExpenseCreated{
		ExpenseID:   r.Expense.ID,
		GroupID:     r.Expense.GroupID,
		PayerID:     r.Expense.PayerID,
		Description: r.Expense.Description,
		TotalAmount: r.Expense.TotalAmount,
		Operation:   string(r.Expense.Operation),
		Shares:      make([]events.ShareEvent, len(r.Shares)),
		CreatedAt:   r.Expense.CreatedAt,
	}
	for i, sh := range r.Shares {
		evt.Shares[i] = events.ShareEvent{UserID: sh.UserID, Amount: sh.Amount}
	}

	if err := s.publisher.PublishExpenseCreated(ctx, evt); err != nil {
		s.metrics.EventPublishFailures.Inc()
		slog.Error("Failed to publish expense event", "expense_id", r.Expense.ID, "error", err)
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, calculator.ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, calculator.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, calculator.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, calculator.ErrUserNotInGroup):
		return "user_not_in_group"
	case errors.Is(err, calculator.ErrInvalidParticipant):
		return "invalid_participant"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	}
	return ""
}
