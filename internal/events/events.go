// Package events publishes ledger domain events to RabbitMQ.
package events

import (
	"context"
)

// RoutingKeyExpenseCreated is the routing key for ExpenseCreated events.
const RoutingKeyExpenseCreated = "expense.created"

// ShareEvent is one participant share inside an ExpenseCreated event.
type ShareEvent struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// ExpenseCreated is emitted after an expense and its shares are committed.
type ExpenseCreated struct {
	ExpenseID   string       `json:"expense_id"`
	GroupID     string       `json:"group_id"`
	PayerID     string       `json:"payer_id"`
	Description string       `json:"description"`
	TotalAmount int64        `json:"total_amount"`
	Operation   string       `json:"expense_operation"`
	Shares      []ShareEvent `json:"shares"`
	CreatedAt   int64        `json:"created_at"`
}

// Publisher delivers domain events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PublishExpenseCreated(ctx context.Context, evt ExpenseCreated) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishExpenseCreated(context.Context, ExpenseCreated) error { return nil }

func (NoopPublisher) Close() error { return nil }
