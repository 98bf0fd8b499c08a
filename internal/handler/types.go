package handler

import (
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/service"
)

// Envelope is the body of every successful JSON response.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed request. Field and UserID
// identify the offending input when known.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	UserID  string `json:"user_id,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	Data    UserResponse `json:"data"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	Data  UserResponse `json:"data"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type GroupResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Members     []UserResponse `json:"members,omitempty"`
}

type AssignUsersRequest struct {
	UserIDs []string `json:"user_ids"`
}

type AssignUsersResponse struct {
	Added int `json:"added"`
}

type ExactAmount struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// AddExpenseRequest amounts are integer minor currency units.
type AddExpenseRequest struct {
	GroupID      string        `json:"group_id"`
	Description  string        `json:"description"`
	TotalAmount  int64         `json:"total_amount"`
	Operation    string        `json:"expense_operation"`
	ExactAmounts []ExactAmount `json:"exact_amounts"`
}

type ShareResponse struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

type ExpenseResponse struct {
	ID           string          `json:"id"`
	GroupID      string          `json:"group_id"`
	GroupName    string          `json:"group_name,omitempty"`
	Description  string          `json:"description"`
	PaidBy       string          `json:"paid_by"`
	TotalAmount  int64           `json:"total_amount"`
	Operation    string          `json:"expense_operation"`
	IsSettled    bool            `json:"is_settled"`
	CreatedAt    int64           `json:"created_at"`
	Shares       []ShareResponse `json:"shares"`
	PayerPortion *int64          `json:"payer_portion,omitempty"`
}

type TransactionResponse struct {
	ExpenseID      string `json:"expense_id"`
	CreatedAt      string `json:"created_at"`
	Description    string `json:"description"`
	TotalAmount    int64  `json:"total_amount"`
	GroupName      string `json:"group_name"`
	PendingAmounts int64  `json:"pending_amounts"`
}

type PositionResponse struct {
	TotalPaid int64 `json:"total_paid"`
	Lent      int64 `json:"lent"`
	Owed      int64 `json:"owed"`
	Net       int64 `json:"net"`
}

type TransactionsResponse struct {
	Message string                `json:"message"`
	Data    []TransactionResponse `json:"data"`
	Summary PositionResponse      `json:"summary"`
}

func toUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func toGroupResponse(g *models.Group, members []*models.User) GroupResponse {
	resp := GroupResponse{ID: g.ID, Name: g.Name, Description: g.Description}
	for _, m := range members {
		resp.Members = append(resp.Members, toUserResponse(m))
	}
	return resp
}

func toShareResponses(shares []models.Share) []ShareResponse {
	out := make([]ShareResponse, len(shares))
	for i, s := range shares {
		out[i] = ShareResponse{UserID: s.UserID, Amount: s.Amount}
	}
	return out
}

func toExpenseResponse(e models.ExpenseWithGroup) ExpenseResponse {
	return ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		GroupName:   e.GroupName,
		Description: e.Description,
		PaidBy:      e.PayerID,
		TotalAmount: e.TotalAmount,
		Operation:   string(e.Operation),
		IsSettled:   e.IsSettled,
		CreatedAt:   e.CreatedAt,
		Shares:      toShareResponses(e.Shares),
	}
}

func toTransactionsResponse(r *service.TransactionReport) TransactionsResponse {
	resp := TransactionsResponse{
		Message: "Success",
		Data:    make([]TransactionResponse, len(r.Transactions)),
		Summary: PositionResponse{
			TotalPaid: r.Position.TotalPaid,
			Lent:      r.Position.Lent,
			Owed:      r.Position.Owed,
			Net:       r.Position.Net,
		},
	}
	for i, t := range r.Transactions {
		resp.Data[i] = TransactionResponse{
			ExpenseID:      t.ExpenseID,
			CreatedAt:      t.Date,
			Description:    t.Description,
			TotalAmount:    t.TotalAmount,
			GroupName:      t.GroupName,
			PendingAmounts: t.PendingAmount,
		}
	}
	return resp
}

func toShareAmounts(in []ExactAmount) []calculator.ShareAmount {
	out := make([]calculator.ShareAmount, len(in))
	for i, a := range in {
		out[i] = calculator.ShareAmount{UserID: a.UserID, Amount: a.Amount}
	}
	return out
}
