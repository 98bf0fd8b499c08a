package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/service"
)

// AddExpense handles POST /expenses. The payer is always the caller.
func (h *Handler) AddExpense(c echo.Context) error {
	var req AddExpenseRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.expenses.AddExpense(c.Request().Context(), service.AddExpenseInput{
		GroupID:      req.GroupID,
		PayerID:      callerID(c),
		Description:  req.Description,
		TotalAmount:  req.TotalAmount,
		Operation:    models.SplitOperation(req.Operation),
		ExactAmounts: toShareAmounts(req.ExactAmounts),
	})
	if err != nil {
		return err
	}

	resp := toExpenseResponse(models.ExpenseWithGroup{Expense: *result.Expense, Shares: result.Shares})
	resp.PayerPortion = &result.PayerPortion
	return c.JSON(http.StatusCreated, Envelope{Message: "Expense added successfully", Data: resp})
}
