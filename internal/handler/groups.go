package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CreateGroup handles POST /groups.
func (h *Handler) CreateGroup(c echo.Context) error {
	var req CreateGroupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	group, err := h.groups.CreateGroup(c.Request().Context(), callerID(c), req.Name, req.Description)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, Envelope{
		Message: "Group created successfully",
		Data:    toGroupResponse(group, nil),
	})
}

// GetGroup handles GET /groups/:id.
func (h *Handler) GetGroup(c echo.Context) error {
	details, err := h.groups.GetGroup(c.Request().Context(), callerID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{
		Message: "Success",
		Data:    toGroupResponse(details.Group, details.Members),
	})
}

// AssignUsers handles POST /groups/:id/assign-user.
func (h *Handler) AssignUsers(c echo.Context) error {
	var req AssignUsersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	added, err := h.groups.AssignUsers(c.Request().Context(), c.Param("id"), req.UserIDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, Envelope{
		Message: "Users assigned to the group successfully",
		Data:    AssignUsersResponse{Added: added},
	})
}

// ListGroupExpenses handles GET /groups/:id/expenses.
func (h *Handler) ListGroupExpenses(c echo.Context) error {
	expenses, err := h.groups.ListGroupExpenses(c.Request().Context(), callerID(c), c.Param("id"))
	if err != nil {
		return err
	}

	data := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		data[i] = toExpenseResponse(e)
	}
	return c.JSON(http.StatusOK, Envelope{Message: "Success", Data: data})
}
