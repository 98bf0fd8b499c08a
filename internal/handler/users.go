package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/groupledger/internal/service"
)

// Register handles POST /register. The response carries a session token
// so a new client does not need a separate login.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Message: "User registered successfully",
		Token:   session.Token,
		Data:    toUserResponse(session.User),
	})
}

// Login handles POST /login.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	session, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, LoginResponse{
		Token: session.Token,
		Data:  toUserResponse(session.User),
	})
}

// Me handles GET /me.
func (h *Handler) Me(c echo.Context) error {
	user, err := h.auth.CurrentUser(c.Request().Context(), callerID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Message: "Success", Data: toUserResponse(user)})
}

// GetTransactions handles GET /users/transactions.
func (h *Handler) GetTransactions(c echo.Context) error {
	report, err := h.transactions.GetTransactions(
		c.Request().Context(),
		callerID(c),
		c.QueryParam("start_date"),
		c.QueryParam("end_date"),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTransactionsResponse(report))
}
