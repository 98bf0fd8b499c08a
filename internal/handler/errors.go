package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/calculator"
	"github.com/mmynk/groupledger/internal/service"
)

// ErrorHandler renders every handler error as an ErrorResponse.
// It is installed as the echo HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		slog.Error("Failed to write error response", "error", err)
	}
}

func classify(err error) (int, ErrorResponse) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, ErrorResponse{Message: fmt.Sprint(httpErr.Message)}
	}

	var notMember *calculator.UserNotInGroupError
	if errors.As(err, &notMember) {
		return http.StatusBadRequest, ErrorResponse{
			Message: fmt.Sprintf("Invalid user_id %s or user not in the group", notMember.UserID),
			UserID:  notMember.UserID,
		}
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: err.Error()}

	case errors.Is(err, calculator.ErrAmountMismatch):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error(), Field: "exact_amounts"}
	case errors.Is(err, calculator.ErrInvalidParticipant):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error(), Field: "exact_amounts"}
	case errors.Is(err, calculator.ErrInvalidOperation):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error(), Field: "expense_operation"}
	case errors.Is(err, calculator.ErrInvalidAmount):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error(), Field: "total_amount"}
	case errors.Is(err, calculator.ErrInvalidDateRange):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error(), Field: "start_date"}
	case errors.Is(err, service.ErrNoValidUsers):
		return http.StatusBadRequest, ErrorResponse{Message: "No valid users found", Field: "user_ids"}
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, ErrorResponse{Message: err.Error()}

	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict, ErrorResponse{Message: "User already exists"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials"}
	case errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Message: err.Error()}
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: err.Error()}
	}

	// Persistence failures and anything unclassified stay opaque
	return http.StatusInternalServerError, ErrorResponse{Message: "internal server error"}
}
