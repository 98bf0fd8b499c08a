// Package handler exposes the ledger services as a JSON HTTP API.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/middleware"
	"github.com/mmynk/groupledger/internal/service"
)

// Handler serves the ledger's HTTP routes.
type Handler struct {
	auth         *service.AuthService
	groups       *service.GroupService
	expenses     *service.ExpenseService
	transactions *service.TransactionService
}

// New creates a Handler over the given services.
func New(
	authService *service.AuthService,
	groups *service.GroupService,
	expenses *service.ExpenseService,
	transactions *service.TransactionService,
) *Handler {
	return &Handler{
		auth:         authService,
		groups:       groups,
		expenses:     expenses,
		transactions: transactions,
	}
}

// NewRouter builds the echo instance with every route registered.
// metricsHandler is mounted at /metrics when non-nil.
func NewRouter(h *Handler, jwtManager *auth.JWTManager, m *metrics.Metrics, metricsHandler http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestLogger(m))
	e.Use(echomw.Recover())

	e.GET("/healthz", h.Health)
	if metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	requireAuth := middleware.RequireAuth(jwtManager)
	e.GET("/me", h.Me, requireAuth)
	e.POST("/groups", h.CreateGroup, requireAuth)
	e.GET("/groups/:id", h.GetGroup, requireAuth)
	e.POST("/groups/:id/assign-user", h.AssignUsers, requireAuth)
	e.GET("/groups/:id/expenses", h.ListGroupExpenses, requireAuth)
	e.POST("/expenses", h.AddExpense, requireAuth)
	e.GET("/users/transactions", h.GetTransactions, requireAuth)

	return e
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// bind decodes the JSON body, reporting malformed input as a 400.
func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}
	return nil
}

func callerID(c echo.Context) string {
	return middleware.GetUserID(c.Request().Context())
}
