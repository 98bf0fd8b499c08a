package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/events"
	"github.com/mmynk/groupledger/internal/metrics"
	"github.com/mmynk/groupledger/internal/service"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	resolver := service.NewMembershipResolver(store, store)
	h := New(
		service.NewAuthService(auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost), jwtManager, store, logger),
		service.NewGroupService(store, resolver),
		service.NewExpenseService(store, resolver, events.NoopPublisher{}, m),
		service.NewTransactionService(store),
	)

	return &testServer{t: t, e: NewRouter(h, jwtManager, m, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// signup registers and logs in a user, returning its ID and token.
func (s *testServer) signup(name string) (string, string) {
	s.t.Helper()

	rec := s.do(http.MethodPost, "/register", "", RegisterRequest{
		Name: name, Email: name + "@example.com", Phone: "555-" + name, Password: "password123",
	})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[RegisterResponse](s.t, rec)
	require.NotEmpty(s.t, registered.Token)

	// The registration token is immediately usable
	me := s.do(http.MethodGet, "/me", registered.Token, nil)
	require.Equal(s.t, http.StatusOK, me.Code, me.Body.String())

	rec = s.do(http.MethodPost, "/login", "", LoginRequest{Email: name + "@example.com", Password: "password123"})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.ID, resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type groupEnvelope struct {
	Message string        `json:"message"`
	Data    GroupResponse `json:"data"`
}

type expenseEnvelope struct {
	Message string          `json:"message"`
	Data    ExpenseResponse `json:"data"`
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = s.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ledger_http_request_duration_seconds")
}

func TestAuthEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.signup("alice")

	t.Run("duplicate registration", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/register", "", RegisterRequest{
			Name: "alice", Email: "alice@example.com", Phone: "555-other", Password: "password123",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/register", "", RegisterRequest{
			Name: "bob", Email: "bob@example.com", Phone: "555-bob", Password: "short",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/login", "", LoginRequest{Email: "alice@example.com", Password: "nope-nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected route without token", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/users/transactions", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString("{"))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExpenseFlow(t *testing.T) {
	s := newTestServer(t)
	aID, aTok := s.signup("a")
	bID, bTok := s.signup("b")
	cID, _ := s.signup("c")

	rec := s.do(http.MethodPost, "/groups", aTok, CreateGroupRequest{Name: "Trip", Description: "Lisbon"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	group := decode[groupEnvelope](t, rec).Data

	rec = s.do(http.MethodPost, "/groups/"+group.ID+"/assign-user", aTok, AssignUsersRequest{UserIDs: []string{bID, cID, bID}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("assigning again is a no-op", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/groups/"+group.ID+"/assign-user", aTok, AssignUsersRequest{UserIDs: []string{bID}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"added":0`)

		rec = s.do(http.MethodGet, "/groups/"+group.ID, aTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[groupEnvelope](t, rec).Data.Members, 3)
	})

	t.Run("no valid users", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/groups/"+group.ID+"/assign-user", aTok, AssignUsersRequest{UserIDs: []string{"ghost"}})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("assign to missing group", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/groups/missing/assign-user", aTok, AssignUsersRequest{UserIDs: []string{bID}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("empty list for missing group", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/groups/missing/assign-user", aTok, AssignUsersRequest{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("equal split", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/expenses", aTok, AddExpenseRequest{
			GroupID: group.ID, Description: "Dinner", TotalAmount: 90, Operation: "equal",
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		exp := decode[expenseEnvelope](t, rec).Data
		assert.Equal(t, aID, exp.PaidBy)
		require.Len(t, exp.Shares, 2)
		for _, sh := range exp.Shares {
			assert.Equal(t, int64(30), sh.Amount)
		}
		require.NotNil(t, exp.PayerPortion)
		assert.Equal(t, int64(30), *exp.PayerPortion)
	})

	t.Run("exact split", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/expenses", aTok, AddExpenseRequest{
			GroupID: group.ID, Description: "Hotel", TotalAmount: 90, Operation: "exact",
			ExactAmounts: []ExactAmount{{UserID: bID, Amount: 40}, {UserID: cID, Amount: 50}},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("exact split mismatch", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/expenses", aTok, AddExpenseRequest{
			GroupID: group.ID, Description: "Hotel", TotalAmount: 90, Operation: "exact",
			ExactAmounts: []ExactAmount{{UserID: bID, Amount: 40}, {UserID: cID, Amount: 40}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "exact_amounts", decode[ErrorResponse](t, rec).Field)
	})

	t.Run("exact split names a stranger", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/expenses", aTok, AddExpenseRequest{
			GroupID: group.ID, Description: "Hotel", TotalAmount: 90, Operation: "exact",
			ExactAmounts: []ExactAmount{{UserID: bID, Amount: 40}, {UserID: "stranger", Amount: 50}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "stranger", decode[ErrorResponse](t, rec).UserID)
	})

	t.Run("unknown group", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/expenses", aTok, AddExpenseRequest{
			GroupID: "missing", Description: "x", TotalAmount: 10, Operation: "equal",
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("group expenses", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/groups/"+group.ID+"/expenses", bTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Dinner")
		assert.Contains(t, rec.Body.String(), "Hotel")
	})

	t.Run("transactions", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/users/transactions", bTok, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		resp := decode[TransactionsResponse](t, rec)
		require.Len(t, resp.Data, 2)
		assert.Equal(t, "Dinner", resp.Data[0].Description)
		assert.Equal(t, int64(60), resp.Data[0].PendingAmounts)
		assert.Equal(t, int64(90), resp.Data[1].PendingAmounts)
		assert.Equal(t, int64(-70), resp.Summary.Net)
	})

	t.Run("transactions with only a start date", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/users/transactions?start_date=2024-01-01", bTok, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("transactions outside the window", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/users/transactions?start_date=2000-01-01&end_date=2000-01-31", bTok, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, string(mustField(t, rec, "data")))
	})
}

func mustField(t *testing.T, rec *httptest.ResponseRecorder, key string) json.RawMessage {
	t.Helper()

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	v, ok := raw[key]
	require.True(t, ok, "missing %q", key)
	return v
}
