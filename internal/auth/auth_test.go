package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage/sqlite"
)

func TestJWTManager(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	user := &models.User{ID: "user-1", Email: "alice@example.com"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID())
	assert.Equal(t, "alice@example.com", claims.Email)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired, err := NewJWTManager("test-secret", -time.Minute).Generate(user)
		require.NoError(t, err)
		_, err = m.Validate(expired)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject carries the user", func(t *testing.T) {
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, Issuer, claims.Issuer)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = m.Validate(foreign)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("user without ID", func(t *testing.T) {
		_, err := m.Generate(&models.User{Email: "x@example.com"})
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordAuthenticator(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	defer store.Close()

	a := NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	ctx := context.Background()
	reg := Registration{Name: "Alice", Email: "alice@example.com", Phone: "555-0100"}

	user, err := a.Register(ctx, reg, "correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	t.Run("weak password", func(t *testing.T) {
		_, err := a.Register(ctx, Registration{Name: "Bob", Email: "bob@example.com", Phone: "555-0101"}, "short")
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := a.Register(ctx, Registration{Name: "Eve", Email: "alice@example.com", Phone: "555-0199"}, "password123")
		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("authenticate", func(t *testing.T) {
		got, err := a.Authenticate(ctx, "alice@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "alice@example.com", "wrong password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "nobody@example.com", "correct horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
