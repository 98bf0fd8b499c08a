package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupledger/internal/auth"
	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/storage"
)

// RegisterInput carries a new account's profile and password.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Session is an authenticated user with a freshly issued token.
type Session struct {
	User  *models.User
	Token string
}

// AuthService registers users and issues tokens.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         storage.UserStore
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users storage.UserStore, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
		logger:        logger,
	}
}

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	s.logger.Info("Register request", "email", in.Email)

	// Validate input
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.Phone == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	user, err := s.authenticator.Register(ctx, auth.Registration{
		Name:  strings.TrimSpace(in.Name),
		Email: in.Email,
		Phone: in.Phone,
	}, in.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", in.Email, "error", err)
		if errors.Is(err, auth.ErrUserExists) || errors.Is(err, auth.ErrWeakPassword) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: register: %v", ErrPersistence, err)
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return session, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	s.logger.Info("Login request", "email", email)

	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := s.authenticator.Authenticate(ctx, strings.TrimSpace(strings.ToLower(email)), password)
	if err != nil {
		s.logger.Warn("Login failed", "email", email, "error", err)
		return nil, auth.ErrInvalidCredentials
	}

	session, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID)
	return session, nil
}

// CurrentUser returns the account behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "get user")
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
