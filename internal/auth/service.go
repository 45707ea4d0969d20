// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	Create(
		ctx context.Context,
		name, email, passwordHash, role string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type TokenIssuer interface {
	CreateAccessToken(userID string) (string, time.Time, error)
}

type Service struct {
	tokens       TokenIssuer
	userProvider UserProvider
}

func NewService(tokens TokenIssuer, userProvider UserProvider) *Service {
	return &Service{
		tokens:       tokens,
		userProvider: userProvider,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.userProvider.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.userProvider.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.issue(user)
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	user, err := s.CreateAccount(ctx, req, middleware.RoleUser)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// CreateAccount hashes the password and persists a new account with the
// given role. Registration always passes RoleUser; admins are provisioned
// out of band.
func (s *Service) CreateAccount(
	ctx context.Context,
	req RegisterRequest,
	role string,
) (*UserInfo, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userProvider.Create(ctx, req.Name, req.Email, passwordHash, role)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *Service) issue(user *UserInfo) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.CreateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &AuthResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
	}, nil
}
