package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UTarts/cardiff-healthcare/internal/auth"
	"github.com/UTarts/cardiff-healthcare/internal/domain"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

// AuthService signs administrators in and out.
type AuthService struct {
	authenticator auth.Authenticator
	logger        *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(a auth.Authenticator, logger *slog.Logger) *AuthService {
	return &AuthService{authenticator: a, logger: logger}
}

// Login exchanges credentials for a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.InvalidInput("email and password are required")
	}

	session, err := s.authenticator.SignIn(ctx, email, password)
	if err != nil {
		s.logger.WarnContext(ctx, "sign-in failed",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("sign in: %w", err)
	}

	s.logger.InfoContext(ctx, "administrator signed in", slog.String("user_id", session.User.ID))
	return session, nil
}

// Logout ends the session behind accessToken.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	if err := s.authenticator.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}
