package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/UTarts/cardiff-healthcare/internal/domain"
	apperrors "github.com/UTarts/cardiff-healthcare/pkg/errors"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *mockAuthenticator) SignOut(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestAuthService_Login(t *testing.T) {
	a := new(mockAuthenticator)
	a.On("SignIn", mock.Anything, "admin@cardiff.example", "pw").
		Return(&domain.Session{AccessToken: "at", User: domain.User{ID: "u1"}}, nil)
	a.On("SignIn", mock.Anything, "admin@cardiff.example", "bad").
		Return(nil, apperrors.Unauthorized("invalid login credentials"))
	svc := NewAuthService(a, newTestLogger())

	s, err := svc.Login(context.Background(), " Admin@Cardiff.example ", "pw")
	require.NoError(t, err)
	assert.Equal(t, "at", s.AccessToken)

	_, err = svc.Login(context.Background(), "admin@cardiff.example", "bad")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.Login(context.Background(), "", "pw")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAuthService_Logout(t *testing.T) {
	a := new(mockAuthenticator)
	a.On("SignOut", mock.Anything, "at").Return(nil)
	svc := NewAuthService(a, newTestLogger())

	require.NoError(t, svc.Logout(context.Background(), "at"))
	a.AssertExpectations(t)
}
