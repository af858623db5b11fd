package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnect/backend/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	s, err := NewMemoryUserService("")
	require.NoError(t, err)
	ctx := context.Background()

	user, err := s.Register(ctx, &models.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.Contains(t, user.Avatar, "gravatar.com/avatar/")

	logged, err := s.Login(ctx, &models.LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s, err := NewMemoryUserService("")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Register(ctx, &models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = s.Register(ctx, &models.RegisterRequest{
		Name: "Other Alice", Email: "alice@example.com", Password: "different1",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginFailures(t *testing.T) {
	s, err := NewMemoryUserService("")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Register(ctx, &models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	_, err = s.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.Login(ctx, &models.LoginRequest{Email: "alice@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestGravatarURLNormalizesEmail(t *testing.T) {
	a := GravatarURL("Alice@Example.com ")
	b := GravatarURL("alice@example.com")
	assert.Equal(t, a, b)
}

func TestUserSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewMemoryUserService(dir)
	require.NoError(t, err)
	user, err := s1.Register(context.Background(), &models.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	require.NoError(t, err)

	// A fresh service over the same dir sees the persisted account.
	s2, err := NewMemoryUserService(dir)
	require.NoError(t, err)
	loaded, err := s2.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", loaded.Email)
}
