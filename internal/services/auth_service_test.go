package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdesk/internal/apiclient"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
	"taskdesk/internal/services"
	"taskdesk/testutil"
)

func TestLogin(t *testing.T) {
	srv, _ := testutil.SetupMockServer(t)
	auth := services.NewAuthService(apiclient.New(srv.URL, 5*time.Second))
	ctx := context.Background()

	t.Run("admin matches by username", func(t *testing.T) {
		s, err := auth.Login(ctx, "admin", "Admin123")
		require.NoError(t, err)
		assert.Equal(t, models.Session{Role: models.RoleAdmin, Username: "admin"}, s)
	})

	t.Run("admin username is case-sensitive", func(t *testing.T) {
		_, err := auth.Login(ctx, "ADMIN", "Admin123")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("user email ignores case", func(t *testing.T) {
		s, err := auth.Login(ctx, "John@Example.com", "Password1")
		require.NoError(t, err)
		assert.Equal(t, models.Session{Role: models.RoleUser, ID: 1, Name: "John Doe", Email: "john@example.com"}, s)
	})

	t.Run("password must match exactly", func(t *testing.T) {
		_, err := auth.Login(ctx, "john@example.com", "password1")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("no match", func(t *testing.T) {
		s, err := auth.Login(ctx, "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		assert.Equal(t, models.RoleIdle, s.Role)
	})
}

func TestLogin_UpstreamFailure(t *testing.T) {
	srv := testutil.SetupFailingServer(t)
	auth := services.NewAuthService(apiclient.New(srv.URL, 5*time.Second))

	_, err := auth.Login(context.Background(), "admin", "Admin123")
	require.Error(t, err)
	assert.False(t, errors.Is(err, services.ErrInvalidCredentials))
	var apiErr *apiclient.APIError
	assert.ErrorAs(t, err, &apiErr)
}

func TestRegister(t *testing.T) {
	srv, store := testutil.SetupMockServer(t)
	auth := services.NewAuthService(apiclient.New(srv.URL, 5*time.Second))
	ctx := context.Background()

	t.Run("new user", func(t *testing.T) {
		u, err := auth.Register(ctx, models.RegisterForm{Name: "Kim", Email: "kim@example.com", Password: "Secret1"})
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Empty(t, u.Password)

		email := "kim@example.com"
		users, err := store.ListUsers(ctx, repositories.UserFilter{Email: &email})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "Secret1", users[0].Password)
	})

	t.Run("duplicate detected by lower-cased email", func(t *testing.T) {
		_, err := auth.Register(ctx, models.RegisterForm{Name: "Jane", Email: "JANE@example.com", Password: "Secret1"})
		assert.ErrorIs(t, err, services.ErrEmailTaken)
	})
}

func TestRegister_UpstreamFailure(t *testing.T) {
	srv := testutil.SetupFailingServer(t)
	auth := services.NewAuthService(apiclient.New(srv.URL, 5*time.Second))

	_, err := auth.Register(context.Background(), models.RegisterForm{Name: "Kim", Email: "kim@example.com", Password: "Secret1"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, services.ErrEmailTaken))
}
