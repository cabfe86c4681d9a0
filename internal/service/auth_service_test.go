package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/receipts/internal/auth"
	"github.com/mmynk/receipts/internal/models"
)

func TestAuthService_RegisterAuthorizeResolve(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, "Jo", "jo1", "pw")
	require.NoError(t, err)
	assert.Equal(t, "jo1", user.Login)

	token, err := env.auth.Authorize(ctx, "jo1", "pw")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	login, err := env.jwt.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "jo1", login, "token subject is the login")

	resolved, err := env.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "Jo", resolved.Username)
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("second registration conflicts", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.auth.Register(ctx, "Jo", "jo1", "pw")
		require.NoError(t, err)

		_, err = env.auth.Register(ctx, "Jo", "jo1", "pw")
		assert.ErrorIs(t, err, models.ErrLoginExists)
	})

	t.Run("concurrent registrations: one success", func(t *testing.T) {
		env := setupTestEnv(t)
		const attempts = 8
		errs := make([]error, attempts)

		var wg sync.WaitGroup
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.auth.Register(ctx, "Jo", "same-login", "pw")
			}(i)
		}
		wg.Wait()

		successes := 0
		for _, err := range errs {
			if err == nil {
				successes++
				continue
			}
			assert.ErrorIs(t, err, models.ErrLoginExists)
		}
		assert.Equal(t, 1, successes)
	})

	t.Run("missing fields are validation errors", func(t *testing.T) {
		env := setupTestEnv(t)
		_, err := env.auth.Register(ctx, "", "jo1", "pw")
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = env.auth.Register(ctx, "Jo", "", "pw")
		assert.ErrorIs(t, err, models.ErrValidation)
		_, err = env.auth.Register(ctx, "Jo", "jo1", "")
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestAuthService_Authorize(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, "Jo", "jo1", "pw")
	require.NoError(t, err)

	_, err = env.auth.Authorize(ctx, "jo1", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = env.auth.Authorize(ctx, "wronglogin", "pw")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_Resolve(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		_, err := env.auth.Resolve(ctx, "garbage")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("valid signature, unknown subject", func(t *testing.T) {
		token, err := env.jwt.Generate(&models.User{Login: "ghost"})
		require.NoError(t, err)

		_, err = env.auth.Resolve(ctx, token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := env.auth.Register(ctx, "Jo", "jo1", "pw")
		require.NoError(t, err)

		short := auth.NewJWTManager("test-secret", -time.Minute)
		token, err := short.Generate(&models.User{Login: "jo1"})
		require.NoError(t, err)

		_, err = env.auth.Resolve(ctx, token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
