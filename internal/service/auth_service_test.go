package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakurank/rakurank_api/internal/config"
	"github.com/rakurank/rakurank_api/internal/utils"
)

func TestAdminAuthService(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.AdminConfig{Email: "ops@example.jp", PasswordHash: string(hash)}

	t.Run("valid credentials yield a token", func(t *testing.T) {
		svc := NewAdminAuthService(cfg)
		token, err := svc.Login("ops@example.jp", "correct-horse")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := utils.ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.jp", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewAdminAuthService(cfg)
		_, err := svc.Login("ops@example.jp", "incorrect")
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc := NewAdminAuthService(cfg)
		_, err := svc.Login("nobody@example.jp", "correct-horse")
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})

	t.Run("unconfigured account disables login", func(t *testing.T) {
		svc := NewAdminAuthService(config.AdminConfig{})
		assert.False(t, svc.Enabled())
		_, err := svc.Login("ops@example.jp", "correct-horse")
		assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
	})
}
