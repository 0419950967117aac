package service

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rakurank/rakurank_api/internal/config"
	"github.com/rakurank/rakurank_api/internal/utils"
)

// AdminAuthService authenticates the single operator account configured
// through the environment. There is no user table; sync triggers and catalog
// reloads are the only protected surface.
type AdminAuthService struct {
	email        string
	passwordHash string
}

func NewAdminAuthService(cfg config.AdminConfig) *AdminAuthService {
	return &AdminAuthService{
		email:        cfg.Email,
		passwordHash: cfg.PasswordHash,
	}
}

// Enabled reports whether an operator account is configured at all.
func (s *AdminAuthService) Enabled() bool {
	return s.email != "" && s.passwordHash != ""
}

func (s *AdminAuthService) Login(email, password string) (string, error) {
	log.Debug().Str("email", email).Msg("Login attempt")

	if !s.Enabled() {
		log.Warn().Msg("Admin login attempted but no operator account is configured")
		return "", utils.ErrInvalidCredentials
	}

	if email != s.email {
		log.Warn().Str("email", email).Msg("Unknown operator email")
		return "", utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	log.Info().Str("email", email).Msg("Login successful")

	return utils.GenerateJWT(email)
}
