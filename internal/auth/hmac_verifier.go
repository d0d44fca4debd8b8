package auth

import (
	"errors"
	"log/slog"

	"launchit/internal/domain"
	"launchit/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// SecretJWTVerifier implements JWTVerifier for projects that sign tokens
// with the legacy shared JWT secret (HS256).
type SecretJWTVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewSecretJWTVerifier creates a verifier for HS256 tokens signed with secret
func NewSecretJWTVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &SecretJWTVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken validates an HS256 token and extracts Supabase claims
func (v *SecretJWTVerifier) VerifyToken(tokenString string) (*models.SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.SupabaseClaims{},
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		v.logger.Debug("token parse failed", "error", err)
		return nil, domain.ErrUnauthorized
	}

	return checkClaims(token, v.logger)
}

// Close is a no-op
func (v *SecretJWTVerifier) Close() error {
	return nil
}
