package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/phototrack/attendance-backend-go/internal/domain/admin"
	"github.com/phototrack/attendance-backend-go/internal/domain/auth"
	"github.com/phototrack/attendance-backend-go/internal/pkg/jwt"
)

// Default credentials seeded on first boot. Meant to be changed immediately
// in any real deployment.
const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
	defaultAdminEmail    = "admin@attendance.com"
	defaultAdminRole     = "admin"
)

type AuthServiceImpl struct {
	admins admin.Repository
	tokens jwt.Service
}

func NewService(admins admin.Repository, tokens jwt.Service) auth.Service {
	return &AuthServiceImpl{
		admins: admins,
		tokens: tokens,
	}
}

// Login implements auth.Service.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	account, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, admin.ErrAdminNotFound) {
			// Same error as a bad password, so the response does not leak
			// which usernames exist.
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(account.Username, account.Email, account.Role)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: auth.UserInfo{
			Username: account.Username,
			Email:    account.Email,
			Role:     account.Role,
		},
	}, nil
}

// Verify implements auth.Service.
func (s *AuthServiceImpl) Verify(ctx context.Context, tokenString string) (auth.UserInfo, error) {
	token, err := s.tokens.Decode(tokenString)
	if err != nil {
		return auth.UserInfo{}, auth.ErrInvalidToken
	}

	revoked, err := s.tokens.IsTokenRevoked(ctx, tokenString)
	if err != nil {
		return auth.UserInfo{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return auth.UserInfo{}, auth.ErrTokenRevoked
	}

	return auth.UserInfo{
		Username: stringClaim(token.PrivateClaims(), "username"),
		Email:    stringClaim(token.PrivateClaims(), "email"),
		Role:     stringClaim(token.PrivateClaims(), "role"),
	}, nil
}

// Logout implements auth.Service.
func (s *AuthServiceImpl) Logout(ctx context.Context, tokenString string) error {
	if err := s.tokens.RevokeToken(ctx, tokenString); err != nil {
		return auth.ErrInvalidToken
	}
	return nil
}

// EnsureDefaultAdmin implements auth.Service.
func (s *AuthServiceImpl) EnsureDefaultAdmin(ctx context.Context) error {
	_, err := s.admins.FindByUsername(ctx, defaultAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, admin.ErrAdminNotFound) {
		return fmt.Errorf("failed to look up default admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	_, err = s.admins.Create(ctx, admin.Admin{
		Username:     defaultAdminUsername,
		PasswordHash: string(hash),
		Email:        defaultAdminEmail,
		Role:         defaultAdminRole,
	})
	if err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}

	slog.Info("Seeded default admin account", "username", defaultAdminUsername)
	return nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
