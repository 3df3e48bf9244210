package auth

import "context"

// Service defines admin authentication.
type Service interface {
	// Login checks credentials and issues an access token.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Verify validates a raw token string and returns the identity it
	// carries. Revoked tokens fail with ErrTokenRevoked.
	Verify(ctx context.Context, token string) (UserInfo, error)

	// Logout blacklists the token until its natural expiry.
	Logout(ctx context.Context, token string) error

	// EnsureDefaultAdmin seeds the initial admin account when none exists.
	EnsureDefaultAdmin(ctx context.Context) error
}
