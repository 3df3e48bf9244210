package jwt

import (
	"context"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(username string, email string, role string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	Decode(tokenString string) (jwt.Token, error)
	RevokeToken(ctx context.Context, tokenString string) error
	IsTokenRevoked(ctx context.Context, tokenString string) (bool, error)
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	blacklist                 Blacklist
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, blacklist Blacklist) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		blacklist:                 blacklist,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(username string, email string, role string) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"jti":      uuid.NewString(),
		"username": username,
		"email":    email,
		"role":     role,
		"type":     "access",
		"exp":      expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// Decode verifies the signature and standard claims of a raw token string.
func (j *JWTService) Decode(tokenString string) (jwt.Token, error) {
	return jwtauth.VerifyToken(j.tokenAuth, tokenString)
}

// RevokeToken blacklists the token's jti until the token would have expired
// on its own.
func (j *JWTService) RevokeToken(ctx context.Context, tokenString string) error {
	token, err := j.Decode(tokenString)
	if err != nil {
		return err
	}

	ttl := time.Until(token.Expiration())
	if ttl <= 0 {
		return nil
	}

	return j.blacklist.Revoke(ctx, token.JwtID(), ttl)
}

func (j *JWTService) IsTokenRevoked(ctx context.Context, tokenString string) (bool, error) {
	token, err := j.Decode(tokenString)
	if err != nil {
		return false, err
	}
	return j.blacklist.IsRevoked(ctx, token.JwtID())
}
