package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/phototrack/attendance-backend-go/internal/domain/auth"
	"github.com/phototrack/attendance-backend-go/internal/handler/http/response"
	"github.com/phototrack/attendance-backend-go/internal/pkg/jwt"
)

// AuthRequired rejects requests whose token is missing, malformed, not an
// access token, or sitting on the revocation blacklist. It assumes
// jwtauth.Verifier already ran.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			revoked, err := jwtService.IsTokenRevoked(r.Context(), jwtauth.TokenFromHeader(r))
			if err != nil || revoked {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
