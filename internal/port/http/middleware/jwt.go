package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/rental-service/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the JWT claims structure expected from the user-service.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates a Bearer token and stores the caller identity in the
// request context under CallerIDCtxKey.
func JWTAuth(jwtSecret string, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("JWTAuth: 'Authorization' header not found", "path", r.URL.Path)
				http.Error(w, "authorization token is not provided", http.StatusUnauthorized)
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("JWTAuth: invalid 'Authorization' header format, expected 'Bearer <token>'", "path", r.URL.Path)
				http.Error(w, "authorization token format is invalid, expected 'Bearer <token>'", http.StatusUnauthorized)
				return
			}
			tokenString := parts[1]
			if tokenString == "" {
				log.Warn("JWTAuth: token string is empty after 'Bearer' prefix", "path", r.URL.Path)
				http.Error(w, "authorization token is empty", http.StatusUnauthorized)
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil {
				log.Warn("JWTAuth: token parsing or validation failed", "path", r.URL.Path, "error", err.Error())
				if err == jwt.ErrTokenExpired {
					http.Error(w, "token has expired", http.StatusUnauthorized)
					return
				}
				http.Error(w, "token is invalid", http.StatusUnauthorized)
				return
			}
			if !token.Valid {
				log.Warn("JWTAuth: token is not valid", "path", r.URL.Path)
				http.Error(w, "token is not valid", http.StatusUnauthorized)
				return
			}
			if claims.UserID == "" {
				log.Warn("JWTAuth: UserID not found in token claims", "path", r.URL.Path)
				http.Error(w, "UserID not found in token claims", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), CallerIDCtxKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID extracts the authenticated caller identity placed into the
// context by JWTAuth. The second return value reports whether it is present.
func CallerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CallerIDCtxKey).(string)
	return id, ok
}
