package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"matchmaking_server/models"
	"matchmaking_server/services"
	"matchmaking_server/utils"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const userIDKey contextKey = "userId"

// UserIDFromContext returns the internal user id set by Auth.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// WithUserID stores an internal user id in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// Auth validates the Bearer token, resolves its subject to an internal user
// id through directory and stores it in the request context.
func Auth(secret []byte, directory services.UserDirectory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := subjectFromRequest(r, secret)
			if err != nil {
				log.Printf("❌ Rejected token: %v", err)
				utils.RespondError(w, http.StatusUnauthorized, "Invalid or missing token")
				return
			}

			userID, err := directory.Resolve(r.Context(), subject)
			if errors.Is(err, models.ErrNotLinked) {
				utils.RespondError(w, http.StatusForbidden, "No profile linked to this account")
				return
			}
			if err != nil {
				log.Printf("❌ Failed to resolve %s: %v", subject, err)
				utils.RespondError(w, http.StatusInternalServerError, "Failed to resolve user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// subjectFromRequest parses the Authorization header and returns the token's sub claim.
func subjectFromRequest(r *http.Request, secret []byte) (string, error) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("authorization header must be: Bearer <token>")
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
