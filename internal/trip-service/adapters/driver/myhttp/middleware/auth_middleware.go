package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"bus-tracking/internal/trip-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

// ActorMiddleware lifts the already-verified actor identity out of the
// bearer token into request headers. Authentication itself lives with the
// portal collaborator; this only checks the shared-secret signature and an
// optional role gate.
type ActorMiddleware struct {
	accessSecret string
}

func NewActorMiddleware(accessSecret string) *ActorMiddleware {
	return &ActorMiddleware{
		accessSecret: accessSecret,
	}
}

func (am *ActorMiddleware) Wrap(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("empty bearer token"))
				return
			}
			tokenString = strings.TrimPrefix(tokenString, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				return []byte(am.accessSecret), nil
			})
			if err != nil || !token.Valid {
				handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid bearer token"))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("invalid claims"))
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("actor id not found in token"))
				return
			}

			role, ok := claims["role"].(string)
			if !ok {
				handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("role not found in token"))
				return
			}

			if len(roles) > 0 && !containsRole(roles, role) {
				handle.JsonError(w, http.StatusForbidden, fmt.Errorf("role %s not allowed here", role))
				return
			}

			r.Header.Set("X-UserId", userID)
			r.Header.Set("X-Role", role)

			next.ServeHTTP(w, r)
		})
	}
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
