// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const IdentityKey contextKey = "identity"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID string
}

// Identity is the account attached to an authenticated request. It never
// carries the password hash.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// IdentityLoader resolves the subject of a verified token to its current
// account. It returns core.ErrNotFound when the account no longer exists.
type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID string) (*Identity, error)
}

func Authenticator(
	verifier TokenVerifier,
	loader IdentityLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("not authorized, no token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			identity, err := loader.LoadIdentity(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(
						w,
						core.UnauthorizedError("not authorized, user not found"),
					)
					return
				}
				core.InternalServerError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole admits requests whose identity role is in the allow-set.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())

			if identity == nil {
				core.JSONError(
					w,
					core.UnauthorizedError("not authorized"),
				)
				return
			}

			if _, ok := roleSet[identity.Role]; !ok {
				core.JSONError(
					w,
					core.ForbiddenError(fmt.Sprintf(
						"user role %s is not authorized to access this route",
						identity.Role,
					)),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	if errors.Is(err, core.ErrTokenExpired) {
		core.JSONError(w, core.TokenExpiredError())
		return
	}

	core.JSONError(w, core.TokenInvalidError())
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.ID
	}
	return ""
}

func GetUserRole(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.Role
	}
	return ""
}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
