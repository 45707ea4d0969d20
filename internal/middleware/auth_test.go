// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

type stubVerifier struct {
	userID string
	err    error
}

func (s stubVerifier) VerifyAccessToken(context.Context, string) (*AccessTokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &AccessTokenClaims{UserID: s.userID}, nil
}

type stubLoader map[string]*Identity

func (s stubLoader) LoadIdentity(_ context.Context, id string) (*Identity, error) {
	if identity, ok := s[id]; ok {
		return identity, nil
	}
	return nil, fmt.Errorf("load identity: %w", core.ErrNotFound)
}

var loader = stubLoader{
	"u-1": {ID: "u-1", Name: "Ada", Role: RoleUser},
	"a-1": {ID: "a-1", Name: "Root", Role: RoleAdmin},
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	identity := GetIdentity(r.Context())
	core.OK(w, map[string]string{"id": identity.ID, "role": identity.Role})
}

func serveAuth(t *testing.T, h http.Handler, header string) (*httptest.ResponseRecorder, core.ErrorResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body core.ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func TestAuthenticator(t *testing.T) {
	tests := []struct {
		name     string
		verifier stubVerifier
		header   string
		status   int
		code     string
		message  string
	}{
		{"no token", stubVerifier{}, "", http.StatusUnauthorized, "UNAUTHORIZED", "not authorized, no token"},
		{"wrong scheme", stubVerifier{}, "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED", "not authorized, no token"},
		{"expired", stubVerifier{err: core.ErrTokenExpired}, "Bearer t", http.StatusUnauthorized, "TOKEN_EXPIRED", "not authorized, token expired"},
		{"invalid", stubVerifier{err: errors.New("bad sig")}, "Bearer t", http.StatusUnauthorized, "TOKEN_INVALID", "not authorized, token failed"},
		{"deleted user", stubVerifier{userID: "gone"}, "Bearer t", http.StatusUnauthorized, "UNAUTHORIZED", "not authorized, user not found"},
		{"valid", stubVerifier{userID: "u-1"}, "bearer t", http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Authenticator(tt.verifier, loader)(http.HandlerFunc(echoIdentity))

			rec, body := serveAuth(t, h, tt.header)

			assert.Equal(t, tt.status, rec.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, body.Error.Code)
				assert.Equal(t, tt.message, body.Error.Message)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	chain := func(userID string) http.Handler {
		return Authenticator(stubVerifier{userID: userID}, loader)(
			RequireAdmin(http.HandlerFunc(echoIdentity)),
		)
	}

	rec, body := serveAuth(t, chain("u-1"), "Bearer t")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "user role user is not authorized to access this route", body.Error.Message)

	rec, _ = serveAuth(t, chain("a-1"), "Bearer t")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_WithoutIdentity(t *testing.T) {
	rec, _ := serveAuth(t, RequireRole(RoleUser)(http.HandlerFunc(echoIdentity)), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer   abc.def ")
	assert.Equal(t, "abc.def", ExtractToken(req))
}
