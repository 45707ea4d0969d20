// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

type fakeUsers struct {
	byEmail       map[string]*UserInfo
	updatedHashes map[string]string
	createErr     error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail:       make(map[string]*UserInfo),
		updatedHashes: make(map[string]string),
	}
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	name, email, passwordHash, role string,
) (*UserInfo, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[email]; ok {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	u := &UserInfo{
		ID:           fmt.Sprintf("u-%d", len(f.byEmail)+1),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	f.byEmail[email] = u
	return u, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.updatedHashes[userID] = passwordHash
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) CreateAccessToken(userID string) (string, time.Time, error) {
	return "token-for-" + userID, time.Unix(1700000000, 0), nil
}

func TestRegister_HashesPasswordAndIssuesToken(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(fakeIssuer{}, users)

	resp, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "user", resp.Role)
	assert.Equal(t, "token-for-"+resp.ID, resp.Token)

	stored := users.byEmail["ada@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct horse", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(fakeIssuer{}, users)
	req := RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse"}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLogin(t *testing.T) {
	users := newFakeUsers()
	svc := NewService(fakeIssuer{}, users)

	_, err := svc.CreateAccount(context.Background(), RegisterRequest{
		Name:     "Admin",
		Email:    "admin@example.com",
		Password: "s3cret-pass",
	}, "admin")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid credentials", email: "admin@example.com", password: "s3cret-pass"},
		{name: "wrong password", email: "admin@example.com", password: "nope-nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "ghost@example.com", password: "s3cret-pass", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "admin", resp.Role)
			assert.Equal(t, "Bearer", resp.TokenType)
		})
	}
}

func TestLogin_UpgradesLegacyBcryptHash(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), 10)
	require.NoError(t, err)

	users := newFakeUsers()
	users.byEmail["old@example.com"] = &UserInfo{
		ID:           "u-legacy",
		Name:         "Old Timer",
		Email:        "old@example.com",
		PasswordHash: string(legacy),
		Role:         "user",
	}
	svc := NewService(fakeIssuer{}, users)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "old@example.com",
		Password: "legacy-pass",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(users.updatedHashes["u-legacy"], "$argon2id$"))
}

func TestCreateAccount_PropagatesStoreFailure(t *testing.T) {
	users := newFakeUsers()
	users.createErr = errors.New("connection reset")
	svc := NewService(fakeIssuer{}, users)

	_, err := svc.CreateAccount(context.Background(), RegisterRequest{
		Name: "Ada", Email: "ada@example.com", Password: "correct horse",
	}, "user")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailExists)
}
