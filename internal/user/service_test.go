// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

type fakeRepo struct {
	users     map[string]*User
	purchased map[string][]string
	deleted   []string
}

func newFakeRepo(users ...*User) *fakeRepo {
	f := &fakeRepo{
		users:     make(map[string]*User),
		purchased: make(map[string][]string),
	}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, id string) (*User, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
}

func (f *fakeRepo) Update(_ context.Context, u *User) error {
	if _, ok := f.users[u.ID]; !ok {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context, _ ListUsersParams) ([]User, int, error) {
	out := make([]User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeRepo) HasPurchased(_ context.Context, userID, courseID string) (bool, error) {
	for _, id := range f.purchased[userID] {
		if id == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) AddPurchasedCourse(_ context.Context, userID, courseID string) error {
	f.purchased[userID] = append(f.purchased[userID], courseID)
	return nil
}

func (f *fakeRepo) PurchasedCourseIDs(_ context.Context, userID string) ([]string, error) {
	return append([]string{}, f.purchased[userID]...), nil
}

func (f *fakeRepo) PurchasedCourses(_ context.Context, userID string) ([]PurchasedCourse, error) {
	out := []PurchasedCourse{}
	for _, id := range f.purchased[userID] {
		out = append(out, PurchasedCourse{ID: id, Title: "Course " + id})
	}
	return out, nil
}

const (
	adminID = "0b8f9a3e-6f0c-4c1e-9d7e-1a2b3c4d5e6f"
	userID  = "5c1d2e3f-7a8b-4c9d-8e0f-123456789abc"
)

func seededRepo() *fakeRepo {
	return newFakeRepo(
		&User{ID: adminID, Name: "Root", Email: "root@example.com", Role: RoleAdmin},
		&User{ID: userID, Name: "Learner", Email: "learner@example.com", Role: RoleUser},
	)
}

func TestDeleteUser_SelfDeleteRejected(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	err := svc.DeleteUser(context.Background(), adminID, adminID)

	require.ErrorIs(t, err, ErrSelfDelete)
	assert.Contains(t, repo.users, adminID)
	assert.Empty(t, repo.deleted)
}

func TestDeleteUser_RemovesOtherAccount(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	require.NoError(t, svc.DeleteUser(context.Background(), adminID, userID))
	assert.NotContains(t, repo.users, userID)
}

func TestDeleteUser_UnknownTarget(t *testing.T) {
	svc := NewService(seededRepo())

	err := svc.DeleteUser(context.Background(), adminID, "7e57d00d-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateProfile_HashesPasswordBeforePersisting(t *testing.T) {
	repo := seededRepo()
	svc := NewService(repo)

	newName := "  Renamed  "
	newEmail := "NEW@Example.com"
	newPassword := "brand-new-password"

	updated, _, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileRequest{
		Name:     &newName,
		Email:    &newEmail,
		Password: &newPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)

	stored := repo.users[userID]
	assert.NotEqual(t, newPassword, stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))

	ok, err := core.VerifyPassword(newPassword, stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateProfile_OmittedFieldsUnchanged(t *testing.T) {
	repo := seededRepo()
	repo.users[userID].PasswordHash = "existing-hash"
	svc := NewService(repo)

	name := "Only Name"
	_, _, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileRequest{Name: &name})
	require.NoError(t, err)

	stored := repo.users[userID]
	assert.Equal(t, "learner@example.com", stored.Email)
	assert.Equal(t, "existing-hash", stored.PasswordHash)
}

func TestLoadIdentity(t *testing.T) {
	svc := NewService(seededRepo())

	identity, err := svc.LoadIdentity(context.Background(), adminID)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, identity.Role)
	assert.Equal(t, "root@example.com", identity.Email)

	_, err = svc.LoadIdentity(context.Background(), "7e57d00d-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreate_NormalizesEmailAndRejectsUnknownRole(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	info, err := svc.Create(context.Background(), "Ada", " Ada@Example.COM ", "hash", RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", info.Email)

	_, err = svc.Create(context.Background(), "Eve", "eve@example.com", "hash", "superuser")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestGetProfile_IncludesPurchasedCourseIDs(t *testing.T) {
	repo := seededRepo()
	repo.purchased[userID] = []string{"c-1", "c-2"}
	svc := NewService(repo)

	_, ids, err := svc.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2"}, ids)
}
