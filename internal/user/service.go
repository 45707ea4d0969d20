// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/instaiq-backend/internal/auth"
	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/middleware"
)

var ErrSelfDelete = core.NewAppError(
	errors.New("self delete"),
	"cannot delete your own admin account via this route",
	http.StatusBadRequest,
	"VALIDATION_ERROR",
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	name, email, passwordHash, role string,
) (*auth.UserInfo, error) {
	if role != RoleUser && role != RoleAdmin {
		return nil, fmt.Errorf(
			"create user: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	user := &User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// LoadIdentity resolves a token subject to the account it names, without
// the password hash.
func (s *Service) LoadIdentity(
	ctx context.Context,
	userID string,
) (*middleware.Identity, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *Service) GetProfile(
	ctx context.Context,
	userID string,
) (*User, []string, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("get profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	courseIDs, err := s.repo.PurchasedCourseIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, courseIDs, nil
}

// UpdateProfile applies the provided fields. A new password is hashed here
// so the repository only ever sees the encoded hash.
func (s *Service) UpdateProfile(
	ctx context.Context,
	userID string,
	req UpdateProfileRequest,
) (*User, []string, error) {
	if userID == "" {
		return nil, nil, fmt.Errorf("update profile: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Password != nil {
		hash, hashErr := core.HashPassword(*req.Password)
		if hashErr != nil {
			return nil, nil, fmt.Errorf("hash password: %w", hashErr)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	courseIDs, err := s.repo.PurchasedCourseIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, courseIDs, nil
}

func (s *Service) PurchasedCourses(
	ctx context.Context,
	userID string,
) ([]PurchasedCourse, error) {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.repo.PurchasedCourses(ctx, userID)
}

func (s *Service) GetUser(
	ctx context.Context,
	id string,
) (*User, []PurchasedCourse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	courses, err := s.repo.PurchasedCourses(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return user, courses, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// DeleteUser removes targetID. An admin cannot remove their own account
// through this path.
func (s *Service) DeleteUser(ctx context.Context, requesterID, targetID string) error {
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return err
	}

	if requesterID == targetID {
		return ErrSelfDelete
	}

	return s.repo.Delete(ctx, targetID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}
}

var (
	_ auth.UserProvider         = (*Service)(nil)
	_ middleware.IdentityLoader = (*Service)(nil)
)
