// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const emailConstraint = "users_email_key"

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)

	// Purchase side owned by the user: user_purchased_courses.
	GetForUpdate(ctx context.Context, id string) (*User, error)
	HasPurchased(ctx context.Context, userID, courseID string) (bool, error)
	AddPurchasedCourse(ctx context.Context, userID, courseID string) error
	PurchasedCourseIDs(ctx context.Context, userID string) ([]string, error)
	PurchasedCourses(ctx context.Context, userID string) ([]PurchasedCourse, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if core.IsUniqueViolation(err, emailConstraint) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	if err := core.RequireUUID("get user", id); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// GetForUpdate row-locks the user until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id string) (*User, error) {
	if err := core.RequireUUID("lock user", id); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err, emailConstraint) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	return execOne(ctx, r.db, "update password", query, id, passwordHash)
}

// Delete removes the account; purchase rows on both sides cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	if err := core.RequireUUID("delete user", id); err != nil {
		return err
	}

	return execOne(ctx, r.db, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	conditions := []string{"TRUE"}
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role != "" {
		conditions = append(conditions, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, params.Role)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) HasPurchased(
	ctx context.Context,
	userID, courseID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_purchased_courses
			WHERE user_id = $1 AND course_id = $2
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, courseID); err != nil {
		return false, fmt.Errorf("check purchased: %w", err)
	}

	return exists, nil
}

func (r *repository) AddPurchasedCourse(
	ctx context.Context,
	userID, courseID string,
) error {
	query := `
		INSERT INTO user_purchased_courses (user_id, course_id)
		VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, userID, courseID); err != nil {
		if core.IsUniqueViolation(err, "") {
			return fmt.Errorf("add purchased course: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("add purchased course: %w", err)
	}

	return nil
}

func (r *repository) PurchasedCourseIDs(
	ctx context.Context,
	userID string,
) ([]string, error) {
	query := `
		SELECT course_id
		FROM user_purchased_courses
		WHERE user_id = $1
		ORDER BY purchased_at`

	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("list purchased course ids: %w", err)
	}

	return ids, nil
}

func (r *repository) PurchasedCourses(
	ctx context.Context,
	userID string,
) ([]PurchasedCourse, error) {
	query := `
		SELECT c.id, c.title, c.description, c.price, c.image_url, upc.purchased_at
		FROM user_purchased_courses upc
		JOIN courses c ON c.id = upc.course_id
		WHERE upc.user_id = $1
		ORDER BY upc.purchased_at`

	courses := []PurchasedCourse{}
	if err := r.db.SelectContext(ctx, &courses, query, userID); err != nil {
		return nil, fmt.Errorf("list purchased courses: %w", err)
	}

	return courses, nil
}

func execOne(
	ctx context.Context,
	db core.DBTX,
	op, query string,
	args ...any,
) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
