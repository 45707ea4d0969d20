// AngelaMos | 2026
// repository.go

package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const titleConstraint = "courses_title_key"

type Repository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, id string) (*Course, error)
	List(ctx context.Context) ([]Course, error)
	ListByIDs(ctx context.Context, ids []string) ([]Course, error)
	Search(ctx context.Context, query string) ([]Course, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, id string) error

	// Purchase side owned by the course: course_purchasers.
	GetForUpdate(ctx context.Context, id string) (*Course, error)
	HasPurchaser(ctx context.Context, courseID, userID string) (bool, error)
	AddPurchaser(ctx context.Context, courseID, userID string) error
	ListPurchasers(ctx context.Context, courseID string) ([]Purchaser, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const courseColumns = `id, title, description, price, image_url, details,
	rating, number_of_ratings, created_at, updated_at`

func (r *repository) Create(ctx context.Context, course *Course) error {
	query := `
		INSERT INTO courses (id, title, description, price, image_url, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING rating, number_of_ratings, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		course.ID,
		course.Title,
		course.Description,
		course.Price,
		course.ImageURL,
		course.Details,
	).Scan(
		&course.Rating,
		&course.NumberOfRatings,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if core.IsUniqueViolation(err, titleConstraint) {
			return fmt.Errorf("create course: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Course, error) {
	return r.get(ctx, "get course", `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id)
}

// GetForUpdate row-locks the course until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id string) (*Course, error) {
	return r.get(ctx, "lock course",
		`SELECT `+courseColumns+` FROM courses WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(
	ctx context.Context,
	op, query, id string,
) (*Course, error) {
	if err := core.RequireUUID(op, id); err != nil {
		return nil, err
	}

	var course Course
	err := r.db.GetContext(ctx, &course, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &course, nil
}

func (r *repository) List(ctx context.Context) ([]Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`

	courses := []Course{}
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return courses, nil
}

// ListByIDs returns the courses in the order of ids, skipping ids that no
// longer exist.
func (r *repository) ListByIDs(ctx context.Context, ids []string) ([]Course, error) {
	if len(ids) == 0 {
		return []Course{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT `+courseColumns+` FROM courses WHERE id IN (?)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("list courses by id: %w", err)
	}

	found := []Course{}
	if err := r.db.SelectContext(ctx, &found, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list courses by id: %w", err)
	}

	byID := make(map[string]Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}

	ordered := make([]Course, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}

	return ordered, nil
}

func (r *repository) Search(ctx context.Context, q string) ([]Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY created_at DESC`

	courses := []Course{}
	pattern := "%" + escapeLike(q) + "%"
	if err := r.db.SelectContext(ctx, &courses, query, pattern); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}

	return courses, nil
}

func (r *repository) Update(ctx context.Context, course *Course) error {
	query := `
		UPDATE courses
		SET title = $2, description = $3, price = $4, image_url = $5,
			details = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &course.UpdatedAt, query,
		course.ID,
		course.Title,
		course.Description,
		course.Price,
		course.ImageURL,
		course.Details,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update course: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsUniqueViolation(err, titleConstraint) {
			return fmt.Errorf("update course: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update course: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if err := core.RequireUUID("delete course", id); err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete course: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) HasPurchaser(
	ctx context.Context,
	courseID, userID string,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM course_purchasers
			WHERE course_id = $1 AND user_id = $2
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, courseID, userID); err != nil {
		return false, fmt.Errorf("check purchaser: %w", err)
	}

	return exists, nil
}

func (r *repository) AddPurchaser(
	ctx context.Context,
	courseID, userID string,
) error {
	query := `
		INSERT INTO course_purchasers (course_id, user_id)
		VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, courseID, userID); err != nil {
		if core.IsUniqueViolation(err, "") {
			return fmt.Errorf("add purchaser: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("add purchaser: %w", err)
	}

	return nil
}

func (r *repository) ListPurchasers(
	ctx context.Context,
	courseID string,
) ([]Purchaser, error) {
	query := `
		SELECT u.id, u.name, u.email, cp.purchased_at
		FROM course_purchasers cp
		JOIN users u ON u.id = cp.user_id
		WHERE cp.course_id = $1
		ORDER BY cp.purchased_at`

	purchasers := []Purchaser{}
	if err := r.db.SelectContext(ctx, &purchasers, query, courseID); err != nil {
		return nil, fmt.Errorf("list purchasers: %w", err)
	}

	return purchasers, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
