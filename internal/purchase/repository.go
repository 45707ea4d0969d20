// AngelaMos | 2026
// repository.go

package purchase

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
	"github.com/carterperez-dev/instaiq-backend/internal/course"
	"github.com/carterperez-dev/instaiq-backend/internal/user"
)

// Sides of a one-sided purchase record.
const (
	SideUserOnly   = "user_only"
	SideCourseOnly = "course_only"
)

// Mismatch is a (user, course) pair recorded on only one side.
type Mismatch struct {
	UserID   string `db:"user_id"   json:"user_id"`
	CourseID string `db:"course_id" json:"course_id"`
	Side     string `db:"side"      json:"side"`
}

type UserStore interface {
	GetForUpdate(ctx context.Context, id string) (*user.User, error)
	HasPurchased(ctx context.Context, userID, courseID string) (bool, error)
	AddPurchasedCourse(ctx context.Context, userID, courseID string) error
}

type CourseStore interface {
	GetForUpdate(ctx context.Context, id string) (*course.Course, error)
	HasPurchaser(ctx context.Context, courseID, userID string) (bool, error)
	AddPurchaser(ctx context.Context, courseID, userID string) error
}

type LedgerStore interface {
	Mismatches(ctx context.Context) ([]Mismatch, error)
	Repair(ctx context.Context, m Mismatch) (bool, error)
}

// Stores groups the repositories one purchase transaction touches.
type Stores struct {
	Users   UserStore
	Courses CourseStore
	Ledger  LedgerStore
}

// StoreFactory binds Stores to a transaction handle.
type StoreFactory func(db core.DBTX) Stores

func NewStores(db core.DBTX) Stores {
	return Stores{
		Users:   user.NewRepository(db),
		Courses: course.NewRepository(db),
		Ledger:  NewLedger(db),
	}
}

type ledger struct {
	db core.DBTX
}

func NewLedger(db core.DBTX) LedgerStore {
	return &ledger{db: db}
}

func (l *ledger) Mismatches(ctx context.Context) ([]Mismatch, error) {
	query := `
		SELECT
			COALESCE(upc.user_id, cp.user_id) AS user_id,
			COALESCE(upc.course_id, cp.course_id) AS course_id,
			CASE WHEN cp.user_id IS NULL THEN 'user_only' ELSE 'course_only' END AS side
		FROM user_purchased_courses upc
		FULL OUTER JOIN course_purchasers cp
			ON cp.user_id = upc.user_id AND cp.course_id = upc.course_id
		WHERE upc.user_id IS NULL OR cp.user_id IS NULL
		ORDER BY user_id, course_id`

	mismatches := []Mismatch{}
	if err := l.db.SelectContext(ctx, &mismatches, query); err != nil {
		return nil, fmt.Errorf("list purchase mismatches: %w", err)
	}

	return mismatches, nil
}

// Repair copies the recorded side onto the missing one, keeping the
// original purchase time. It reports whether a row was written.
func (l *ledger) Repair(ctx context.Context, m Mismatch) (bool, error) {
	var query string
	switch m.Side {
	case SideUserOnly:
		query = `
			INSERT INTO course_purchasers (course_id, user_id, purchased_at)
			SELECT course_id, user_id, purchased_at
			FROM user_purchased_courses
			WHERE user_id = $1 AND course_id = $2
			ON CONFLICT DO NOTHING`
	case SideCourseOnly:
		query = `
			INSERT INTO user_purchased_courses (user_id, course_id, purchased_at)
			SELECT user_id, course_id, purchased_at
			FROM course_purchasers
			WHERE user_id = $1 AND course_id = $2
			ON CONFLICT DO NOTHING`
	default:
		return false, fmt.Errorf("repair purchase: unknown side %q: %w", m.Side, core.ErrInvalidInput)
	}

	result, err := l.db.ExecContext(ctx, query, m.UserID, m.CourseID)
	if err != nil {
		return false, fmt.Errorf("repair purchase: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("repair purchase: %w", err)
	}

	return rows > 0, nil
}
