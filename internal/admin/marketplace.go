// AngelaMos | 2026
// marketplace.go

package admin

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/instaiq-backend/internal/core"
)

const topCourseLimit = 5

type MarketplaceStats struct {
	Users      int         `json:"users"      db:"users"`
	Admins     int         `json:"admins"     db:"admins"`
	Courses    int         `json:"courses"    db:"courses"`
	Events     int         `json:"events"     db:"events"`
	Purchases  int         `json:"purchases"  db:"purchases"`
	Revenue    float64     `json:"revenue"    db:"revenue"`
	TopCourses []TopCourse `json:"top_courses" db:"-"`
}

type TopCourse struct {
	ID        string  `json:"id"        db:"id"`
	Title     string  `json:"title"     db:"title"`
	Price     float64 `json:"price"     db:"price"`
	Purchases int     `json:"purchases" db:"purchases"`
}

type MarketplaceStore interface {
	Marketplace(ctx context.Context, top int) (*MarketplaceStats, error)
}

type StatsRepository struct {
	db core.DBTX
}

func NewStatsRepository(db core.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// Marketplace counts purchases from user_purchased_courses, the side a
// purchase always writes first.
func (r *StatsRepository) Marketplace(ctx context.Context, top int) (*MarketplaceStats, error) {
	totals := `
		SELECT
			(SELECT COUNT(*) FROM users WHERE role = 'user')  AS users,
			(SELECT COUNT(*) FROM users WHERE role = 'admin') AS admins,
			(SELECT COUNT(*) FROM courses)                     AS courses,
			(SELECT COUNT(*) FROM events)                      AS events,
			(SELECT COUNT(*) FROM user_purchased_courses)      AS purchases,
			(SELECT COALESCE(SUM(c.price), 0)
				FROM user_purchased_courses upc
				JOIN courses c ON c.id = upc.course_id)        AS revenue`

	var stats MarketplaceStats
	if err := r.db.GetContext(ctx, &stats, totals); err != nil {
		return nil, fmt.Errorf("marketplace totals: %w", err)
	}

	query := `
		SELECT c.id, c.title, c.price, COUNT(upc.user_id) AS purchases
		FROM courses c
		JOIN user_purchased_courses upc ON upc.course_id = c.id
		GROUP BY c.id, c.title, c.price
		ORDER BY purchases DESC, c.title
		LIMIT $1`

	stats.TopCourses = []TopCourse{}
	if err := r.db.SelectContext(ctx, &stats.TopCourses, query, top); err != nil {
		return nil, fmt.Errorf("top courses: %w", err)
	}

	return &stats, nil
}
