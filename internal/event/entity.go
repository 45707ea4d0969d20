// AngelaMos | 2026
// entity.go

package event

import (
	"time"
)

const (
	TypeHappening = "happening"
	TypeUpcoming  = "upcoming"
	TypeExpired   = "expired"
)

// Event is a dated listing. Date, Month and Time are display strings
// entered by an admin, not parsed timestamps.
type Event struct {
	ID          string    `db:"id"`
	ImageURL    string    `db:"image_url"`
	Type        string    `db:"type"`
	Date        string    `db:"date"`
	Month       string    `db:"month"`
	Title       string    `db:"title"`
	Time        string    `db:"time"`
	Location    string    `db:"location"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
