// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// PurchasedCourse is the catalog summary of a course the user owns.
type PurchasedCourse struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	ImageURL    string    `db:"image_url"`
	PurchasedAt time.Time `db:"purchased_at"`
}
