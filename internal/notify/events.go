// AngelaMos | 2026
// events.go

package notify

import (
	"time"
)

// Routing keys on the notifications topic exchange.
const (
	KeyCoursePurchased  = "course.purchased"
	KeyContactSubmitted = "contact.submitted"
)

type CoursePurchased struct {
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	CourseID    string    `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	Price       float64   `json:"price"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type ContactSubmitted struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
