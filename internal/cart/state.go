// AngelaMos | 2026
// state.go

package cart

import (
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Session is the signed-in account held alongside the cart.
type Session struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

// Item is one cart line. ID is generated per add, so the same course can
// appear twice and each copy is removed independently.
type Item struct {
	ID       string `json:"cart_id"`
	CourseID string `json:"course_id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
}

func NewItem(courseID, title, price string) Item {
	return Item{
		ID:       uuid.NewString(),
		CourseID: courseID,
		Title:    title,
		Price:    price,
	}
}

type State struct {
	User  *Session `json:"user"`
	Items []Item   `json:"cart"`
}

func (s State) clone() State {
	out := State{Items: slices.Clone(s.Items)}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if out.Items == nil {
		out.Items = []Item{}
	}
	return out
}

func (s State) Total() float64 {
	var total float64
	for _, it := range s.Items {
		total += ParsePrice(it.Price)
	}
	return total
}

// ParsePrice reads a display price such as "₹1,499" or "$49.00". "Free",
// empty and unparseable prices count as zero.
func ParsePrice(price string) float64 {
	if price == "" || price == "Free" {
		return 0
	}

	var b strings.Builder
	seenDot := false
scan:
	for _, r := range price {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			if seenDot {
				break scan
			}
			seenDot = true
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil {
		return 0
	}
	return v
}
