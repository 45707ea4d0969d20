// AngelaMos | 2026
// entity.go

package course

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Course struct {
	ID              string    `db:"id"`
	Title           string    `db:"title"`
	Description     string    `db:"description"`
	Price           float64   `db:"price"`
	ImageURL        string    `db:"image_url"`
	Details         Details   `db:"details"`
	Rating          float64   `db:"rating"`
	NumberOfRatings int       `db:"number_of_ratings"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// Details is the ordered list of bullet points shown on a course page,
// stored as a JSONB array.
type Details []string

func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

func (d *Details) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = Details{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan details: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan details: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*d = out
	return nil
}

// Purchaser is an account on the course side of a purchase.
type Purchaser struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Email       string    `db:"email"`
	PurchasedAt time.Time `db:"purchased_at"`
}
