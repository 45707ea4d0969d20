// AngelaMos | 2026
// dto.go

package course

import (
	"time"
)

type CreateCourseRequest struct {
	Title       string   `json:"title"       validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"required,min=1,max=5000"`
	Price       *float64 `json:"price"       validate:"required,gte=0"`
	ImageURL    string   `json:"image_url"   validate:"omitempty,url,max=2048"`
	Details     []string `json:"details"     validate:"omitempty,max=50,dive,min=1,max=500"`
}

// UpdateCourseRequest overwrites only the fields that are present. A
// present but empty details list clears the details.
type UpdateCourseRequest struct {
	Title       *string   `json:"title,omitempty"       validate:"omitempty,min=1,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=1,max=5000"`
	Price       *float64  `json:"price,omitempty"       validate:"omitempty,gte=0"`
	ImageURL    *string   `json:"image_url,omitempty"   validate:"omitempty,url,max=2048"`
	Details     *[]string `json:"details,omitempty"     validate:"omitempty,max=50,dive,min=1,max=500"`
}

type CourseResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	ImageURL        string    `json:"image_url"`
	Details         []string  `json:"details"`
	Rating          float64   `json:"rating"`
	NumberOfRatings int       `json:"number_of_ratings"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CourseDetailResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"image_url"`
	Details     []string `json:"details"`
}

type PurchaserResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type PurchasersResponse struct {
	CourseDetailResponse
	PurchasedBy []PurchaserResponse `json:"purchased_by"`
}

func ToCourseResponse(c *Course) CourseResponse {
	return CourseResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		Price:           c.Price,
		ImageURL:        c.ImageURL,
		Details:         detailsOrEmpty(c.Details),
		Rating:          c.Rating,
		NumberOfRatings: c.NumberOfRatings,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func ToCourseResponseList(courses []Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		responses = append(responses, ToCourseResponse(&courses[i]))
	}
	return responses
}

func ToCourseDetailResponse(c *Course) CourseDetailResponse {
	return CourseDetailResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		Details:     detailsOrEmpty(c.Details),
	}
}

func ToPurchasersResponse(c *Course, purchasers []Purchaser) PurchasersResponse {
	by := make([]PurchaserResponse, 0, len(purchasers))
	for _, p := range purchasers {
		by = append(by, PurchaserResponse{
			ID:          p.ID,
			Name:        p.Name,
			Email:       p.Email,
			PurchasedAt: p.PurchasedAt,
		})
	}

	return PurchasersResponse{
		CourseDetailResponse: ToCourseDetailResponse(c),
		PurchasedBy:          by,
	}
}

func detailsOrEmpty(d Details) []string {
	if d == nil {
		return []string{}
	}
	return d
}
