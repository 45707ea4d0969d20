// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfileResponse struct {
	UserResponse
	PurchasedCourses []string `json:"purchased_courses"`
}

type UserDetailResponse struct {
	UserResponse
	PurchasedCourses []PurchasedCourseResponse `json:"purchased_courses"`
}

type PurchasedCourseResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	PurchasedAt time.Time `json:"purchased_at"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}

func ToPurchasedCourseResponseList(courses []PurchasedCourse) []PurchasedCourseResponse {
	responses := make([]PurchasedCourseResponse, 0, len(courses))
	for _, c := range courses {
		responses = append(responses, PurchasedCourseResponse{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Price:       c.Price,
			ImageURL:    c.ImageURL,
			PurchasedAt: c.PurchasedAt,
		})
	}
	return responses
}
