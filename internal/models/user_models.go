package models

import "time"

// User is a person in the personnel directory.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SurName   string    `json:"surName"`
	Documents string    `json:"documents"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UsersPage is the paginated listing body for users.
type UsersPage struct {
	Data       []User `json:"data"`
	TotalItems int    `json:"totalItems"`
	TotalPages int    `json:"totalPages"`
}
