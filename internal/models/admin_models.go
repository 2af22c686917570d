package models

import "time"

// AdminUser is an operator allowed to log in to the back office.
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Actor identifies who performed an operation; it stamps audit entries.
type Actor struct {
	ID   string
	Name string
	Role string
}

// UnknownActor is used when a request carries no identity.
var UnknownActor = Actor{ID: "unknown", Name: "unknown"}

// OrUnknown fills empty identity fields with "unknown".
func (a Actor) OrUnknown() Actor {
	if a.ID == "" {
		a.ID = UnknownActor.ID
	}
	if a.Name == "" {
		a.Name = UnknownActor.Name
	}
	return a
}
