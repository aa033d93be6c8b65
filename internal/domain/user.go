package domain

import "time"

// RoleAdmin is the only role the storefront distinguishes.
const RoleAdmin = "admin"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the acting user of a request, resolved from its session.
type Identity struct {
	User    User `json:"user"`
	IsAdmin bool `json:"isAdmin"`
}

// Profile stores per-user delivery defaults.
type Profile struct {
	UserID     string    `json:"userId"`
	FullName   string    `json:"fullName"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postalCode"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
