package models

import "time"

// Role represents the two access levels resolved per request.
// Roles are not claims on the token: admins are whitelist members,
// users are everyone else on the trusted institutional domain.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a student profile stored in the users table.
// The id matches the authentication subject issued by the SSO.
type User struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	Year       int       `db:"year" json:"year"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
