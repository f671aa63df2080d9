package models

import "time"

// WhitelistEntry grants administrator privileges to an email address.
// An empty department means the admin spans all departments.
type WhitelistEntry struct {
	Email      string    `db:"email" json:"email"`
	Department string    `db:"department" json:"department"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AllDepartments reports whether the entry is unscoped.
func (w WhitelistEntry) AllDepartments() bool {
	return w.Department == "" || w.Department == "all"
}
