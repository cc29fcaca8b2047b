package model

import "time"

// AccountStatus is the server-owned account state reflected client-side.
type AccountStatus string

const (
	StatusPendingVerification AccountStatus = "pending_verification"
	StatusActive              AccountStatus = "active"
	StatusBlocked             AccountStatus = "blocked"
)

// User is the profile projection of an account as the backend reports it.
type User struct {
	ID          int64         `json:"id,omitempty"`
	Email       string        `json:"email"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	PhoneNumber string        `json:"phone_number,omitempty"`
	IsAdmin     bool          `json:"is_admin"`
	Status      AccountStatus `json:"status,omitempty"`
	CreatedAt   time.Time     `json:"created_at,omitempty"`
}

// FullName joins first and last name for display.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserPage is one page of the admin user list.
type UserPage struct {
	Items      []User `json:"items"`
	TotalCount int    `json:"total_count"`
}
