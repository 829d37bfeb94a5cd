package models

import "fmt"

// User is the authenticated account the collaborator reports on login.
// Role is immutable for the lifetime of a session.
type User struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStudent bool   `json:"isStudent"`
}

// FullName returns the display name used across views.
func (u User) FullName() string {
	return fmt.Sprintf("%s %s", u.FirstName, u.LastName)
}
