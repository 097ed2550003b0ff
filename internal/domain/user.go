package domain

import "time"

// User is the authenticated subject as held by the user store.
type User struct {
	ID                  string
	Email               string
	PasswordHash        string
	IsSuperuser         bool
	LastAuthenticatedAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
