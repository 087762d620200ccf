package entity

import "time"

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	IsSuperuser  bool
	LastLoginIP  *string
	CreatedAt    time.Time
}
