package identity

import "time"

// User represents a registered account holder.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Signup carries the fields required to create an account.
type Signup struct {
	Name     string
	Email    string
	Password string
}

// Credentials carries a login attempt.
type Credentials struct {
	Email    string
	Password string
}
