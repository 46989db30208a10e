package domain

import "time"

// User represents a registered account. PasswordHash is the only credential
// ever stored; plaintext passwords do not leave the register/login path.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Phone        string
	CreatedAt    time.Time
}
