package domain

import "github.com/google/uuid"

// User represents a registered account. Email is the login key.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}
