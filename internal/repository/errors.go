package repository

import "errors"

var (
	// ErrUserNotFound indicates that no user matched the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserAlreadyExists indicates a user with the same email is already stored.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrTaskNotFound indicates that no task matched the id.
	ErrTaskNotFound = errors.New("task not found")
)
