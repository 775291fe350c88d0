package repository

import (
	"context"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	// Create inserts user. Returns ErrUserAlreadyExists when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	// GetByEmail returns ErrUserNotFound when no user has that email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByID returns ErrUserNotFound when no user has that id.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}
