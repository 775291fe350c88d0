package repository

import (
	"context"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
)

// TaskRepository exposes persistence operations for Task records.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, order domain.SortOrder) ([]domain.Task, error)
	// Update writes only the fields set in upd. An empty update touches nothing.
	Update(ctx context.Context, id uuid.UUID, upd domain.TaskUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}
