package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

// TaskInput carries the fields of a new task.
type TaskInput struct {
	Title       string
	Description *string
	Status      bool
}

// TaskService performs task operations on behalf of an authenticated owner.
// Tasks of other users are reported as ErrTaskNotFound.
type TaskService interface {
	CreateTask(ctx context.Context, owner *domain.User, in TaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, owner *domain.User, order domain.SortOrder) ([]domain.Task, error)
	GetTask(ctx context.Context, owner *domain.User, id uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, owner *domain.User, id uuid.UUID, upd domain.TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, owner *domain.User, id uuid.UUID) error
}

type taskService struct {
	tasks repository.TaskRepository
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewTaskService(tasks repository.TaskRepository, log logrus.FieldLogger) TaskService {
	return &taskService{
		tasks: tasks,
		log:   log.WithField("component", "task_service"),
		now:   time.Now,
	}
}

func (s *taskService) CreateTask(ctx context.Context, owner *domain.User, in TaskInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	task := &domain.Task{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeFailure(s.log, "create task", err)
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, owner *domain.User, order domain.SortOrder) ([]domain.Task, error) {
	tasks, err := s.tasks.ListByOwner(ctx, owner.ID, order)
	if err != nil {
		return nil, storeFailure(s.log, "list tasks", err)
	}
	return tasks, nil
}

func (s *taskService) GetTask(ctx context.Context, owner *domain.User, id uuid.UUID) (*domain.Task, error) {
	return s.ownedTask(ctx, owner, id)
}

func (s *taskService) UpdateTask(ctx context.Context, owner *domain.User, id uuid.UUID, upd domain.TaskUpdate) (*domain.Task, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}

	task, err := s.ownedTask(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if upd.IsEmpty() {
		return task, nil
	}

	if err := s.tasks.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeFailure(s.log, "update task", err)
	}

	return s.ownedTask(ctx, owner, id)
}

func (s *taskService) DeleteTask(ctx context.Context, owner *domain.User, id uuid.UUID) error {
	if _, err := s.ownedTask(ctx, owner, id); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return storeFailure(s.log, "delete task", err)
	}
	return nil
}

// ownedTask loads a task and applies the ownership check. Absence and foreign
// ownership produce the same error.
func (s *taskService) ownedTask(ctx context.Context, owner *domain.User, id uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, storeFailure(s.log, "get task", err)
	}
	if task.OwnerID != owner.ID {
		s.log.WithFields(logrus.Fields{"task_id": id, "user_id": owner.ID}).Debug("task owned by another user")
		return nil, ErrTaskNotFound
	}
	return task, nil
}
