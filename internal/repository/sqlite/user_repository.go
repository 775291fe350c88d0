package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, email, hashed_password)
VALUES (?, ?, ?)`,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, hashed_password
FROM users
WHERE email = ?`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, email, hashed_password
FROM users
WHERE id = ?`,
		id.String(),
	)
	return scanUser(row)
}

func scanUser(row scanner) (*domain.User, error) {
	var (
		user domain.User
		id   string
	)
	if err := row.Scan(&id, &user.Email, &user.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("stored user id %q: %w", id, err)
	}
	user.ID = parsed
	return &user, nil
}
