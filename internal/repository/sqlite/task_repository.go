package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"task-tracker/internal/domain"
	"task-tracker/internal/repository"
)

const selectTask = `
SELECT id, owner_id, title, description, status, created_at
FROM tasks`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ repository.TaskRepository = (*TaskRepository)(nil)

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO tasks (id, owner_id, title, description, status, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		task.ID.String(),
		task.OwnerID.String(),
		task.Title,
		nullString(task.Description),
		task.Status,
		task.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx, selectTask+`
WHERE id = ?`,
		id.String(),
	)
	return scanTask(row)
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, order domain.SortOrder) ([]domain.Task, error) {
	direction := "ASC"
	if order == domain.SortDesc {
		direction = "DESC"
	}

	query := fmt.Sprintf(selectTask+`
WHERE owner_id = ?
ORDER BY created_at %[1]s, rowid %[1]s`, direction)

	rows, err := r.db.QueryContext(ctx, query, ownerID.String())
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}

	return tasks, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, id uuid.UUID, upd domain.TaskUpdate) error {
	if upd.IsEmpty() {
		return nil
	}

	var (
		fields []string
		args   []any
	)
	if upd.Title != nil {
		fields = append(fields, "title=?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		fields = append(fields, "description=?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		fields = append(fields, "status=?")
		args = append(args, *upd.Status)
	}
	args = append(args, id.String())

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	res, err := tx.ExecContext(ctx, `UPDATE tasks SET `+strings.Join(fields, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task update: %w", err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id=?`, id.String())
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task delete: %w", err)
	}
	return nil
}

func expectOneRow(res sql.Result) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

func scanTask(row scanner) (*domain.Task, error) {
	var (
		task        domain.Task
		id, ownerID string
		description sql.NullString
	)

	if err := row.Scan(
		&id,
		&ownerID,
		&task.Title,
		&description,
		&task.Status,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	var err error
	if task.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("stored task id %q: %w", id, err)
	}
	if task.OwnerID, err = uuid.Parse(ownerID); err != nil {
		return nil, fmt.Errorf("stored owner id %q for task %s: %w", ownerID, id, err)
	}
	if description.Valid {
		d := description.String
		task.Description = &d
	}
	task.CreatedAt = task.CreatedAt.UTC()

	return &task, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
